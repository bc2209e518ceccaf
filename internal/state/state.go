// Package state persists sessions as YAML files, one per session, so the CLI
// and the dashboard server observe the same incidents.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shahar-caura/lifeline/internal/incident"
)

// DefaultSessionsDir is where session files live unless overridden.
const DefaultSessionsDir = ".lifeline/sessions"

var sessionsDir = DefaultSessionsDir

// SetSessionsDir overrides the sessions directory path.
func SetSessionsDir(dir string) { sessionsDir = dir }

// SessionsDir returns the current sessions directory path.
func SessionsDir() string { return sessionsDir }

// ErrNotExist is returned when no file exists for a session ID.
var ErrNotExist = errors.New("session does not exist")

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidID reports whether id is safe to use as a file name.
func ValidID(id string) bool { return idPattern.MatchString(id) }

// Status describes whether a session currently has an incident.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusActive Status = "active"
)

// SessionState is the persistent record for one session. Incident is nil
// while the session is idle.
type SessionState struct {
	ID        string             `yaml:"id"`
	CreatedAt time.Time          `yaml:"created_at"`
	UpdatedAt time.Time          `yaml:"updated_at"`
	Incident  *incident.Incident `yaml:"incident,omitempty"`
}

// New creates an idle SessionState.
func New(id string, now time.Time) *SessionState {
	return &SessionState{ID: id, CreatedAt: now, UpdatedAt: now}
}

// Status reports idle or active.
func (s *SessionState) Status() Status {
	if s.Incident == nil {
		return StatusIdle
	}
	return StatusActive
}

func path(id string) string {
	return filepath.Join(sessionsDir, id+".yaml")
}

// Load reads a SessionState from <sessions dir>/<id>.yaml.
func Load(id string) (*SessionState, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("invalid session id %q", id)
	}
	ss, err := LoadFile(path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, id)
	}
	return ss, err
}

// LoadFile reads a SessionState from an arbitrary file path.
func LoadFile(p string) (*SessionState, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("loading session state %q: %w", p, err)
	}

	var ss SessionState
	if err := yaml.Unmarshal(data, &ss); err != nil {
		return nil, fmt.Errorf("parsing session state %q: %w", p, err)
	}
	return &ss, nil
}

// Save writes the SessionState atomically, stamping UpdatedAt with now.
func (s *SessionState) Save(now time.Time) error {
	if err := os.MkdirAll(sessionsDir, 0o755); err != nil {
		return fmt.Errorf("creating sessions dir: %w", err)
	}

	s.UpdatedAt = now

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}

	dest := path(s.ID)
	tmp := dest + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp state file: %w", err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming state file: %w", err)
	}

	return nil
}

// Version identifies one on-disk revision of a session file.
type Version struct {
	ModTime time.Time
	Size    int64
}

// Stat returns the current file version for id, or ErrNotExist.
func Stat(id string) (Version, error) {
	if !ValidID(id) {
		return Version{}, fmt.Errorf("invalid session id %q", id)
	}
	info, err := os.Stat(path(id))
	if errors.Is(err, os.ErrNotExist) {
		return Version{}, fmt.Errorf("%w: %s", ErrNotExist, id)
	}
	if err != nil {
		return Version{}, fmt.Errorf("stat session state: %w", err)
	}
	return Version{ModTime: info.ModTime(), Size: info.Size()}, nil
}

// Delete removes the session file. Deleting a missing session is not an error.
func Delete(id string) error {
	if !ValidID(id) {
		return fmt.Errorf("invalid session id %q", id)
	}
	if err := os.Remove(path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting session state: %w", err)
	}
	return nil
}

// List returns all sessions sorted by created_at descending.
func List() ([]*SessionState, error) {
	entries, err := filepath.Glob(filepath.Join(sessionsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	var sessions []*SessionState
	for _, p := range entries {
		ss, err := LoadFile(p)
		if err != nil {
			continue // unreadable or corrupt
		}
		sessions = append(sessions, ss)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	return sessions, nil
}

// Cleanup deletes sessions not updated within retention of now.
// Returns the IDs removed.
func Cleanup(retention time.Duration, now time.Time) ([]string, error) {
	sessions, err := List()
	if err != nil {
		return nil, fmt.Errorf("listing sessions for cleanup: %w", err)
	}

	cutoff := now.Add(-retention)
	var removed []string
	for _, ss := range sessions {
		if ss.UpdatedAt.After(cutoff) {
			continue
		}
		if err := os.Remove(path(ss.ID)); err == nil {
			removed = append(removed, ss.ID)
		}
	}
	return removed, nil
}

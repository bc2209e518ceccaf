// Package session owns the set of live emergency sessions. Each session is an
// independent incident engine; the Manager serializes mutations per session
// and persists every change through internal/state so that the CLI and the
// dashboard server share one view.
package session

import (
	"context"
	"errors"
	"fmt"
	"hash/maphash"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shahar-caura/lifeline/internal/archive"
	"github.com/shahar-caura/lifeline/internal/clock"
	"github.com/shahar-caura/lifeline/internal/export"
	"github.com/shahar-caura/lifeline/internal/provider"
	"github.com/shahar-caura/lifeline/internal/state"
	"github.com/shahar-caura/lifeline/internal/triage"
)

var (
	// ErrNotFound is returned for session IDs with no stored session.
	ErrNotFound = errors.New("session not found")
	// ErrNoIncident is returned by incident operations on an idle session.
	ErrNoIncident = errors.New("no active incident")
	// ErrInvalidID is returned for IDs that are not safe file names.
	ErrInvalidID = errors.New("invalid session id")
	// ErrInvalidArgument is returned for malformed operation arguments.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnavailable is returned when an optional collaborator is not configured.
	ErrUnavailable = errors.New("not configured")
)

// DefaultCacheSize bounds the number of sessions kept decoded in memory.
const DefaultCacheSize = 256

// lockStripes is the size of the per-session lock table. Sessions that hash
// to the same stripe serialize against each other.
const lockStripes = 64

// Archiver stores a record of an incident when its session is reset.
type Archiver interface {
	Record(ctx context.Context, e archive.Entry) error
}

type cached struct {
	ss      *state.SessionState
	version state.Version
}

// Manager coordinates session reads and writes.
type Manager struct {
	clock  clock.Clock
	logger *slog.Logger
	tracer trace.Tracer

	seed  maphash.Seed
	locks [lockStripes]sync.Mutex
	cache *lru.Cache[string, cached]

	detector provider.ImagePresenceDetector
	notifier provider.Notifier
	minAlert triage.Severity
	archive  Archiver
	exports  export.Store
	speech   provider.SpeechRenderer
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source. Defaults to clock.Real.
func WithClock(c clock.Clock) Option { return func(m *Manager) { m.clock = c } }

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(m *Manager) { m.logger = l } }

// WithCacheSize bounds the decoded-session cache.
func WithCacheSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.cache, _ = lru.New[string, cached](n)
		}
	}
}

// WithDetector sets the image presence detector used by Start.
func WithDetector(d provider.ImagePresenceDetector) Option {
	return func(m *Manager) { m.detector = d }
}

// WithNotifier alerts n when an incident at or above min severity starts.
func WithNotifier(n provider.Notifier, min triage.Severity) Option {
	return func(m *Manager) {
		m.notifier = n
		m.minAlert = min
	}
}

// WithArchive records incidents to a when sessions are reset.
func WithArchive(a Archiver) Option { return func(m *Manager) { m.archive = a } }

// WithExportStore sets where Export writes summaries.
func WithExportStore(s export.Store) Option { return func(m *Manager) { m.exports = s } }

// WithSpeech sets the renderer used by Speak.
func WithSpeech(s provider.SpeechRenderer) Option { return func(m *Manager) { m.speech = s } }

// NewManager returns a Manager backed by the state package's sessions directory.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		clock:    clock.Real{},
		logger:   slog.Default(),
		tracer:   otel.Tracer("github.com/shahar-caura/lifeline/internal/session"),
		minAlert: triage.Critical,
		seed:     maphash.MakeSeed(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cache == nil {
		m.cache, _ = lru.New[string, cached](DefaultCacheSize)
	}
	return m
}

// NewID returns a fresh random session ID.
func NewID() string {
	return uuid.NewString()
}

func (m *Manager) lock(id string) func() {
	mu := &m.locks[m.stripe(id)]
	mu.Lock()
	return mu.Unlock
}

func (m *Manager) stripe(id string) int {
	return int(maphash.String(m.seed, id) % lockStripes)
}

func (m *Manager) span(ctx context.Context, op, id string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "session."+op, trace.WithAttributes(attribute.String("session.id", id)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// load returns the current session for id. The caller holds the id lock.
// A cached copy is used only while the file on disk is unchanged, so edits
// made by another process are picked up.
func (m *Manager) load(id string) (*state.SessionState, error) {
	version, err := state.Stat(id)
	if errors.Is(err, state.ErrNotExist) {
		m.cache.Remove(id)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if c, ok := m.cache.Get(id); ok && c.version == version {
		return c.ss, nil
	}

	ss, err := state.Load(id)
	if errors.Is(err, state.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	m.cache.Add(id, cached{ss: ss, version: version})
	return ss, nil
}

// save persists ss and refreshes the cache. The caller holds the id lock.
func (m *Manager) save(ss *state.SessionState) error {
	if err := ss.Save(m.clock.Now()); err != nil {
		m.cache.Remove(ss.ID)
		return fmt.Errorf("saving session %s: %w", ss.ID, err)
	}
	version, err := state.Stat(ss.ID)
	if err != nil {
		m.cache.Remove(ss.ID)
		return nil
	}
	m.cache.Add(ss.ID, cached{ss: ss, version: version})
	return nil
}

// read runs fn against the session under its lock.
func (m *Manager) read(id string, fn func(*state.SessionState) error) error {
	if !state.ValidID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	unlock := m.lock(id)
	defer unlock()

	ss, err := m.load(id)
	if err != nil {
		return err
	}
	return fn(ss)
}

// update runs fn against the session under its lock and saves the result.
// With create set, a missing session is created first.
func (m *Manager) update(id string, create bool, fn func(*state.SessionState) error) (View, error) {
	if !state.ValidID(id) {
		return View{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	unlock := m.lock(id)
	defer unlock()

	ss, err := m.load(id)
	if errors.Is(err, ErrNotFound) && create {
		ss, err = state.New(id, m.clock.Now()), nil
	}
	if err != nil {
		return View{}, err
	}

	if err := fn(ss); err != nil {
		// fn may have partially mutated the cached copy.
		m.cache.Remove(id)
		return View{}, err
	}
	if err := m.save(ss); err != nil {
		return View{}, err
	}
	return newView(ss, m.clock.Now()), nil
}

// Create stores a new idle session. An empty id gets a generated one.
// Creating an existing session returns its current view.
func (m *Manager) Create(ctx context.Context, id string) (v View, err error) {
	if id == "" {
		id = NewID()
	}
	_, span := m.span(ctx, "Create", id)
	defer func() { endSpan(span, err) }()

	v, err = m.update(id, true, func(*state.SessionState) error { return nil })
	if err != nil {
		return View{}, err
	}
	m.logger.Debug("session created", "id", id)
	return v, nil
}

// Get returns the current view of a session.
func (m *Manager) Get(ctx context.Context, id string) (v View, err error) {
	_, span := m.span(ctx, "Get", id)
	defer func() { endSpan(span, err) }()

	err = m.read(id, func(ss *state.SessionState) error {
		v = newView(ss, m.clock.Now())
		return nil
	})
	return v, err
}

// List returns views of all stored sessions, newest first.
func (m *Manager) List(ctx context.Context) (views []View, err error) {
	_, span := m.tracer.Start(ctx, "session.List")
	defer func() { endSpan(span, err) }()

	sessions, err := state.List()
	if err != nil {
		return nil, err
	}
	for _, ss := range sessions {
		v, err := m.Get(ctx, ss.ID)
		if errors.Is(err, ErrNotFound) {
			continue // deleted since listing
		}
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) (err error) {
	_, span := m.span(ctx, "Delete", id)
	defer func() { endSpan(span, err) }()

	if !state.ValidID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	unlock := m.lock(id)
	defer unlock()

	if _, err := state.Stat(id); errors.Is(err, state.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.cache.Remove(id)
	if err := state.Delete(id); err != nil {
		return err
	}
	m.logger.Debug("session deleted", "id", id)
	return nil
}

// Cleanup deletes sessions idle for longer than retention.
func (m *Manager) Cleanup(ctx context.Context, retention time.Duration) (removed []string, err error) {
	_, span := m.tracer.Start(ctx, "session.Cleanup")
	defer func() { endSpan(span, err) }()

	removed, err = state.Cleanup(retention, m.clock.Now())
	if err != nil {
		return nil, err
	}
	for _, id := range removed {
		m.cache.Remove(id)
	}
	return removed, nil
}

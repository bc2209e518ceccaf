package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/shahar-caura/lifeline/internal/archive"
	"github.com/shahar-caura/lifeline/internal/incident"
	"github.com/shahar-caura/lifeline/internal/provider/notifier"
	"github.com/shahar-caura/lifeline/internal/state"
	"github.com/shahar-caura/lifeline/internal/summary"
	"github.com/shahar-caura/lifeline/internal/triage"
)

// Speak targets.
const (
	SpeakStep    = "step"
	SpeakSummary = "summary"
)

// Exported describes a stored summary file.
type Exported struct {
	Filename string `json:"filename"`
	Location string `json:"location"`
}

// Start classifies description and opens a new incident on the session,
// replacing any incident already in progress. Unknown sessions are created.
// image may be nil.
func (m *Manager) Start(ctx context.Context, id, description string, image []byte) (v View, err error) {
	ctx, span := m.span(ctx, "Start", id)
	defer func() { endSpan(span, err) }()

	hasImage := m.detectImage(ctx, id, image)

	var c triage.Classification
	v, err = m.update(id, true, func(ss *state.SessionState) error {
		ss.Incident = incident.Start(description, hasImage, m.clock.Now())
		c = ss.Incident.Classification
		return nil
	})
	if err != nil {
		return View{}, err
	}

	span.SetAttributes(
		attribute.String("incident.severity", string(c.Severity)),
		attribute.String("incident.type", string(c.Type)),
		attribute.String("incident.rule", string(c.Rule)),
	)
	m.logger.Info("incident started",
		"id", id,
		"severity", c.Severity,
		"type", c.Type,
		"rule", c.Rule,
		"keyword", c.Keyword,
	)

	m.alert(ctx, id, c, description)
	return v, nil
}

// detectImage asks the detector about image. Detector failures count as no image.
func (m *Manager) detectImage(ctx context.Context, id string, image []byte) bool {
	if len(image) == 0 {
		return false
	}
	if m.detector == nil {
		return true
	}
	ok, err := m.detector.HasVisibleInjury(ctx, image)
	if err != nil {
		m.logger.Warn("image detection failed", "id", id, "error", err)
		return false
	}
	return ok
}

func (m *Manager) alert(ctx context.Context, id string, c triage.Classification, description string) {
	if m.notifier == nil || c.Severity.Rank() < m.minAlert.Rank() {
		return
	}
	if err := m.notifier.Notify(ctx, notifier.IncidentAlert(id, c, description)); err != nil {
		m.logger.Warn("incident alert failed", "id", id, "error", err)
	}
}

// withIncident runs fn on the session's incident and saves the session.
func (m *Manager) withIncident(ctx context.Context, op, id string, fn func(*incident.Incident)) (v View, err error) {
	_, span := m.span(ctx, op, id)
	defer func() { endSpan(span, err) }()

	return m.update(id, false, func(ss *state.SessionState) error {
		if ss.Incident == nil {
			return fmt.Errorf("%w: %s", ErrNoIncident, id)
		}
		fn(ss.Incident)
		return nil
	})
}

// Advance completes the current step and moves to the next.
func (m *Manager) Advance(ctx context.Context, id string) (View, error) {
	return m.withIncident(ctx, "Advance", id, func(inc *incident.Incident) { inc.Advance() })
}

// Retreat moves back one step.
func (m *Manager) Retreat(ctx context.Context, id string) (View, error) {
	return m.withIncident(ctx, "Retreat", id, func(inc *incident.Incident) { inc.Retreat() })
}

// ToggleSummary flips the summary view flag.
func (m *Manager) ToggleSummary(ctx context.Context, id string) (View, error) {
	return m.withIncident(ctx, "ToggleSummary", id, func(inc *incident.Incident) { inc.ToggleSummary() })
}

// SetNotes replaces the incident notes.
func (m *Manager) SetNotes(ctx context.Context, id, notes string) (View, error) {
	return m.withIncident(ctx, "SetNotes", id, func(inc *incident.Incident) { inc.SetNotes(notes) })
}

// LogAction records text against a 1-based step number. A step of zero
// means the step under the cursor; other numbers are clamped to the
// incident's steps. Blank text is ignored and leaves the session untouched.
func (m *Manager) LogAction(ctx context.Context, id string, step int, text string) (v View, err error) {
	_, span := m.span(ctx, "LogAction", id)
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(text) == "" {
		err = m.read(id, func(ss *state.SessionState) error {
			if ss.Incident == nil {
				return fmt.Errorf("%w: %s", ErrNoIncident, id)
			}
			v = newView(ss, m.clock.Now())
			return nil
		})
		return v, err
	}

	return m.update(id, false, func(ss *state.SessionState) error {
		inc := ss.Incident
		if inc == nil {
			return fmt.Errorf("%w: %s", ErrNoIncident, id)
		}
		total := inc.TotalSteps()
		if step == 0 {
			step = inc.CurrentStep + 1
		}
		inc.LogAction(min(max(step, 1), total), text)
		return nil
	})
}

// Reset returns the session to idle. A finished or abandoned incident is
// archived when an archive is configured. Resetting an idle session is a no-op.
func (m *Manager) Reset(ctx context.Context, id string) (v View, err error) {
	ctx, span := m.span(ctx, "Reset", id)
	defer func() { endSpan(span, err) }()

	var entry *archive.Entry
	v, err = m.update(id, false, func(ss *state.SessionState) error {
		if ss.Incident == nil {
			return nil
		}
		if m.archive != nil {
			e := archiveEntry(id, ss.Incident, m.clock.Now())
			entry = &e
		}
		ss.Incident = nil
		return nil
	})
	if err != nil {
		return View{}, err
	}

	if entry != nil {
		if err := m.archive.Record(ctx, *entry); err != nil {
			m.logger.Warn("archiving incident failed", "id", id, "error", err)
		} else {
			m.logger.Debug("incident archived", "id", id, "type", entry.Type)
		}
	}
	m.logger.Info("session reset", "id", id)
	return v, nil
}

func archiveEntry(id string, inc *incident.Incident, now time.Time) archive.Entry {
	return archive.Entry{
		SessionID:      id,
		Type:           inc.Classification.Type,
		Severity:       inc.Classification.Severity,
		Rule:           inc.Classification.Rule,
		StartedAt:      inc.StartTime,
		ArchivedAt:     now,
		Elapsed:        max(inc.Elapsed(now), 0),
		StepsCompleted: len(inc.CompletedSteps),
		TotalSteps:     inc.TotalSteps(),
		Actions:        len(inc.Actions),
		Summary:        inc.Summary(now),
	}
}

// Summary renders the incident report.
func (m *Manager) Summary(ctx context.Context, id string) (text string, err error) {
	_, span := m.span(ctx, "Summary", id)
	defer func() { endSpan(span, err) }()

	err = m.read(id, func(ss *state.SessionState) error {
		if ss.Incident == nil {
			return fmt.Errorf("%w: %s", ErrNoIncident, id)
		}
		text = ss.Incident.Summary(m.clock.Now())
		return nil
	})
	return text, err
}

// Export renders the summary and hands it to the export store under a
// timestamped file name.
func (m *Manager) Export(ctx context.Context, id string) (out Exported, err error) {
	ctx, span := m.span(ctx, "Export", id)
	defer func() { endSpan(span, err) }()

	if m.exports == nil {
		return Exported{}, fmt.Errorf("export store: %w", ErrUnavailable)
	}

	var text string
	err = m.read(id, func(ss *state.SessionState) error {
		if ss.Incident == nil {
			return fmt.Errorf("%w: %s", ErrNoIncident, id)
		}
		now := m.clock.Now()
		text = ss.Incident.Summary(now)
		out.Filename = summary.Filename(now)
		return nil
	})
	if err != nil {
		return Exported{}, err
	}

	out.Location, err = m.exports.Put(ctx, id, out.Filename, []byte(text))
	if err != nil {
		return Exported{}, fmt.Errorf("exporting summary: %w", err)
	}
	m.logger.Info("summary exported", "id", id, "location", out.Location)
	return out, nil
}

// Speak reads the current step instruction or the summary aloud.
func (m *Manager) Speak(ctx context.Context, id, target string) (err error) {
	ctx, span := m.span(ctx, "Speak", id)
	defer func() { endSpan(span, err) }()

	if m.speech == nil {
		return fmt.Errorf("speech renderer: %w", ErrUnavailable)
	}

	var text string
	switch target {
	case SpeakStep, "":
		err = m.read(id, func(ss *state.SessionState) error {
			if ss.Incident == nil {
				return fmt.Errorf("%w: %s", ErrNoIncident, id)
			}
			step, ok := ss.Incident.Current()
			if !ok {
				return fmt.Errorf("%w: all steps completed", ErrInvalidArgument)
			}
			text = step.Instruction
			return nil
		})
	case SpeakSummary:
		text, err = m.Summary(ctx, id)
	default:
		return fmt.Errorf("%w: speak target %q", ErrInvalidArgument, target)
	}
	if err != nil {
		return err
	}
	return m.speech.Speak(ctx, text)
}

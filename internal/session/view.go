package session

import (
	"fmt"
	"slices"
	"time"

	"github.com/shahar-caura/lifeline/internal/guidance"
	"github.com/shahar-caura/lifeline/internal/incident"
	"github.com/shahar-caura/lifeline/internal/state"
	"github.com/shahar-caura/lifeline/internal/triage"
)

// View is a read-only presentation snapshot of a session. Everything a
// front end renders comes from here; it holds no references into the
// session's own state.
type View struct {
	ID        string       `json:"id"`
	Status    state.Status `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	Description    string                 `json:"description,omitempty"`
	Classification *triage.Classification `json:"classification,omitempty"`
	Banner         *triage.Banner         `json:"banner,omitempty"`
	// Reminder is the call-for-help line shown with critical incidents.
	Reminder string `json:"reminder,omitempty"`

	Steps          []guidance.Step `json:"steps,omitempty"`
	CurrentIndex   int             `json:"current_index"`
	CurrentStep    *guidance.Step  `json:"current_step,omitempty"`
	StepNumber     int             `json:"step_number"`
	TotalSteps     int             `json:"total_steps"`
	Finished       bool            `json:"finished"`
	CompletedSteps []string        `json:"completed_steps,omitempty"`
	Actions        []string        `json:"actions,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	ViewingSummary bool            `json:"viewing_summary"`

	StartedAt      *time.Time `json:"started_at,omitempty"`
	Elapsed        string     `json:"elapsed,omitempty"`
	ElapsedSeconds int64      `json:"elapsed_seconds"`
	HasImage       bool       `json:"has_image"`
}

// Active reports whether the session has an incident.
func (v View) Active() bool { return v.Status == state.StatusActive }

// Progress renders "Step N of M".
func (v View) Progress() string {
	if !v.Active() {
		return ""
	}
	return fmt.Sprintf("Step %d of %d", v.StepNumber, v.TotalSteps)
}

func newView(ss *state.SessionState, now time.Time) View {
	v := View{
		ID:        ss.ID,
		Status:    ss.Status(),
		CreatedAt: ss.CreatedAt,
		UpdatedAt: ss.UpdatedAt,
	}
	inc := ss.Incident
	if inc == nil {
		return v
	}

	c := inc.Classification
	banner := c.Severity.Banner()
	started := inc.StartTime
	elapsed := max(inc.Elapsed(now), 0)

	v.Description = inc.Description
	v.Classification = &c
	v.Banner = &banner
	if c.Severity == triage.Critical {
		v.Reminder = guidance.CallNow
	}

	v.Steps = inc.Steps()
	v.CurrentIndex = inc.CurrentStep
	v.TotalSteps = len(v.Steps)
	v.StepNumber = min(inc.CurrentStep+1, v.TotalSteps)
	v.Finished = inc.Finished()
	if step, ok := inc.Current(); ok {
		v.CurrentStep = &step
	}
	v.CompletedSteps = slices.Clone(inc.CompletedSteps)
	v.Actions = slices.Clone(inc.Actions)
	v.Notes = inc.Notes
	v.ViewingSummary = inc.ViewingSummary

	v.StartedAt = &started
	v.Elapsed = incident.FormatElapsed(elapsed)
	v.ElapsedSeconds = int64(elapsed / time.Second)
	v.HasImage = inc.HasImage
	return v
}

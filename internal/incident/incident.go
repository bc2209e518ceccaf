// Package incident implements the state machine that drives a single
// emergency response: classification, step progression, completed steps,
// the action log and the elapsed-time timer.
//
// An Incident is not safe for concurrent use; the owning session serializes
// access to it.
package incident

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shahar-caura/lifeline/internal/guidance"
	"github.com/shahar-caura/lifeline/internal/triage"
)

// Incident is the mutable aggregate for one in-progress emergency.
type Incident struct {
	Description    string                `yaml:"description"`
	HasImage       bool                  `yaml:"has_image,omitempty"`
	Classification triage.Classification `yaml:"classification"`
	StartTime      time.Time             `yaml:"start_time"`
	CurrentStep    int                   `yaml:"current_step"`
	CompletedSteps []string              `yaml:"completed_steps,omitempty"`
	Actions        []string              `yaml:"actions,omitempty"`
	Notes          string                `yaml:"notes,omitempty"`
	ViewingSummary bool                  `yaml:"viewing_summary,omitempty"`
}

// Start classifies description and opens a new incident at step 0.
// hasImage is recorded for display only.
func Start(description string, hasImage bool, now time.Time) *Incident {
	return &Incident{
		Description:    description,
		HasImage:       hasImage,
		Classification: triage.Classify(description, hasImage),
		StartTime:      now,
	}
}

// Steps returns the guidance steps for the incident's emergency type.
func (i *Incident) Steps() []guidance.Step {
	return guidance.StepsFor(i.Classification.Type)
}

// TotalSteps returns the number of guidance steps.
func (i *Incident) TotalSteps() int {
	return len(i.Steps())
}

// Current returns the step under the cursor. ok is false once every step has
// been completed.
func (i *Incident) Current() (step guidance.Step, ok bool) {
	steps := i.Steps()
	if i.CurrentStep < 0 || i.CurrentStep >= len(steps) {
		return guidance.Step{}, false
	}
	return steps[i.CurrentStep], true
}

// Finished reports whether the cursor has moved past the last step.
func (i *Incident) Finished() bool {
	return i.CurrentStep >= i.TotalSteps()
}

// Advance marks the current step completed and moves to the next one.
// It is a no-op once all steps are done. Reports whether the cursor moved.
func (i *Incident) Advance() bool {
	step, ok := i.Current()
	if !ok {
		return false
	}
	if !slices.Contains(i.CompletedSteps, step.Title) {
		i.CompletedSteps = append(i.CompletedSteps, step.Title)
	}
	i.CurrentStep++
	return true
}

// Retreat moves back one step. Completed steps are kept.
func (i *Incident) Retreat() bool {
	if i.CurrentStep <= 0 {
		return false
	}
	i.CurrentStep--
	return true
}

// LogAction records a free-text action against a 1-based step number.
// Blank text is ignored.
func (i *Incident) LogAction(stepNumber int, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	i.Actions = append(i.Actions, fmt.Sprintf("Step %d: %s", stepNumber, text))
	return true
}

// ToggleSummary flips the summary view flag.
func (i *Incident) ToggleSummary() {
	i.ViewingSummary = !i.ViewingSummary
}

// SetNotes replaces the free-form notes.
func (i *Incident) SetNotes(text string) {
	i.Notes = text
}

// Elapsed returns the time since the incident started.
func (i *Incident) Elapsed(now time.Time) time.Duration {
	return now.Sub(i.StartTime)
}

// FormatElapsed renders d as zero-padded MM:SS. Minutes are not capped, so
// 75 minutes and 3 seconds is "75:03". Negative durations render as "00:00".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

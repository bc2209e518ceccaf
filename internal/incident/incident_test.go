package incident

import (
	"strings"
	"testing"
	"time"

	"github.com/shahar-caura/lifeline/internal/triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func TestStart(t *testing.T) {
	inc := Start("Person collapsed, not breathing, unresponsive", true, t0)

	assert.Equal(t, triage.Critical, inc.Classification.Severity)
	assert.Equal(t, triage.CardiacArrest, inc.Classification.Type)
	assert.True(t, inc.HasImage)
	assert.Equal(t, t0, inc.StartTime)
	assert.Equal(t, 0, inc.CurrentStep)
	assert.Empty(t, inc.CompletedSteps)
	assert.Empty(t, inc.Actions)
	assert.Empty(t, inc.Notes)
	assert.False(t, inc.ViewingSummary)

	step, ok := inc.Current()
	require.True(t, ok)
	assert.Equal(t, "Check Responsiveness & Call for Help", step.Title)
}

func TestAdvance_ChokingScenario(t *testing.T) {
	inc := Start("Person is choking and cannot breathe", false, t0)
	require.Equal(t, triage.Choking, inc.Classification.Type)
	require.Equal(t, 5, inc.TotalSteps())

	for range 5 {
		assert.True(t, inc.Advance())
	}
	assert.Equal(t, 5, inc.CurrentStep)
	assert.True(t, inc.Finished())
	assert.Equal(t, []string{
		"Assess the Situation",
		"Call for Help",
		"Position for Abdominal Thrusts",
		"Perform Abdominal Thrusts (Heimlich)",
		"If Person Becomes Unconscious",
	}, inc.CompletedSteps)

	// Terminal state: further advances change nothing.
	assert.False(t, inc.Advance())
	assert.Equal(t, 5, inc.CurrentStep)
	assert.Len(t, inc.CompletedSteps, 5)

	_, ok := inc.Current()
	assert.False(t, ok)
}

func TestAdvance_RevisitDoesNotDuplicate(t *testing.T) {
	inc := Start("Heavy bleeding from deep cut on arm", false, t0)

	inc.Advance()
	inc.Advance()
	inc.Retreat()
	inc.Advance()
	inc.Retreat()
	inc.Retreat()
	inc.Advance()

	assert.Equal(t, 1, inc.CurrentStep)
	assert.Equal(t, []string{"Ensure Your Safety First", "Apply Direct Pressure"}, inc.CompletedSteps)
}

func TestRetreat_NoOpAtZero(t *testing.T) {
	inc := Start("small burn on finger", false, t0)
	assert.False(t, inc.Retreat())
	assert.Equal(t, 0, inc.CurrentStep)

	inc.Advance()
	assert.True(t, inc.Retreat())
	assert.Equal(t, 0, inc.CurrentStep)
	assert.Len(t, inc.CompletedSteps, 1, "retreat keeps completion history")
}

func TestLogAction(t *testing.T) {
	inc := Start("small burn on finger", false, t0)

	assert.False(t, inc.LogAction(1, ""))
	assert.False(t, inc.LogAction(1, "   "))
	assert.False(t, inc.LogAction(1, "\t\n"))
	assert.Empty(t, inc.Actions)

	assert.True(t, inc.LogAction(1, "Moved away from stove"))
	assert.True(t, inc.LogAction(2, "Ran cool water for 10 minutes"))
	assert.Equal(t, []string{
		"Step 1: Moved away from stove",
		"Step 2: Ran cool water for 10 minutes",
	}, inc.Actions)
}

func TestToggleSummaryAndNotes(t *testing.T) {
	inc := Start("small burn on finger", false, t0)
	inc.Advance()

	inc.ToggleSummary()
	assert.True(t, inc.ViewingSummary)
	assert.Equal(t, 1, inc.CurrentStep, "toggle leaves the cursor alone")
	assert.Equal(t, t0, inc.StartTime, "toggle leaves the timer alone")
	inc.ToggleSummary()
	assert.False(t, inc.ViewingSummary)

	inc.SetNotes("allergic to penicillin")
	assert.Equal(t, "allergic to penicillin", inc.Notes)
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{61 * time.Second, "01:01"},
		{75*time.Minute + 3*time.Second, "75:03"},
		{100*time.Minute + 999*time.Millisecond, "100:00"},
		{-5 * time.Second, "00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatElapsed(tt.d), "duration %s", tt.d)
	}
}

func TestElapsed(t *testing.T) {
	inc := Start("small burn on finger", false, t0)
	assert.Equal(t, 2*time.Minute, inc.Elapsed(t0.Add(2*time.Minute)))
}

func TestSnapshotAndSummary(t *testing.T) {
	inc := Start("Person is choking and cannot breathe", false, t0)
	inc.Advance()
	inc.LogAction(1, "Asked if they were choking")
	inc.SetNotes("conscious on arrival")

	now := t0.Add(3*time.Minute + 7*time.Second)
	snap := inc.Snapshot(now)
	assert.Equal(t, "03:07", snap.Elapsed)
	assert.Equal(t, now, snap.Timestamp)
	assert.Equal(t, []string{"Assess the Situation"}, snap.CompletedSteps)

	// The snapshot is detached from later mutations.
	inc.LogAction(2, "Called 911")
	assert.Len(t, snap.Actions, 1)

	out := inc.Summary(now)
	assert.True(t, strings.Contains(out, "Emergency Type:     Choking"))
	assert.True(t, strings.Contains(out, "Severity Level:     URGENT"))
	assert.True(t, strings.Contains(out, "✓ Assess the Situation"))
	assert.True(t, strings.Contains(out, "conscious on arrival"))
}

func TestRestartHasNoLeakage(t *testing.T) {
	first := Start("Person is choking and cannot breathe", false, t0)
	first.Advance()
	first.LogAction(1, "thrusts")
	first.SetNotes("notes")
	first.ToggleSummary()

	// A fresh Start is independent of any earlier incident.
	again := Start("Person is choking and cannot breathe", false, t0)
	fresh := Start("Person is choking and cannot breathe", false, t0)
	assert.Equal(t, fresh, again)
}

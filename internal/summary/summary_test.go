package summary

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shahar-caura/lifeline/internal/triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "rewrite golden files")

func golden(t *testing.T, name, got string) {
	t.Helper()
	path := filepath.Join("testdata", name+".golden")
	if *update {
		require.NoError(t, os.WriteFile(path, []byte(got), 0o644))
	}
	want, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(want), got)
}

func TestGenerate_Full(t *testing.T) {
	s := Snapshot{
		Type:        triage.Choking,
		Severity:    triage.Critical,
		Elapsed:     "75:03",
		Timestamp:   time.Date(2025, 3, 14, 10, 15, 3, 0, time.UTC),
		Description: "Person is choking and cannot breathe",
		Actions: []string{
			"Step 1: Asked if they were choking",
			"Step 4: Gave 5 abdominal thrusts",
		},
		CompletedSteps: []string{"Assess the Situation", "Call for Help"},
		Notes:          "Patient is a 40 year old male.",
	}
	golden(t, "full", Generate(s))
}

func TestGenerate_Placeholders(t *testing.T) {
	s := Snapshot{
		Type:      triage.GeneralEmergency,
		Severity:  triage.Urgent,
		Elapsed:   "00:00",
		Timestamp: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		Notes:     "   ",
	}
	golden(t, "empty", Generate(s))
}

func TestGenerate_Deterministic(t *testing.T) {
	s := Snapshot{
		Type:           triage.Burns,
		Severity:       triage.Monitor,
		Elapsed:        "01:30",
		Timestamp:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Description:    "small burn on finger",
		CompletedSteps: []string{"Stop the Burning Process"},
	}
	first := Generate(s)
	for range 10 {
		assert.Equal(t, first, Generate(s))
	}
}

func TestGenerate_SectionOrder(t *testing.T) {
	out := Generate(Snapshot{Type: triage.Stroke, Severity: triage.Critical, Notes: "n"})
	headers := []string{
		"EMERGENCY INCIDENT SUMMARY",
		"INCIDENT DETAILS:",
		"SITUATION DESCRIPTION:",
		"ACTIONS TAKEN:",
		"COMPLETED STEPS:",
		"ADDITIONAL NOTES:",
		"NEXT STEPS:",
	}
	last := -1
	for _, h := range headers {
		idx := strings.Index(out, h)
		require.GreaterOrEqual(t, idx, 0, "missing header %q", h)
		assert.Greater(t, idx, last, "header %q out of order", h)
		last = idx
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "emergency_summary_20250314_090507.txt", Filename(ts))
}

package incident

import (
	"slices"
	"time"

	"github.com/shahar-caura/lifeline/internal/summary"
)

// Snapshot freezes the incident at now for report generation.
func (i *Incident) Snapshot(now time.Time) summary.Snapshot {
	return summary.Snapshot{
		Type:           i.Classification.Type,
		Severity:       i.Classification.Severity,
		Elapsed:        FormatElapsed(i.Elapsed(now)),
		Timestamp:      now,
		Description:    i.Description,
		Actions:        slices.Clone(i.Actions),
		CompletedSteps: slices.Clone(i.CompletedSteps),
		Notes:          i.Notes,
	}
}

// Summary renders the incident report at now.
func (i *Incident) Summary(now time.Time) string {
	return summary.Generate(i.Snapshot(now))
}

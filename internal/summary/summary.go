// Package summary renders the plain-text incident report handed to
// responders. The layout is fixed; exported files and speech output depend on
// its section headers staying byte-for-byte stable.
package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/shahar-caura/lifeline/internal/triage"
)

// TimestampLayout formats the generation timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	boxTop    = "╔═══════════════════════════════════════════════════════════╗"
	boxBottom = "╚═══════════════════════════════════════════════════════════╝"
	rule      = "─────────────────────────────────────────────────────────────"

	noDescription = "No description provided"
	noActions     = "No actions recorded yet"
	noSteps       = "No steps completed yet"
)

// Snapshot is a frozen view of an incident.
type Snapshot struct {
	Type           triage.EmergencyType
	Severity       triage.Severity
	Elapsed        string
	Timestamp      time.Time
	Description    string
	Actions        []string
	CompletedSteps []string
	Notes          string
}

// Generate renders s. The output depends only on s.
func Generate(s Snapshot) string {
	var b strings.Builder

	b.WriteString(boxTop + "\n")
	b.WriteString("                    EMERGENCY INCIDENT SUMMARY\n")
	b.WriteString(boxBottom + "\n\n")

	section(&b, "INCIDENT DETAILS")
	fmt.Fprintf(&b, "Emergency Type:     %s\n", s.Type.Display())
	fmt.Fprintf(&b, "Severity Level:     %s\n", s.Severity.Display())
	fmt.Fprintf(&b, "Time Elapsed:       %s\n", s.Elapsed)
	fmt.Fprintf(&b, "Timestamp:          %s\n\n", s.Timestamp.Format(TimestampLayout))

	section(&b, "SITUATION DESCRIPTION")
	desc := strings.TrimSpace(s.Description)
	if desc == "" {
		desc = noDescription
	}
	b.WriteString(desc + "\n\n")

	section(&b, "ACTIONS TAKEN")
	if len(s.Actions) == 0 {
		b.WriteString(noActions + "\n")
	}
	for i, a := range s.Actions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a)
	}
	b.WriteString("\n")

	section(&b, "COMPLETED STEPS")
	if len(s.CompletedSteps) == 0 {
		b.WriteString(noSteps + "\n")
	}
	for _, title := range s.CompletedSteps {
		fmt.Fprintf(&b, "✓ %s\n", title)
	}
	b.WriteString("\n")

	if notes := strings.TrimSpace(s.Notes); notes != "" {
		section(&b, "ADDITIONAL NOTES")
		b.WriteString(notes + "\n\n")
	}

	b.WriteString(rule + "\n")
	b.WriteString("NEXT STEPS:\n")
	b.WriteString("• Continue following guidance steps\n")
	b.WriteString("• Provide this summary to paramedics when they arrive\n")
	b.WriteString("• Do not leave person unattended\n")
	b.WriteString("• Continue monitoring condition\n\n")
	b.WriteString("⚠️ This summary is for emergency responders only\n")
	b.WriteString("⚠️ This is not a medical diagnosis\n")
	b.WriteString(boxBottom + "\n")

	return b.String()
}

func section(b *strings.Builder, title string) {
	b.WriteString(title + ":\n")
	b.WriteString(rule + "\n")
}

// Filename returns the export filename for a summary generated at t,
// e.g. emergency_summary_20250101_093000.txt.
func Filename(t time.Time) string {
	return "emergency_summary_" + t.Format("20060102_150405") + ".txt"
}

package notifier

import (
	"fmt"
	"strings"

	"github.com/shahar-caura/lifeline/internal/triage"
)

// maxAlertDescription caps how much of the description goes into an alert.
const maxAlertDescription = 200

// IncidentAlert formats the operator message sent when an incident starts.
func IncidentAlert(sessionID string, c triage.Classification, description string) string {
	desc := strings.TrimSpace(description)
	if r := []rune(desc); len(r) > maxAlertDescription {
		desc = string(r[:maxAlertDescription]) + "..."
	}
	if desc == "" {
		desc = "(no description)"
	}
	return fmt.Sprintf("%s: %s in session %s\n> %s\n%s",
		c.Severity.Banner().Title, c.Type.Display(), sessionID, desc, c.Reasoning)
}

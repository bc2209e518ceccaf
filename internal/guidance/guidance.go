// Package guidance holds the static first-aid step catalog keyed by emergency
// type. The catalog is built once and never mutated; lookups return copies.
package guidance

import (
	"github.com/shahar-caura/lifeline/internal/triage"
)

// Step is one instruction unit in a type's response sequence.
type Step struct {
	Title       string   `json:"title" yaml:"title"`
	Instruction string   `json:"instruction" yaml:"instruction"`
	Details     []string `json:"details" yaml:"details"`
	Warning     string   `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// HasWarning reports whether the step carries a safety warning.
func (s Step) HasWarning() bool { return s.Warning != "" }

// StepsFor returns the ordered steps for t. Types without a dedicated list
// get the general emergency steps. The returned slice is a deep copy.
func StepsFor(t triage.EmergencyType) []Step {
	steps, ok := Lookup(t)
	if !ok {
		steps, _ = Lookup(triage.GeneralEmergency)
	}
	return steps
}

// Lookup returns a copy of the dedicated list for t and whether one exists.
func Lookup(t triage.EmergencyType) ([]Step, bool) {
	for _, e := range catalog {
		if e.Type == t {
			return clone(e.Steps), true
		}
	}
	return nil, false
}

// Types lists the emergency types with a dedicated list, in catalog order.
func Types() []triage.EmergencyType {
	out := make([]triage.EmergencyType, len(catalog))
	for i, e := range catalog {
		out[i] = e.Type
	}
	return out
}

func clone(steps []Step) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		s.Details = append([]string(nil), s.Details...)
		out[i] = s
	}
	return out
}

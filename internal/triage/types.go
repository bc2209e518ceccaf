package triage

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Severity is the urgency tier assigned to an incident.
type Severity string

const (
	Critical Severity = "critical"
	Urgent   Severity = "urgent"
	Monitor  Severity = "monitor"
)

// Rank orders severities for display only; higher is more urgent.
func (s Severity) Rank() int {
	switch s {
	case Critical:
		return 3
	case Urgent:
		return 2
	case Monitor:
		return 1
	default:
		return 0
	}
}

// Display returns the upper-cased severity label.
func (s Severity) Display() string {
	if s == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(string(s))
}

// Banner is the alert headline shown for a severity.
type Banner struct {
	Title   string `json:"title" yaml:"title"`
	Message string `json:"message" yaml:"message"`
}

// Banner returns the alert headline for s. Unknown severities get the urgent banner.
func (s Severity) Banner() Banner {
	switch s {
	case Critical:
		return Banner{Title: "CRITICAL EMERGENCY", Message: "Immediate action required. Life-threatening situation."}
	case Monitor:
		return Banner{Title: "MONITOR SITUATION", Message: "Assess and monitor. Seek medical advice if worsens."}
	default:
		return Banner{Title: "URGENT SITUATION", Message: "Prompt medical attention needed."}
	}
}

// EmergencyType is the category of incident that selects the guidance steps.
type EmergencyType string

const (
	CardiacArrest       EmergencyType = "cardiac_arrest"
	SevereBleeding      EmergencyType = "severe_bleeding"
	Choking             EmergencyType = "choking"
	Burns               EmergencyType = "burns"
	Fracture            EmergencyType = "fracture"
	HeadInjury          EmergencyType = "head_injury"
	BreathingDifficulty EmergencyType = "breathing_difficulty"
	AllergicReaction    EmergencyType = "allergic_reaction"
	Stroke              EmergencyType = "stroke"
	Poisoning           EmergencyType = "poisoning"
	GeneralEmergency    EmergencyType = "general_emergency"
)

// Types lists every emergency type in detection order, followed by the fallback.
func Types() []EmergencyType {
	out := make([]EmergencyType, 0, len(typeKeywords)+1)
	for _, tk := range typeKeywords {
		out = append(out, tk.Type)
	}
	return append(out, GeneralEmergency)
}

// ParseType resolves a type name, accepting spaces or hyphens for underscores.
func ParseType(name string) (EmergencyType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	for _, t := range Types() {
		if string(t) == normalized {
			return t, true
		}
	}
	return "", false
}

// Display returns the type with underscores replaced and each word title-cased,
// e.g. "Cardiac Arrest".
func (t EmergencyType) Display() string {
	if t == "" {
		return "Unknown"
	}
	// Casers carry state and must not be shared between goroutines.
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "_", " "))
}

// Rule names the classifier rule that produced a classification.
type Rule string

const (
	RuleCritical        Rule = "critical-keyword"
	RuleUrgent          Rule = "urgent-keyword"
	RuleMonitor         Rule = "monitor-keyword"
	RuleFailSafeEmpty   Rule = "fail-safe-empty"
	RuleFailSafeDefault Rule = "fail-safe-default"
)

// Classification is the result of classifying a description.
type Classification struct {
	Severity  Severity      `json:"severity" yaml:"severity"`
	Type      EmergencyType `json:"type" yaml:"type"`
	Rule      Rule          `json:"rule" yaml:"rule"`
	Keyword   string        `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Reasoning string        `json:"reasoning" yaml:"reasoning"`
}

// FailSafe reports whether a fail-safe default produced the classification.
func (c Classification) FailSafe() bool {
	return c.Rule == RuleFailSafeEmpty || c.Rule == RuleFailSafeDefault
}

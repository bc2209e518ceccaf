// Package triage classifies free-text incident descriptions into a severity
// tier and an emergency type using ordered keyword tables.
//
// Matching is first-declared-wins: tiers are scanned critical, urgent, monitor
// and keywords within a tier in declaration order. The position of a match in
// the text never matters. Anything unclear resolves to urgent.
package triage

import (
	"strings"
	"unicode/utf8"
)

// MinDescriptionLength is the shortest trimmed description (in runes) that is
// scanned for keywords. Shorter input takes the fail-safe-empty path.
const MinDescriptionLength = 5

const (
	reasonUnclear  = "Unclear situation - recommending urgent assessment"
	reasonCritical = "Critical keywords detected: life-threatening indicators present"
	reasonUrgent   = "Urgent keywords detected: prompt medical attention needed"
	reasonMonitor  = "Monitoring keywords detected: assess and watch situation"
	reasonDefault  = "Unable to determine clear severity - defaulting to urgent for safety"
)

type tier struct {
	Severity Severity
	Rule     Rule
	Reason   string
	Keywords []string
}

var tiers = []tier{
	{
		Severity: Critical,
		Rule:     RuleCritical,
		Reason:   reasonCritical,
		Keywords: []string{
			"not breathing", "unconscious", "collapsed", "unresponsive",
			"severe bleeding", "chest pain", "heart attack", "stroke",
			"seizure", "heavy bleeding", "can't breathe", "choking badly",
		},
	},
	{
		Severity: Urgent,
		Rule:     RuleUrgent,
		Reason:   reasonUrgent,
		Keywords: []string{
			"bleeding", "burned", "serious burn", "broken bone", "fracture",
			"choking", "difficulty breathing", "severe pain", "head injury",
			"allergic reaction", "high fever", "vomiting blood", "swallowed",
			"overdose",
		},
	},
	{
		Severity: Monitor,
		Rule:     RuleMonitor,
		Reason:   reasonMonitor,
		Keywords: []string{
			"minor cut", "small burn", "sprain", "bruise", "headache",
			"nausea", "dizziness", "minor pain", "small wound",
		},
	},
}

type typeKeyword struct {
	Type     EmergencyType
	Keywords []string
}

var typeKeywords = []typeKeyword{
	{CardiacArrest, []string{"not breathing", "unconscious", "no pulse", "collapsed", "unresponsive", "heart stopped"}},
	{SevereBleeding, []string{"severe bleeding", "heavy bleeding", "blood gushing", "arterial bleeding", "profuse bleeding"}},
	{Choking, []string{"choking", "can't breathe", "something stuck", "airway blocked"}},
	{Burns, []string{"burn", "burned", "scalded", "fire", "hot liquid"}},
	{Fracture, []string{"broken bone", "fracture", "bone broke", "deformed limb"}},
	{HeadInjury, []string{"head injury", "hit head", "head trauma", "fell on head"}},
	{BreathingDifficulty, []string{"difficulty breathing", "hard to breathe", "gasping", "wheezing"}},
	{AllergicReaction, []string{"allergic reaction", "swelling", "hives", "anaphylaxis"}},
	{Stroke, []string{"stroke", "face drooping", "arm weakness", "speech difficulty"}},
	{Poisoning, []string{"poisoning", "swallowed", "overdose", "toxic"}},
}

// Classify assigns a severity and emergency type to description.
//
// hasImage is accepted so callers can pass the presence hint through a single
// call site, but it never affects the result.
func Classify(description string, hasImage bool) Classification {
	text := strings.ToLower(description)
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinDescriptionLength {
		return Classification{
			Severity:  Urgent,
			Type:      GeneralEmergency,
			Rule:      RuleFailSafeEmpty,
			Reasoning: reasonUnclear,
		}
	}

	typ := DetectType(text)
	for _, t := range tiers {
		if kw, ok := firstMatch(text, t.Keywords); ok {
			return Classification{
				Severity:  t.Severity,
				Type:      typ,
				Rule:      t.Rule,
				Keyword:   kw,
				Reasoning: t.Reason,
			}
		}
	}

	return Classification{
		Severity:  Urgent,
		Type:      typ,
		Rule:      RuleFailSafeDefault,
		Reasoning: reasonDefault,
	}
}

// DetectType returns the first emergency type whose keywords occur in
// description, or GeneralEmergency.
func DetectType(description string) EmergencyType {
	text := strings.ToLower(description)
	for _, tk := range typeKeywords {
		if _, ok := firstMatch(text, tk.Keywords); ok {
			return tk.Type
		}
	}
	return GeneralEmergency
}

func firstMatch(text string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}

// Keywords returns a copy of the keyword list for a severity tier.
func Keywords(s Severity) []string {
	for _, t := range tiers {
		if t.Severity == s {
			return append([]string(nil), t.Keywords...)
		}
	}
	return nil
}

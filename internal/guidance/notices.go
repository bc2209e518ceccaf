package guidance

import (
	"sort"
	"strings"
)

// Disclaimer is shown before guidance starts and served by the API.
const Disclaimer = `IMPORTANT DISCLAIMER
This is DECISION SUPPORT, NOT MEDICAL DIAGNOSIS

- This tool provides emergency guidance based on symptoms described
- It is NOT a substitute for professional medical care
- ALWAYS call emergency services (911) for serious emergencies
- Follow instructions from emergency dispatchers and paramedics
- This tool cannot diagnose conditions or prescribe treatments

When in doubt, always call 911`

// CallNow is the reminder shown alongside critical incidents.
const CallNow = "CALL 911 IMMEDIATELY - Put phone on speaker and follow these steps while help is on the way"

// presets maps quick-start scenario names to canned descriptions.
var presets = map[string]string{
	"cardiac-arrest":  "Person collapsed, not breathing, unresponsive",
	"severe-bleeding": "Heavy bleeding from deep cut on arm",
	"choking":         "Person is choking and cannot breathe",
	"burns":           "Person burned by hot liquid, severe pain",
}

// Preset returns the canned description for a quick-start scenario. Names
// accept spaces or underscores in place of hyphens.
func Preset(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)
	desc, ok := presets[key]
	return desc, ok
}

// PresetNames lists the quick-start scenarios in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

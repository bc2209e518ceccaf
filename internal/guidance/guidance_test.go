package guidance

import (
	"testing"

	"github.com/shahar-caura/lifeline/internal/triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepsFor_TotalCoverage(t *testing.T) {
	for _, typ := range triage.Types() {
		steps := StepsFor(typ)
		require.NotEmpty(t, steps, "type %s", typ)
		assert.GreaterOrEqual(t, len(steps), 3, "type %s", typ)
		assert.LessOrEqual(t, len(steps), 5, "type %s", typ)

		seen := make(map[string]bool)
		for _, s := range steps {
			assert.NotEmpty(t, s.Title)
			assert.NotEmpty(t, s.Instruction)
			assert.NotEmpty(t, s.Details)
			assert.False(t, seen[s.Title], "duplicate title %q in %s", s.Title, typ)
			seen[s.Title] = true
		}
	}
}

func TestStepsFor_DedicatedListPerType(t *testing.T) {
	assert.Len(t, Types(), 11)
	for _, typ := range triage.Types() {
		_, ok := Lookup(typ)
		assert.True(t, ok, "type %s has no dedicated list", typ)
	}
}

func TestStepsFor_UnknownFallsBackToGeneral(t *testing.T) {
	general := StepsFor(triage.GeneralEmergency)
	assert.Equal(t, general, StepsFor("alien_abduction"))
	assert.Equal(t, general, StepsFor(""))

	_, ok := Lookup("alien_abduction")
	assert.False(t, ok)
}

func TestStepsFor_Choking(t *testing.T) {
	steps := StepsFor(triage.Choking)
	require.Len(t, steps, 5)

	titles := make([]string, len(steps))
	for i, s := range steps {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{
		"Assess the Situation",
		"Call for Help",
		"Position for Abdominal Thrusts",
		"Perform Abdominal Thrusts (Heimlich)",
		"If Person Becomes Unconscious",
	}, titles)
}

func TestStepsFor_OptionalWarning(t *testing.T) {
	steps := StepsFor(triage.CardiacArrest)
	require.Len(t, steps, 5)
	assert.False(t, steps[1].HasWarning())
	assert.True(t, steps[0].HasWarning())
}

func TestStepsFor_ReturnsCopy(t *testing.T) {
	steps := StepsFor(triage.Burns)
	steps[0].Title = "changed"
	steps[0].Details[0] = "changed"

	fresh := StepsFor(triage.Burns)
	assert.Equal(t, "Stop the Burning Process", fresh[0].Title)
	assert.Equal(t, "Stop, drop, and roll if clothing is on fire", fresh[0].Details[0])
}

func TestPreset(t *testing.T) {
	desc, ok := Preset("Cardiac Arrest")
	require.True(t, ok)
	assert.Equal(t, "Person collapsed, not breathing, unresponsive", desc)

	desc, ok = Preset("severe_bleeding")
	require.True(t, ok)
	assert.Equal(t, triage.SevereBleeding, triage.Classify(desc, false).Type)

	_, ok = Preset("nope")
	assert.False(t, ok)

	assert.Equal(t, []string{"burns", "cardiac-arrest", "choking", "severe-bleeding"}, PresetNames())
}

func TestPresets_ClassifyToTheirType(t *testing.T) {
	want := map[string]triage.EmergencyType{
		"cardiac-arrest":  triage.CardiacArrest,
		"severe-bleeding": triage.SevereBleeding,
		"choking":         triage.Choking,
		"burns":           triage.Burns,
	}
	for name, typ := range want {
		desc, ok := Preset(name)
		require.True(t, ok)
		assert.Equal(t, typ, triage.Classify(desc, false).Type, "preset %s", name)
	}
}

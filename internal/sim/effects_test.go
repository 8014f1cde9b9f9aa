package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeEffectsMultiplies(t *testing.T) {
	a := map[string]float64{effectDegradationRate: 1.2}
	b := map[string]float64{effectDegradationRate: 0.9}

	got := ComposeEffects(a, b)
	assert.InDelta(t, 1.08, got.DegradationRate, 1e-9)

	// Order must not matter.
	reversed := ComposeEffects(b, a)
	assert.Equal(t, got, reversed)
}

func TestComposeEffectsAbsentFieldsStayNeutral(t *testing.T) {
	got := ComposeEffects(map[string]float64{effectHackReward: 1.5})

	assert.InDelta(t, 1.5, got.HackReward, 1e-9)
	assert.Equal(t, 1.0, got.EnergyCost)
	assert.Equal(t, 1.0, got.DegradationRate)
	assert.Equal(t, 1.0, got.RepairCost)
	assert.Equal(t, 1.0, got.PassiveIncome)
	assert.Equal(t, 1.0, got.DetectionChance)
	assert.Equal(t, 1.0, got.XPGain)
	assert.Equal(t, 1.0, got.HeatDecay)
}

func TestComposeEffectsIgnoresUnknownKeys(t *testing.T) {
	got := ComposeEffects(map[string]float64{"warp_speed": 9.0})
	assert.Equal(t, NeutralEffects(), got)
}

func TestComposeEffectsEmptyIsNeutral(t *testing.T) {
	assert.Equal(t, NeutralEffects(), ComposeEffects())
}

func TestGlitchCatalogKeysAreKnown(t *testing.T) {
	known := map[string]bool{
		effectEnergyCost:      true,
		effectHackReward:      true,
		effectDegradationRate: true,
		effectRepairCost:      true,
		effectPassiveIncome:   true,
		effectDetectionChance: true,
		effectXPGain:          true,
		effectHeatDecay:       true,
	}
	seen := map[string]bool{}
	for _, spec := range glitchCatalog {
		require.NotEmpty(t, spec.ID)
		require.False(t, seen[spec.ID], "duplicate glitch id %s", spec.ID)
		seen[spec.ID] = true
		for key, factor := range spec.Effects {
			require.True(t, known[key], "glitch %s has unknown effect key %s", spec.ID, key)
			require.Greater(t, factor, 0.0)
		}
	}
}

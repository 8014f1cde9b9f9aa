package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// glitchSpec is one entry of the daily rotation catalog.
type glitchSpec struct {
	ID      string
	Name    string
	Effects map[string]float64
}

var glitchCatalog = []glitchSpec{
	{
		ID:   "solar_flare",
		Name: "Solar Flare",
		Effects: map[string]float64{
			effectDegradationRate: 1.25,
			effectEnergyCost:      1.15,
		},
	},
	{
		ID:   "black_ice_storm",
		Name: "Black ICE Storm",
		Effects: map[string]float64{
			effectDetectionChance: 1.30,
			effectHackReward:      1.20,
		},
	},
	{
		ID:   "darknet_surge",
		Name: "Darknet Surge",
		Effects: map[string]float64{
			effectHackReward:    1.35,
			effectPassiveIncome: 1.10,
		},
	},
	{
		ID:   "patch_tuesday",
		Name: "Patch Tuesday",
		Effects: map[string]float64{
			effectRepairCost:      0.75,
			effectDegradationRate: 0.90,
		},
	},
	{
		ID:   "signal_fog",
		Name: "Signal Fog",
		Effects: map[string]float64{
			effectDetectionChance: 0.80,
			effectXPGain:          1.15,
		},
	},
	{
		ID:   "grid_brownout",
		Name: "Grid Brownout",
		Effects: map[string]float64{
			effectEnergyCost: 1.40,
			effectHeatDecay:  1.20,
		},
	},
	{
		ID:   "zero_day_rain",
		Name: "Zero-Day Rain",
		Effects: map[string]float64{
			effectHackReward:      1.50,
			effectDetectionChance: 1.25,
			effectDegradationRate: 1.10,
		},
	},
}

// TodayGlitch returns the glitch for the current UTC date, creating it on
// first observation. The insert is keyed on the date, so a concurrent
// creator degrades to a no-op and both callers read the same row.
func (s *Service) TodayGlitch(ctx context.Context) (DailyGlitch, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	glitch, err := s.glitchForDate(ctx, today)
	if err == nil {
		return glitch, nil
	}
	if err != pgx.ErrNoRows {
		return DailyGlitch{}, err
	}

	spec := glitchCatalog[s.nextIntn(len(glitchCatalog))]
	raw, err := json.Marshal(spec.Effects)
	if err != nil {
		return DailyGlitch{}, fmt.Errorf("marshal glitch effects: %w", err)
	}
	if _, err := s.db.Exec(ctx, `
		INSERT INTO daily_glitches (glitch_date, glitch_id, glitch_name, effects)
		VALUES ($1, $2, $3, $4::jsonb)
		ON CONFLICT (glitch_date) DO NOTHING
	`, today, spec.ID, spec.Name, string(raw)); err != nil {
		return DailyGlitch{}, err
	}
	return s.glitchForDate(ctx, today)
}

func (s *Service) glitchForDate(ctx context.Context, date time.Time) (DailyGlitch, error) {
	var out DailyGlitch
	var raw []byte
	err := s.db.QueryRow(ctx, `
		SELECT id, glitch_date, glitch_id, glitch_name, effects
		FROM daily_glitches
		WHERE glitch_date = $1
	`, date).Scan(&out.ID, &out.Date, &out.GlitchID, &out.Name, &raw)
	if err != nil {
		return DailyGlitch{}, err
	}
	if err := json.Unmarshal(raw, &out.Effects); err != nil {
		return DailyGlitch{}, fmt.Errorf("decode glitch effects: %w", err)
	}
	return out, nil
}

// ActiveEffects composes today's glitch with the active season's meta-module
// overlays into one multiplier vector. Recomputed on every call.
func (s *Service) ActiveEffects(ctx context.Context) (Effects, error) {
	sets := make([]map[string]float64, 0, 4)

	glitch, err := s.TodayGlitch(ctx)
	if err != nil {
		return NeutralEffects(), err
	}
	sets = append(sets, glitch.Effects)

	season, err := s.CurrentSeason(ctx)
	if err != nil && err != ErrNoActiveSeason {
		return NeutralEffects(), err
	}
	if err == nil {
		for _, mod := range season.MetaModules {
			sets = append(sets, mod.Effects)
		}
	}
	return ComposeEffects(sets...), nil
}

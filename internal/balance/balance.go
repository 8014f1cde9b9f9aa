package balance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Balance holds the simulation tuning numbers. Jobs apply these verbatim;
// modifiers scale them at the use site.
type Balance struct {
	// Subsystem health
	DegradationPerHour int `yaml:"degradation_per_hour"`
	CascadeThreshold   int `yaml:"cascade_threshold"`
	CascadeDamage      int `yaml:"cascade_damage"`
	DeathThreshold     int `yaml:"death_threshold"`

	// Heat
	HeatDecayPerHour int `yaml:"heat_decay_per_hour"`

	// Seasons
	SeasonLengthDays int `yaml:"season_length_days"`

	// World fabric
	RippleWindowHours   int `yaml:"ripple_window_hours"`
	RippleHeatAverage   int `yaml:"ripple_heat_average"`
	RippleDeaths24h     int `yaml:"ripple_deaths_24h"`
	RippleCorruptedRigs int `yaml:"ripple_corrupted_rigs"`
	TopologyNodes       int `yaml:"topology_nodes"`
	TopologyExtraLinks  int `yaml:"topology_extra_links"`
}

func Default() Balance {
	return Balance{
		DegradationPerHour:  2,
		CascadeThreshold:    25,
		CascadeDamage:       5,
		DeathThreshold:      3,
		HeatDecayPerHour:    5,
		SeasonLengthDays:    90,
		RippleWindowHours:   48,
		RippleHeatAverage:   60,
		RippleDeaths24h:     5,
		RippleCorruptedRigs: 25,
		TopologyNodes:       48,
		TopologyExtraLinks:  16,
	}
}

// Load reads overrides from a YAML file on top of the defaults. A missing
// path is not an error; an unreadable or malformed file is.
func Load(path string) (Balance, error) {
	bal := Default()
	if path == "" {
		return bal, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return bal, nil
		}
		return bal, fmt.Errorf("read balance file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &bal); err != nil {
		return bal, fmt.Errorf("parse balance file: %w", err)
	}
	if err := bal.validate(); err != nil {
		return bal, err
	}
	return bal, nil
}

func (b Balance) validate() error {
	if b.DegradationPerHour < 0 {
		return fmt.Errorf("degradation_per_hour must be >= 0")
	}
	if b.CascadeThreshold < 0 || b.CascadeThreshold > 100 {
		return fmt.Errorf("cascade_threshold must be in 0..100")
	}
	if b.DeathThreshold < 1 {
		return fmt.Errorf("death_threshold must be >= 1")
	}
	if b.SeasonLengthDays < 1 {
		return fmt.Errorf("season_length_days must be >= 1")
	}
	if b.TopologyNodes < 1 {
		return fmt.Errorf("topology_nodes must be >= 1")
	}
	if b.TopologyExtraLinks < 0 {
		return fmt.Errorf("topology_extra_links must be >= 0")
	}
	return nil
}

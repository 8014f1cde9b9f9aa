package sim

// Effects is the combined multiplier vector for all currently-active
// modifiers. Every field defaults to 1.0; consumers scale their base values
// with ApplyFactor.
type Effects struct {
	EnergyCost      float64 `json:"energy_cost"`
	HackReward      float64 `json:"hack_reward"`
	DegradationRate float64 `json:"degradation_rate"`
	RepairCost      float64 `json:"repair_cost"`
	PassiveIncome   float64 `json:"passive_income"`
	DetectionChance float64 `json:"detection_chance"`
	XPGain          float64 `json:"xp_gain"`
	HeatDecay       float64 `json:"heat_decay"`
}

func NeutralEffects() Effects {
	return Effects{
		EnergyCost:      1.0,
		HackReward:      1.0,
		DegradationRate: 1.0,
		RepairCost:      1.0,
		PassiveIncome:   1.0,
		DetectionChance: 1.0,
		XPGain:          1.0,
		HeatDecay:       1.0,
	}
}

// Effect field keys as they appear in persisted modifier payloads. A key
// absent from a payload leaves that field at its current value.
const (
	effectEnergyCost      = "energy_cost"
	effectHackReward      = "hack_reward"
	effectDegradationRate = "degradation_rate"
	effectRepairCost      = "repair_cost"
	effectPassiveIncome   = "passive_income"
	effectDetectionChance = "detection_chance"
	effectXPGain          = "xp_gain"
	effectHeatDecay       = "heat_decay"
)

// ComposeEffects multiplies the per-field factors of every active modifier
// together. Multiplication is commutative, so the result is independent of
// the order the modifiers are listed in.
func ComposeEffects(sets ...map[string]float64) Effects {
	out := NeutralEffects()
	for _, set := range sets {
		for key, factor := range set {
			switch key {
			case effectEnergyCost:
				out.EnergyCost *= factor
			case effectHackReward:
				out.HackReward *= factor
			case effectDegradationRate:
				out.DegradationRate *= factor
			case effectRepairCost:
				out.RepairCost *= factor
			case effectPassiveIncome:
				out.PassiveIncome *= factor
			case effectDetectionChance:
				out.DetectionChance *= factor
			case effectXPGain:
				out.XPGain *= factor
			case effectHeatDecay:
				out.HeatDecay *= factor
			}
		}
	}
	return out
}

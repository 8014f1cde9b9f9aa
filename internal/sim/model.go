package sim

import (
	"errors"
	"math"
)

// SystemType identifies one of the six subsystems every rig carries.
type SystemType string

const (
	SystemNeuralCore         SystemType = "neural_core"
	SystemMemoryBanks        SystemType = "memory_banks"
	SystemQuantumProcessor   SystemType = "quantum_processor"
	SystemSecurityProtocols  SystemType = "security_protocols"
	SystemDataPathways       SystemType = "data_pathways"
	SystemEnergyDistribution SystemType = "energy_distribution"
)

var AllSystems = []SystemType{
	SystemNeuralCore,
	SystemMemoryBanks,
	SystemQuantumProcessor,
	SystemSecurityProtocols,
	SystemDataPathways,
	SystemEnergyDistribution,
}

// SystemStatus is always derived from health, never persisted.
type SystemStatus string

const (
	StatusOptimal   SystemStatus = "optimal"
	StatusDegraded  SystemStatus = "degraded"
	StatusCritical  SystemStatus = "critical"
	StatusCorrupted SystemStatus = "corrupted"
)

// StatusForHealth maps a health value to its status band:
// optimal [75,100], degraded [30,74], critical [1,29], corrupted {0}.
func StatusForHealth(health int) SystemStatus {
	switch {
	case health <= 0:
		return StatusCorrupted
	case health < 30:
		return StatusCritical
	case health < 75:
		return StatusDegraded
	default:
		return StatusOptimal
	}
}

// cascadeAdjacency is the static damage-propagation graph. Edges are
// directed and deliberately not all mutual: energy distribution feeds three
// systems but only two can blow back into it.
var cascadeAdjacency = map[SystemType][]SystemType{
	SystemNeuralCore:         {SystemMemoryBanks, SystemDataPathways},
	SystemMemoryBanks:        {SystemNeuralCore, SystemQuantumProcessor},
	SystemQuantumProcessor:   {SystemEnergyDistribution},
	SystemSecurityProtocols:  {SystemDataPathways, SystemNeuralCore},
	SystemDataPathways:       {SystemMemoryBanks, SystemSecurityProtocols},
	SystemEnergyDistribution: {SystemQuantumProcessor, SystemSecurityProtocols, SystemDataPathways},
}

// CascadeTargets returns the systems a failing subsystem damages.
func CascadeTargets(t SystemType) []SystemType {
	return cascadeAdjacency[t]
}

var (
	ErrNoActiveSeason = errors.New("no active season")
	ErrPlayerExists   = errors.New("player handle already taken")
)

// ApplyFactor scales a base value by a modifier factor, rounding half-up on
// the final product. Applied once per use-site, never on intermediate factors.
func ApplyFactor(base int, factor float64) int {
	return int(math.Floor(float64(base)*factor + 0.5))
}

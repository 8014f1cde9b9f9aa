package sim

import "testing"

func TestStatusForHealth(t *testing.T) {
	tests := []struct {
		health int
		want   SystemStatus
	}{
		{health: 0, want: StatusCorrupted},
		{health: 1, want: StatusCritical},
		{health: 29, want: StatusCritical},
		{health: 30, want: StatusDegraded},
		{health: 74, want: StatusDegraded},
		{health: 75, want: StatusOptimal},
		{health: 100, want: StatusOptimal},
	}
	for _, tc := range tests {
		if got := StatusForHealth(tc.health); got != tc.want {
			t.Fatalf("health=%d got=%s want=%s", tc.health, got, tc.want)
		}
	}
}

func TestApplyFactorRoundsHalfUp(t *testing.T) {
	tests := []struct {
		base   int
		factor float64
		want   int
	}{
		{base: 2, factor: 1.0, want: 2},
		{base: 2, factor: 1.25, want: 3},  // 2.5 rounds up
		{base: 2, factor: 1.2, want: 2},   // 2.4 rounds down
		{base: 5, factor: 0.9, want: 5},   // 4.5 rounds up
		{base: 10, factor: 0.44, want: 4}, // 4.4 rounds down
		{base: 0, factor: 3.0, want: 0},
	}
	for _, tc := range tests {
		if got := ApplyFactor(tc.base, tc.factor); got != tc.want {
			t.Fatalf("base=%d factor=%v got=%d want=%d", tc.base, tc.factor, got, tc.want)
		}
	}
}

func TestCascadeAdjacencyShape(t *testing.T) {
	for _, system := range AllSystems {
		targets := CascadeTargets(system)
		if len(targets) == 0 {
			t.Fatalf("system %s has no cascade targets", system)
		}
		for _, tgt := range targets {
			if tgt == system {
				t.Fatalf("system %s lists itself as adjacent", system)
			}
		}
	}
}

// The graph is directed: energy distribution damages data pathways, but
// data pathways do not damage energy distribution back. Pin that shape so a
// well-meaning refactor doesn't symmetrize it.
func TestCascadeAdjacencyIsAsymmetric(t *testing.T) {
	contains := func(list []SystemType, want SystemType) bool {
		for _, s := range list {
			if s == want {
				return true
			}
		}
		return false
	}

	if !contains(CascadeTargets(SystemEnergyDistribution), SystemDataPathways) {
		t.Fatal("energy_distribution must cascade into data_pathways")
	}
	if contains(CascadeTargets(SystemDataPathways), SystemEnergyDistribution) {
		t.Fatal("data_pathways must not cascade into energy_distribution")
	}
	if !contains(CascadeTargets(SystemNeuralCore), SystemDataPathways) {
		t.Fatal("neural_core must cascade into data_pathways")
	}
	if contains(CascadeTargets(SystemDataPathways), SystemNeuralCore) {
		t.Fatal("data_pathways must not cascade into neural_core")
	}
}

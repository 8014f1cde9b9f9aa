package balance

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().validate(); err != nil {
		t.Fatalf("default balance invalid: %v", err)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	bal, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bal != Default() {
		t.Fatalf("expected defaults, got %+v", bal)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	raw := []byte("degradation_per_hour: 4\ncascade_damage: 9\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	bal, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bal.DegradationPerHour != 4 || bal.CascadeDamage != 9 {
		t.Fatalf("overrides not applied: %+v", bal)
	}
	if bal.SeasonLengthDays != Default().SeasonLengthDays {
		t.Fatalf("untouched field changed: %+v", bal)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "zero death threshold", raw: "death_threshold: 0\n"},
		{name: "zero topology nodes", raw: "topology_nodes: 0\ntopology_extra_links: 4\n"},
		{name: "negative extra links", raw: "topology_extra_links: -1\n"},
	}
	for _, tc := range tests {
		path := filepath.Join(t.TempDir(), "balance.yaml")
		if err := os.WriteFile(path, []byte(tc.raw), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

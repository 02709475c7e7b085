package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const fleetYAML = `fleet:
  - name: coal-1
    pmin_mw: 150
    pmax_mw: 600
    start_cost: 45000
    fuel_cost: 38
    min_on_periods: 8
    min_off_periods: 8
  - name: ocgt-1
    pmin_mw: 20
    pmax_mw: 150
    start_cost: 4000
    fuel_cost: 95
    min_on_periods: 1
    min_off_periods: 1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_FleetFileWithOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fleet.yaml", fleetYAML)
	cfgPath := writeFile(t, dir, "config.yaml", `fleet_file: fleet.yaml
fleet:
  - name: ocgt-1
    pmin_mw: 25
    pmax_mw: 160
    start_cost: 4200
    fuel_cost: 90
    min_on_periods: 1
    min_off_periods: 1
restart_targets:
  - days: 0.5
    proportion: 0.6
block_limit_mw: 250
solver:
  budget_seconds: 30
  diagnosis_workers: 2
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Base fleet with the ocgt-1 entry overridden by name.
	if assert.Len(t, cfg.Fleet, 2) {
		assert.Equal(t, "coal-1", cfg.Fleet[0].Name)
		assert.InDelta(t, 600.0, cfg.Fleet[0].PmaxMW, 1e-9)
		assert.Equal(t, "ocgt-1", cfg.Fleet[1].Name)
		assert.InDelta(t, 160.0, cfg.Fleet[1].PmaxMW, 1e-9)
	}

	fleet := cfg.ToFleet()
	assert.NoError(t, fleet.Validate())
	assert.Equal(t, 8, fleet[0].MinOn)

	targets := cfg.ToTargets()
	if assert.Len(t, targets, 1) {
		assert.InDelta(t, 0.5, targets[0].Days, 1e-9)
		assert.InDelta(t, 0.6, targets[0].Proportion, 1e-9)
	}

	opts := cfg.ToOptions()
	assert.Equal(t, 30*time.Second, opts.SolveBudget)
	assert.Equal(t, 2, opts.DiagnosisWorkers)
}

func TestLoad_InlineFleetOnly(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", `fleet:
  - name: g1
    pmin_mw: 0
    pmax_mw: 100
    fuel_cost: 10
    min_on_periods: 1
    min_off_periods: 1
block_limit_mw: 25
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assert.Len(t, cfg.Fleet, 1)
	assert.Empty(t, cfg.RestartTargets)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing fleet", "block_limit_mw: 25\n"},
		{"zero block limit", `fleet:
  - name: g1
    pmax_mw: 100
    min_on_periods: 1
    min_off_periods: 1
`},
		{"bad proportion", `fleet:
  - name: g1
    pmax_mw: 100
    min_on_periods: 1
    min_off_periods: 1
block_limit_mw: 25
restart_targets:
  - days: 0.5
    proportion: 1.2
`},
		{"pmin above pmax", `fleet:
  - name: g1
    pmin_mw: 200
    pmax_mw: 100
    min_on_periods: 1
    min_off_periods: 1
block_limit_mw: 25
`},
		{"negative budget", `fleet:
  - name: g1
    pmax_mw: 100
    min_on_periods: 1
    min_off_periods: 1
block_limit_mw: 25
solver:
  budget_seconds: -1
`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			cfgPath := writeFile(t, dir, "config.yaml", tc.yaml)
			_, err := Load(cfgPath)
			assert.Error(t, err)
		})
	}
}

func TestMergeFleet_AppendsUnknownNames(t *testing.T) {
	base := []UnitConfig{{Name: "a", PmaxMW: 100}}
	override := []UnitConfig{{Name: "b", PmaxMW: 50}}
	merged := MergeFleet(base, override)
	if assert.Len(t, merged, 2) {
		assert.Equal(t, "a", merged[0].Name)
		assert.Equal(t, "b", merged[1].Name)
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"blockload-solver/internal/commitment"
	"blockload-solver/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load the unit fleet from a separate YAML (e.g.
	// examples/fleets/*.yaml). If both FleetFile and Fleet are provided,
	// Fleet entries override by unit name.
	FleetFile string       `yaml:"fleet_file"`
	Fleet     []UnitConfig `yaml:"fleet"`

	RestartTargets []TargetConfig `yaml:"restart_targets"`
	BlockLimitMW   float64        `yaml:"block_limit_mw"`

	Solver SolverConfig `yaml:"solver"`
}

type UnitConfig struct {
	Name          string  `yaml:"name"`
	PminMW        float64 `yaml:"pmin_mw"`
	PmaxMW        float64 `yaml:"pmax_mw"`
	StartCost     float64 `yaml:"start_cost"`
	FuelCost      float64 `yaml:"fuel_cost"`
	MinOnPeriods  int     `yaml:"min_on_periods"`
	MinOffPeriods int     `yaml:"min_off_periods"`
}

type TargetConfig struct {
	Days       float64 `yaml:"days"`
	Proportion float64 `yaml:"proportion"`
}

type SolverConfig struct {
	// BudgetSeconds is the per-solve wall-clock limit; 0 = unlimited.
	BudgetSeconds         float64 `yaml:"budget_seconds"`
	TightenBigM           bool    `yaml:"tighten_big_m"`
	LinkStartupIndicators bool    `yaml:"link_startup_indicators"`
	DiagnosisWorkers      int     `yaml:"diagnosis_workers"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.FleetFile != "" {
		fleetPath := c.FleetFile
		if !filepath.IsAbs(fleetPath) {
			// Prefer interpreting relative paths as relative to the config
			// file directory, but fall back to the provided path (relative
			// to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), fleetPath)
			if _, err := os.Stat(cand); err == nil {
				fleetPath = cand
			}
		}
		loaded, err := loadFleetFile(fleetPath)
		if err != nil {
			return nil, err
		}
		c.Fleet = MergeFleet(loaded, c.Fleet)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Fleet) == 0 {
		return errors.New("fleet is required (inline or via fleet_file)")
	}
	if err := c.ToFleet().Validate(); err != nil {
		return fmt.Errorf("fleet config invalid: %w", err)
	}
	if c.BlockLimitMW <= 0 {
		return errors.New("block_limit_mw must be > 0")
	}
	for i, t := range c.RestartTargets {
		if t.Proportion < 0 || t.Proportion > 1 {
			return fmt.Errorf("restart_targets[%d].proportion must be in [0,1]", i)
		}
		if t.Days < 0 {
			return fmt.Errorf("restart_targets[%d].days must be >= 0", i)
		}
	}
	if c.Solver.BudgetSeconds < 0 {
		return errors.New("solver.budget_seconds must be >= 0")
	}
	return nil
}

func (c *Config) ToFleet() model.Fleet {
	fleet := make(model.Fleet, len(c.Fleet))
	for i, u := range c.Fleet {
		fleet[i] = model.Unit{
			Name:      u.Name,
			PminMW:    u.PminMW,
			PmaxMW:    u.PmaxMW,
			StartCost: u.StartCost,
			FuelCost:  u.FuelCost,
			MinOn:     u.MinOnPeriods,
			MinOff:    u.MinOffPeriods,
		}
	}
	return fleet
}

func (c *Config) ToTargets() []model.RestartTarget {
	targets := make([]model.RestartTarget, len(c.RestartTargets))
	for i, t := range c.RestartTargets {
		targets[i] = model.RestartTarget{Days: t.Days, Proportion: t.Proportion}
	}
	return targets
}

func (c *Config) ToOptions() commitment.Options {
	return commitment.Options{
		TightenBigM:           c.Solver.TightenBigM,
		LinkStartupIndicators: c.Solver.LinkStartupIndicators,
		SolveBudget:           time.Duration(c.Solver.BudgetSeconds * float64(time.Second)),
		DiagnosisWorkers:      c.Solver.DiagnosisWorkers,
	}
}

type fleetFileWrapper struct {
	Fleet []UnitConfig `yaml:"fleet"`
}

func loadFleetFile(path string) ([]UnitConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w fleetFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return w.Fleet, nil
}

// MergeFleet overlays override entries onto base, matching by unit name.
// Unknown names are appended, preserving override order after the base.
func MergeFleet(base, override []UnitConfig) []UnitConfig {
	out := make([]UnitConfig, len(base))
	copy(out, base)
	index := map[string]int{}
	for i, u := range out {
		index[u.Name] = i
	}
	for _, u := range override {
		if i, ok := index[u.Name]; ok {
			out[i] = u
			continue
		}
		out = append(out, u)
	}
	return out
}

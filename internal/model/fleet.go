package model

import (
	"errors"
	"fmt"
)

// Unit defines the physical and economic parameters of one dispatchable
// generating unit.
// Units:
// - PminMW, PmaxMW: MW, 0 <= PminMW <= PmaxMW
// - FuelCost: £/MWh, applied to MW dispatch per half-hour step (see Inputs)
// - StartCost: £ per startup event
// - MinOn, MinOff: half-hour periods the unit must stay on/off, >= 1
type Unit struct {
	Name      string
	PminMW    float64
	PmaxMW    float64
	StartCost float64
	FuelCost  float64
	MinOn     int
	MinOff    int
}

func (u Unit) Validate() error {
	if u.Name == "" {
		return errors.New("unit name is required")
	}
	if u.PminMW < 0 {
		return errors.New("PminMW must be >= 0")
	}
	if u.PmaxMW < u.PminMW {
		return errors.New("PmaxMW must be >= PminMW")
	}
	if u.StartCost < 0 {
		return errors.New("StartCost must be >= 0")
	}
	if u.FuelCost < 0 {
		return errors.New("FuelCost must be >= 0")
	}
	if u.MinOn < 1 {
		return errors.New("MinOn must be >= 1")
	}
	if u.MinOff < 1 {
		return errors.New("MinOff must be >= 1")
	}
	return nil
}

// Fleet is the ordered set of dispatchable units. Order is significant:
// decision variables and primal rows are indexed by position.
type Fleet []Unit

func (f Fleet) Validate() error {
	if len(f) == 0 {
		return errors.New("fleet is empty")
	}
	seen := map[string]bool{}
	for i, u := range f {
		if err := u.Validate(); err != nil {
			return fmt.Errorf("unit %d (%q): %w", i, u.Name, err)
		}
		if seen[u.Name] {
			return fmt.Errorf("duplicate unit name %q", u.Name)
		}
		seen[u.Name] = true
	}
	return nil
}

// TotalPmaxMW is the aggregate dispatchable capacity of the fleet.
func (f Fleet) TotalPmaxMW() float64 {
	total := 0.0
	for _, u := range f {
		total += u.PmaxMW
	}
	return total
}

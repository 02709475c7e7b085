package model

import "time"

// Inputs is the normalised, fixed-shape input bundle the model builder
// consumes. All slices indexed by timestep have length T; Fleet has length N.
//
// Units note: FuelCost is £/MWh but is applied to MW dispatch per half-hour
// step, i.e. the objective treats one MW held for one timestep as one cost
// unit (0.5 MWh). The global factor does not change the optimum.
type Inputs struct {
	Timestamps []time.Time

	DemandMW     []float64 // D: forecast total demand
	RenewablesMW []float64 // F: wind + solar, non-dispatchable
	TargetMW     []float64 // Dtarget: per-timestep lower reference curve

	Fleet Fleet

	Checkpoints  []Checkpoint
	BlockLimitMW float64 // global per-step ramp ceiling on served block demand
}

// T is the horizon length in timesteps.
func (in *Inputs) T() int { return len(in.DemandMW) }

// N is the number of dispatchable units.
func (in *Inputs) N() int { return len(in.Fleet) }

// LastCheckpointT returns the timestep of the final checkpoint, or -1 when
// no checkpoints are present.
func (in *Inputs) LastCheckpointT() int {
	if len(in.Checkpoints) == 0 {
		return -1
	}
	return in.Checkpoints[len(in.Checkpoints)-1].T
}

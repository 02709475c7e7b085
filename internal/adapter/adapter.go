// Package adapter normalises external inputs (half-hourly series, unit
// table, restart targets) into the fixed-shape tensors the model builder
// consumes: demand and renewables vectors, derived block-loading checkpoints
// and the per-timestep target curve.
package adapter

import (
	"fmt"
	"math"
	"sort"
	"time"

	"blockload-solver/internal/model"
)

// RawInputs is everything the adapter's collaborators hand over.
type RawInputs struct {
	Demand model.Series
	Wind   model.Series
	Solar  model.Series

	Fleet model.Fleet

	Targets      []model.RestartTarget
	BlockLimitMW float64
}

// BuildInputs validates the raw inputs and derives the normalised bundle.
// Derivation is deterministic and total: same raw inputs, same tensors.
func BuildInputs(raw RawInputs) (*model.Inputs, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}

	checkpoints, err := deriveCheckpoints(raw)
	if err != nil {
		return nil, err
	}

	demand := raw.Demand.Values()
	renewables := make([]float64, len(demand))
	for t := range renewables {
		renewables[t] = raw.Wind[t].MW + raw.Solar[t].MW
	}

	return &model.Inputs{
		Timestamps:   raw.Demand.Timestamps(),
		DemandMW:     demand,
		RenewablesMW: renewables,
		TargetMW:     targetCurve(demand, checkpoints),
		Fleet:        raw.Fleet,
		Checkpoints:  checkpoints,
		BlockLimitMW: raw.BlockLimitMW,
	}, nil
}

func validate(raw RawInputs) error {
	if err := raw.Demand.Validate(); err != nil {
		return fmt.Errorf("%w: demand: %v", model.ErrInvalidInput, err)
	}
	if err := raw.Wind.Validate(); err != nil {
		return fmt.Errorf("%w: wind: %v", model.ErrInvalidInput, err)
	}
	if err := raw.Solar.Validate(); err != nil {
		return fmt.Errorf("%w: solar: %v", model.ErrInvalidInput, err)
	}
	if !raw.Demand.Aligned(raw.Wind) || !raw.Demand.Aligned(raw.Solar) {
		return fmt.Errorf("%w: demand, wind and solar series are not aligned", model.ErrInvalidInput)
	}
	if err := raw.Fleet.Validate(); err != nil {
		return fmt.Errorf("%w: fleet: %v", model.ErrInvalidInput, err)
	}
	for i, tgt := range raw.Targets {
		if tgt.Days < 0 {
			return fmt.Errorf("%w: restart target %d has negative days", model.ErrInvalidInput, i)
		}
		if tgt.Proportion < 0 || tgt.Proportion > 1 {
			return fmt.Errorf("%w: restart target %d proportion %.3f outside [0,1]", model.ErrInvalidInput, i, tgt.Proportion)
		}
	}
	if raw.BlockLimitMW <= 0 {
		return fmt.Errorf("%w: block limit must be > 0, got %.3f", model.ErrInvalidInput, raw.BlockLimitMW)
	}
	return nil
}

// deriveCheckpoints snaps each restart target onto the horizon: the target
// datetime is first_date + days*24h, snapped to the timestep with minimum
// absolute delta (ties break to the earliest timestep). The checkpoint
// volume is the demand forecast at the snapped timestep scaled by the target
// proportion; the ramp ceiling is the global block limit.
func deriveCheckpoints(raw RawInputs) ([]model.Checkpoint, error) {
	timestamps := raw.Demand.Timestamps()
	first := timestamps[0]

	checkpoints := make([]model.Checkpoint, 0, len(raw.Targets))
	taken := map[int]bool{}
	for _, tgt := range raw.Targets {
		targetTime := first.Add(time.Duration(tgt.Days * 24 * float64(time.Hour)))
		tk := snapToTimestep(timestamps, targetTime)
		if taken[tk] {
			return nil, fmt.Errorf("%w: restart target %.3g days snaps to occupied timestep %d", model.ErrCheckpointCollision, tgt.Days, tk)
		}
		taken[tk] = true
		checkpoints = append(checkpoints, model.Checkpoint{
			T:            tk,
			VolumeMW:     raw.Demand[tk].MW * tgt.Proportion,
			BlockLimitMW: raw.BlockLimitMW,
		})
	}

	sort.Slice(checkpoints, func(i, j int) bool { return checkpoints[i].T < checkpoints[j].T })
	return checkpoints, nil
}

func snapToTimestep(timestamps []time.Time, target time.Time) int {
	best := 0
	bestDelta := math.Inf(1)
	for t, ts := range timestamps {
		delta := math.Abs(ts.Sub(target).Seconds())
		if delta < bestDelta {
			best = t
			bestDelta = delta
		}
	}
	return best
}

// targetCurve materialises the right-open step function Dtarget: on
// [t_{k-1}, t_k) the curve holds the volume of checkpoint k; at and after
// the last checkpoint it follows the demand forecast. With no checkpoints
// the curve is the forecast itself.
func targetCurve(demand []float64, checkpoints []model.Checkpoint) []float64 {
	target := make([]float64, len(demand))
	assigned := make([]bool, len(demand))
	last := -1
	if len(checkpoints) > 0 {
		last = checkpoints[len(checkpoints)-1].T
	}
	for _, cp := range checkpoints {
		for t := 0; t < cp.T; t++ {
			if !assigned[t] {
				target[t] = cp.VolumeMW
				assigned[t] = true
			}
		}
	}
	for t := range target {
		if last < 0 || t >= last {
			target[t] = demand[t]
		}
	}
	return target
}

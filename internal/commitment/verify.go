package commitment

import (
	"fmt"
	"math"

	"blockload-solver/internal/model"
)

// verifyTolerance absorbs solver rounding when checking a primal.
const verifyTolerance = 1e-6

// VerifyPrimal checks a solved schedule against every invariant the model
// promises: power bounds, supply adequacy, the cold start, the ramp
// envelope, checkpoint floors and the rolling minimum-on/off windows. It
// returns one message per violation; an empty slice means the primal is
// consistent with the inputs it was solved from.
func VerifyPrimal(in *model.Inputs, primal *model.Primal) []string {
	var violations []string
	report := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	T := in.T()

	// Power bounds against commitment.
	for i, unit := range in.Fleet {
		for t := 0; t < T; t++ {
			p := primal.Dispatch[i][t]
			if !primal.On[i][t] {
				if p > verifyTolerance {
					report("unit %d dispatches %.4f MW at t=%d while off", i, p, t)
				}
				continue
			}
			if p < unit.PminMW-verifyTolerance {
				report("unit %d dispatches %.4f MW at t=%d, below Pmin %.4f", i, p, t, unit.PminMW)
			}
			if p > unit.PmaxMW+verifyTolerance {
				report("unit %d dispatches %.4f MW at t=%d, above Pmax %.4f", i, p, t, unit.PmaxMW)
			}
		}
	}

	// Supply adequacy.
	for t := 0; t < T; t++ {
		if primal.TotalDispatchMW(t)+in.RenewablesMW[t] < primal.ServedMW[t]-verifyTolerance {
			report("supply short of served demand at t=%d", t)
		}
	}

	// Cold start.
	if math.Abs(primal.ServedMW[0]) > verifyTolerance {
		report("served demand %.4f MW at t=0, want 0", primal.ServedMW[0])
	}

	// Ramp envelope up to the last checkpoint (whole horizon without one).
	lastT := in.LastCheckpointT()
	for t := 0; t < T-1; t++ {
		if lastT >= 0 && t > lastT {
			break
		}
		step := primal.ServedMW[t+1] - primal.ServedMW[t]
		if step < -verifyTolerance {
			report("served demand decreases by %.4f MW at t=%d", -step, t)
		}
		limit := blockLimitFor(in, t)
		if step > limit+verifyTolerance {
			report("served demand steps %.4f MW at t=%d, limit %.4f", step, t, limit)
		}
	}

	// Checkpoint floors and the post-checkpoint pin.
	for _, cp := range in.Checkpoints {
		if primal.ServedMW[cp.T] < cp.VolumeMW-verifyTolerance {
			report("checkpoint at t=%d served %.4f MW, want >= %.4f", cp.T, primal.ServedMW[cp.T], cp.VolumeMW)
		}
	}
	if lastT >= 0 {
		for t := lastT + 1; t < T; t++ {
			if math.Abs(primal.ServedMW[t]-in.DemandMW[t]) > verifyTolerance {
				report("served demand %.4f MW at t=%d, want forecast %.4f", primal.ServedMW[t], t, in.DemandMW[t])
			}
		}
	}

	// Rolling min-up window (aggregate form).
	for i, unit := range in.Fleet {
		for t := 0; t < T; t++ {
			if !primal.On[i][t] {
				continue
			}
			from := t - unit.MinOn + 1
			if from < 0 {
				from = 0
			}
			startups := 0
			for tau := from; tau <= t; tau++ {
				if primal.Started[i][tau] {
					startups++
				}
			}
			need := unit.MinOn
			if t+1 < need {
				need = t + 1
			}
			if startups < need {
				report("unit %d on at t=%d with %d startup indicators in window, want %d", i, t, startups, need)
			}
		}
	}

	// Rolling min-down window.
	for i, unit := range in.Fleet {
		for t := unit.MinOff; t < T; t++ {
			if primal.On[i][t] {
				continue
			}
			off := 0
			for tau := t - unit.MinOff + 1; tau <= t; tau++ {
				if !primal.On[i][tau] {
					off++
				}
			}
			if off < 1 {
				report("unit %d off at t=%d with no off periods in trailing window", i, t)
			}
		}
	}

	return violations
}

func blockLimitFor(in *model.Inputs, t int) float64 {
	for _, cp := range in.Checkpoints {
		if t <= cp.T {
			return cp.BlockLimitMW
		}
	}
	return in.BlockLimitMW
}

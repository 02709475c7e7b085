// Package commitment formulates, solves and diagnoses the block-loading
// unit-commitment MILP: which units run in each half-hour period, how much
// they produce, and how the served block demand climbs towards its
// checkpoints.
package commitment

import (
	"fmt"
	"math"
	"time"

	"blockload-solver/internal/milp"
	"blockload-solver/internal/model"
)

// Constraint group names. These are stable strings: the diagnoser removes
// groups by name and its classification patterns reference them.
const (
	GroupDemand           = "demand"
	GroupStatus           = "status"
	GroupMinPower         = "min_power"
	GroupMaxPower         = "max_power"
	GroupStartUp          = "start_up"
	GroupCoolDown         = "cool_down"
	GroupInitialCondition = "initial-condition"
	GroupTargetDemand     = "target-demand"
	GroupDemandIncrease   = "demand-increase"
	GroupDemandDecrease   = "demand-decrease"

	// Auxiliary groups outside the diagnoser's enumeration; present in
	// every probe.
	groupLinearisation  = "objective-linearisation"
	groupStartupLinking = "startup-linking"
)

// DiagnosisGroups is the diagnoser's probe enumeration, in probe order.
var DiagnosisGroups = []string{
	GroupDemand,
	GroupStatus,
	GroupMinPower,
	GroupMaxPower,
	GroupStartUp,
	GroupCoolDown,
	GroupInitialCondition,
	GroupTargetDemand,
	GroupDemandIncrease,
	GroupDemandDecrease,
}

// PenaltyWeight multiplies |d - Dtarget| in the objective. It is chosen so
// that any feasible deviation from the target curve dominates any feasible
// operating-cost saving, making the objective lexicographic in effect.
const PenaltyWeight = 1e6

// bigM decouples dispatch from commitment in the status group.
const bigM = 1e6

// Options tune the model formulation and the solve/diagnosis drivers.
type Options struct {
	// TightenBigM replaces the status group's 1e6 constant with the
	// unit's Pmax. The feasible integer set is unchanged; the LP
	// relaxation is tighter.
	TightenBigM bool

	// LinkStartupIndicators forces c[i,t] >= u[i,t] - u[i,t-1], pinning
	// the startup indicators to actual 0->1 transitions. Off by default:
	// the plain window formulation lets the solver spread indicator mass
	// and understate startup costs, and that behaviour is preserved
	// until schedules produced either way have been compared.
	LinkStartupIndicators bool

	// SolveBudget is the per-solve wall-clock limit applied to the main
	// solve and to each diagnosis probe independently. Zero = unlimited.
	SolveBudget time.Duration

	// DiagnosisWorkers sets probe concurrency. At the default of 1 the
	// probes run in enumeration order and the probe log is
	// deterministic.
	DiagnosisWorkers int
}

// problem bundles the built model with its variable handles so primal
// extraction and tests can address decision variables directly.
type problem struct {
	m *milp.Model

	u [][]milp.Var // commitment, [N][T]
	c [][]milp.Var // startup status, [N][T]
	p [][]milp.Var // dispatch MW, [N][T]
	d []milp.Var   // served block demand MW, [T]
	e []milp.Var   // |d - Dtarget| linearisation, [T]
}

// buildProblem allocates decision variables and emits the full constraint
// system and objective for the given inputs. Pure construction: no solver
// calls.
func buildProblem(in *model.Inputs, opts Options) *problem {
	T := in.T()
	N := in.N()

	m := milp.New("block-loading")
	pr := &problem{
		m: m,
		u: make([][]milp.Var, N),
		c: make([][]milp.Var, N),
		p: make([][]milp.Var, N),
		d: make([]milp.Var, T),
		e: make([]milp.Var, T),
	}

	for i, unit := range in.Fleet {
		pr.u[i] = make([]milp.Var, T)
		pr.c[i] = make([]milp.Var, T)
		pr.p[i] = make([]milp.Var, T)
		for t := 0; t < T; t++ {
			pr.u[i][t] = m.Binary(fmt.Sprintf("on_off_%d_%d", i, t))
			pr.c[i][t] = m.Binary(fmt.Sprintf("startup_%d_%d", i, t))
			pr.p[i][t] = m.Continuous(fmt.Sprintf("power_out_%d_%d", i, t), 0, inf)

			m.SetCost(pr.p[i][t], unit.FuelCost)
			m.SetCost(pr.c[i][t], unit.StartCost)
		}
	}
	for t := 0; t < T; t++ {
		pr.d[t] = m.Continuous(fmt.Sprintf("demand_%d", t), 0, inf)
		pr.e[t] = m.Continuous(fmt.Sprintf("target_dev_%d", t), 0, inf)
		m.SetCost(pr.e[t], PenaltyWeight)
	}

	pr.addBlockDemandConstraints(in)
	pr.addUnitConstraints(in, opts)
	pr.addLinearisation(in)
	if opts.LinkStartupIndicators {
		pr.addStartupLinking(in)
	}
	return pr
}

// addBlockDemandConstraints emits the served-demand side of the system:
// initial condition, checkpoint targets, the post-checkpoint pin to the
// forecast, the balance against available supply, and the ramp envelope.
func (pr *problem) addBlockDemandConstraints(in *model.Inputs) {
	T := in.T()
	m := pr.m

	// Cold start: nothing is served at the first timestep.
	m.Add(GroupInitialCondition, milp.EQ(0, term(pr.d[0], 1)))

	// Checkpoint floors, then the pin to the forecast strictly after the
	// last checkpoint. A timestep equal to the last checkpoint gets its
	// floor here and its ramp constraints below; neither is emitted
	// twice.
	lastT := in.LastCheckpointT()
	for _, cp := range in.Checkpoints {
		m.Add(GroupTargetDemand, milp.GE(cp.VolumeMW, term(pr.d[cp.T], 1)))
	}
	if lastT >= 0 {
		for t := lastT + 1; t < T; t++ {
			m.Add(GroupTargetDemand, milp.EQ(in.DemandMW[t], term(pr.d[t], 1)))
		}
	}

	// Supply adequacy: dispatch plus renewables covers the served demand.
	for t := 0; t < T; t++ {
		terms := make([]milp.Term, 0, in.N()+1)
		for i := range pr.p {
			terms = append(terms, term(pr.p[i][t], 1))
		}
		terms = append(terms, term(pr.d[t], -1))
		m.Add(GroupDemand, milp.GE(-in.RenewablesMW[t], terms...))
	}

	// Ramp envelope: monotone non-decreasing, stepping up by at most the
	// governing checkpoint's block limit. Active up to and including the
	// last checkpoint; over the whole horizon when there are none.
	for t := 0; t < T-1; t++ {
		if lastT >= 0 && t > lastT {
			break
		}
		m.Add(GroupDemandIncrease, milp.LE(pr.blockLimitAt(in, t), term(pr.d[t+1], 1), term(pr.d[t], -1)))
		m.Add(GroupDemandDecrease, milp.GE(0, term(pr.d[t+1], 1), term(pr.d[t], -1)))
	}
}

// blockLimitAt returns the ramp ceiling governing timestep t: the limit of
// the first checkpoint at or after t, falling back to the global limit on a
// checkpoint-free horizon.
func (pr *problem) blockLimitAt(in *model.Inputs, t int) float64 {
	for _, cp := range in.Checkpoints {
		if t <= cp.T {
			return cp.BlockLimitMW
		}
	}
	return in.BlockLimitMW
}

// addUnitConstraints emits the per-unit physics: commitment coupling, power
// bounds and the rolling minimum-on/off windows.
func (pr *problem) addUnitConstraints(in *model.Inputs, opts Options) {
	T := in.T()
	m := pr.m

	for i, unit := range in.Fleet {
		statusM := bigM
		if opts.TightenBigM {
			statusM = unit.PmaxMW
		}
		for t := 0; t < T; t++ {
			u, c, p := pr.u[i], pr.c[i], pr.p[i]

			m.Add(GroupStatus, milp.LE(0, term(p[t], 1), term(u[t], -statusM)))
			m.Add(GroupMinPower, milp.GE(0, term(p[t], 1), term(u[t], -unit.PminMW)))
			m.Add(GroupMaxPower, milp.LE(0, term(p[t], 1), term(u[t], -unit.PmaxMW)))

			// Min-up, aggregate form: a committed period demands
			// MinOn startup indicators inside the trailing window
			// (or one per elapsed period while the window is still
			// filling).
			if t >= unit.MinOn {
				terms := windowTerms(c, t-unit.MinOn+1, t, 1)
				terms = append(terms, term(u[t], -float64(unit.MinOn)))
				m.Add(GroupStartUp, milp.GE(0, terms...))
			} else {
				terms := windowTerms(c, 0, t, 1)
				terms = append(terms, term(u[t], -float64(t+1)))
				m.Add(GroupStartUp, milp.GE(0, terms...))
			}

			// Min-down: sum(1-u) over the trailing window >= 1-u[t],
			// rearranged so only variables sit on the left.
			if t >= unit.MinOff {
				terms := windowTerms(u, t-unit.MinOff+1, t, -1)
				terms = append(terms, term(u[t], 1))
				m.Add(GroupCoolDown, milp.GE(1-float64(unit.MinOff), terms...))
			}
		}
	}
}

// addLinearisation emits e[t] >= |d[t] - Dtarget[t]| as the two one-sided
// inequalities. The group is not part of the diagnosis enumeration: the
// penalty must survive every probe.
func (pr *problem) addLinearisation(in *model.Inputs) {
	for t := 0; t < in.T(); t++ {
		pr.m.Add(groupLinearisation, milp.GE(-in.TargetMW[t], term(pr.e[t], 1), term(pr.d[t], -1)))
		pr.m.Add(groupLinearisation, milp.GE(in.TargetMW[t], term(pr.e[t], 1), term(pr.d[t], 1)))
	}
}

// addStartupLinking pins startup indicators to 0->1 commitment transitions.
func (pr *problem) addStartupLinking(in *model.Inputs) {
	for i := range in.Fleet {
		pr.m.Add(groupStartupLinking, milp.GE(0, term(pr.c[i][0], 1), term(pr.u[i][0], -1)))
		for t := 1; t < in.T(); t++ {
			pr.m.Add(groupStartupLinking, milp.GE(0,
				term(pr.c[i][t], 1), term(pr.u[i][t], -1), term(pr.u[i][t-1], 1)))
		}
	}
}

var inf = math.Inf(1)

func term(v milp.Var, coef float64) milp.Term {
	return milp.Term{Var: v, Coef: coef}
}

func windowTerms(vars []milp.Var, from, to int, coef float64) []milp.Term {
	terms := make([]milp.Term, 0, to-from+2)
	for tau := from; tau <= to; tau++ {
		terms = append(terms, term(vars[tau], coef))
	}
	return terms
}

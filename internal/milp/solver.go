package milp

import (
	"context"
	"time"
)

// Status is the termination taxonomy of a solve call.
type Status string

const (
	StatusOptimal     Status = "optimal"
	StatusInfeasible  Status = "infeasible"
	StatusUnbounded   Status = "unbounded"
	StatusTimeout     Status = "timeout"
	StatusSolverError Status = "solver_error"
)

// Options parameterise a single solve call.
type Options struct {
	// Omit drops every constraint of the named group from the lowered
	// problem. Used by the infeasibility diagnoser's probes.
	Omit string

	// Budget is the per-solve wall-clock limit; zero means unlimited.
	// Expiry yields StatusTimeout.
	Budget time.Duration
}

// Solution is the outcome of one solve call. Values is indexed by Var and is
// populated only when Status is StatusOptimal.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64

	// Err carries the back-end failure underlying a non-optimal status,
	// for logging. It is nil for StatusOptimal and StatusInfeasible.
	Err error
}

// Value returns the primal value of v.
func (s *Solution) Value(v Var) float64 {
	return s.Values[v]
}

// Solver is a MILP back-end. Implementations must be safe for sequential
// reuse across independent models; the reference implementation is LPSolve.
type Solver interface {
	Solve(ctx context.Context, m *Model, opts Options) (*Solution, error)
}

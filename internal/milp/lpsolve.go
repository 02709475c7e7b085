package milp

import (
	"context"
	"errors"
	"fmt"

	"github.com/costela/golpa"
)

// LPSolve drives the lp_solve branch-and-cut back-end via golpa. Each call
// lowers the model into a fresh golpa problem, so concurrent calls on one
// LPSolve value are safe and probe solves never share state.
type LPSolve struct{}

func NewLPSolve() *LPSolve { return &LPSolve{} }

func (s *LPSolve) Solve(ctx context.Context, m *Model, opts Options) (*Solution, error) {
	if opts.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Budget)
		defer cancel()
	}

	prob, err := golpa.NewModel(m.name, golpa.Minimize)
	if err != nil {
		return &Solution{Status: StatusSolverError, Err: err}, fmt.Errorf("create problem: %w", err)
	}

	vars := make([]*golpa.Variable, len(m.vars))
	for i, v := range m.vars {
		typ := golpa.ContinuousVariable
		if v.typ == Binary {
			typ = golpa.BinaryVariable
		}
		gv, err := prob.AddDefinedVariable(v.name, typ, v.cost, v.lo, v.hi)
		if err != nil {
			return &Solution{Status: StatusSolverError, Err: err}, fmt.Errorf("add variable %s: %w", v.name, err)
		}
		vars[i] = gv
	}

	for _, group := range m.order {
		if group == opts.Omit {
			continue
		}
		for _, c := range m.groups[group] {
			if len(c.Terms) == 0 {
				// Vacuously true rows (e.g. a min-off window of one
				// period) carry no columns and are not lowered.
				continue
			}
			gvars := make([]*golpa.Variable, len(c.Terms))
			coefs := make([]float64, len(c.Terms))
			for j, t := range c.Terms {
				gvars[j] = vars[t.Var]
				coefs[j] = t.Coef
			}
			if err := prob.AddConstraint(c.Lo, c.Hi, gvars, coefs); err != nil {
				return &Solution{Status: StatusSolverError, Err: err}, fmt.Errorf("add %s constraint: %w", group, err)
			}
		}
	}

	res, err := prob.SolveWithContext(ctx)
	if err != nil {
		return classifySolveError(err), nil
	}

	sol := &Solution{
		Status:    StatusOptimal,
		Objective: res.ObjectiveValue(),
		Values:    make([]float64, len(vars)),
	}
	if res.Status() != golpa.SolutionOptimal {
		// A suboptimal incumbent without a context error means the
		// branch-and-cut stopped early; report it as a solver failure
		// rather than pass off a non-proven schedule as optimal.
		return &Solution{Status: StatusSolverError, Err: fmt.Errorf("solver stopped with status %v", res.Status())}, nil
	}
	for i, gv := range vars {
		sol.Values[i] = res.Value(gv)
	}
	return sol, nil
}

func classifySolveError(err error) *Solution {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &Solution{Status: StatusTimeout, Err: err}
	case errors.Is(err, golpa.ErrInfeasible):
		return &Solution{Status: StatusInfeasible}
	case errors.Is(err, golpa.ErrUnbounded):
		return &Solution{Status: StatusUnbounded, Err: err}
	default:
		return &Solution{Status: StatusSolverError, Err: err}
	}
}

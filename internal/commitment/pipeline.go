package commitment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"blockload-solver/internal/milp"
	"blockload-solver/internal/model"
)

// Solve error taxonomy. Infeasibility is not an error: it yields a Result
// carrying a diagnosis.
var (
	// ErrUnbounded indicates a modelling bug: the objective has a closed
	// lower bound, so an unbounded status can only mean the emitted
	// program is wrong.
	ErrUnbounded = errors.New("problem unbounded")

	// ErrSolver wraps back-end failures distinct from infeasibility.
	ErrSolver = errors.New("solver failure")
)

// Result is the outcome of one pipeline run. Primal is non-nil exactly when
// Status is optimal; Diagnosis is non-nil for infeasible and timed-out runs.
type Result struct {
	Status    milp.Status
	Primal    *model.Primal
	Diagnosis *Diagnosis
}

// Solve runs the full pipeline on normalised inputs: build the MILP, drive
// the back-end, and either extract the primal schedule or diagnose the
// infeasibility.
func Solve(ctx context.Context, solver milp.Solver, in *model.Inputs, opts Options) (*Result, error) {
	pr := buildProblem(in, opts)
	slog.Debug("built block-loading problem",
		"timesteps", in.T(), "units", in.N(),
		"variables", pr.m.VarCount(), "constraints", pr.m.ConstraintCount())

	sol, err := solver.Solve(ctx, pr.m, milp.Options{Budget: opts.SolveBudget})
	if err != nil {
		return &Result{Status: milp.StatusSolverError}, fmt.Errorf("%w: %v", ErrSolver, err)
	}
	slog.Debug("solve finished", "status", sol.Status)

	switch sol.Status {
	case milp.StatusOptimal:
		return &Result{Status: sol.Status, Primal: pr.extractPrimal(sol)}, nil
	case milp.StatusInfeasible, milp.StatusTimeout:
		diag := Diagnose(ctx, solver, pr.m, opts)
		return &Result{Status: sol.Status, Diagnosis: diag}, nil
	case milp.StatusUnbounded:
		return &Result{Status: sol.Status}, ErrUnbounded
	default:
		return &Result{Status: sol.Status}, fmt.Errorf("%w: %v", ErrSolver, sol.Err)
	}
}

// extractPrimal reads decision-variable values out of an optimal solution.
// Binary variables are rounded at one half; lp_solve reports them as floats
// that may sit a rounding error off 0 or 1.
func (pr *problem) extractPrimal(sol *milp.Solution) *model.Primal {
	N := len(pr.u)
	T := len(pr.d)

	primal := &model.Primal{
		On:        make([][]bool, N),
		Started:   make([][]bool, N),
		Dispatch:  make([][]float64, N),
		ServedMW:  make([]float64, T),
		Objective: sol.Objective,
	}
	for i := 0; i < N; i++ {
		primal.On[i] = make([]bool, T)
		primal.Started[i] = make([]bool, T)
		primal.Dispatch[i] = make([]float64, T)
		for t := 0; t < T; t++ {
			primal.On[i][t] = sol.Value(pr.u[i][t]) > 0.5
			primal.Started[i][t] = sol.Value(pr.c[i][t]) > 0.5
			primal.Dispatch[i][t] = clampNonNegative(sol.Value(pr.p[i][t]))
		}
	}
	for t := 0; t < T; t++ {
		primal.ServedMW[t] = clampNonNegative(sol.Value(pr.d[t]))
	}
	return primal
}

func clampNonNegative(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

package commitment

import (
	"context"
	"log/slog"
	"sync"

	"blockload-solver/internal/milp"
)

// Operational conditions an infeasibility can be classified as.
const (
	ConditionInsufficientPower = "Insufficient available power to meet demand."
	ConditionCoolDown          = "Generators cannot cool down in time."
	ConditionBlockLoading      = "Cannot achieve block loading in time for targets."
	ConditionStartUp           = "Generators cannot start up in time."
	ConditionStatus            = "Cannot enforce status variable."
	ConditionUnknown           = "UNKNOWN infeasibility condition."
)

// classificationPatterns maps each condition to the exact set of groups
// whose removal must restore feasibility, ordered by match priority.
var classificationPatterns = []struct {
	condition string
	groups    []string
}{
	{ConditionInsufficientPower, []string{GroupMaxPower, GroupDemand}},
	{ConditionCoolDown, []string{GroupCoolDown}},
	{ConditionBlockLoading, []string{GroupInitialCondition, GroupTargetDemand, GroupDemandIncrease}},
	{ConditionStartUp, []string{GroupStartUp}},
	{ConditionStatus, []string{GroupStatus}},
}

// Diagnosis is the structured outcome of the leave-one-group-out procedure.
type Diagnosis struct {
	// Feasible records, per constraint group, whether removing that group
	// alone made the problem solvable.
	Feasible map[string]bool

	// Probes holds each probe's solution for inspection. A probe that
	// failed outright has a solution with its error status.
	Probes map[string]*milp.Solution

	// Condition is the first matching operational classification.
	Condition string
}

// Diagnose rebuilds the problem once per constraint group with that group
// removed, solves each probe, and classifies the feasibility pattern. Probe
// failures other than infeasibility are logged and scored as infeasible so
// one broken probe cannot block classification.
func Diagnose(ctx context.Context, solver milp.Solver, m *milp.Model, opts Options) *Diagnosis {
	diag := &Diagnosis{
		Feasible: make(map[string]bool, len(DiagnosisGroups)),
		Probes:   make(map[string]*milp.Solution, len(DiagnosisGroups)),
	}

	workers := opts.DiagnosisWorkers
	if workers < 1 {
		workers = 1
	}
	if workers == 1 {
		for _, group := range DiagnosisGroups {
			diag.Probes[group] = probe(ctx, solver, m, group, opts)
		}
	} else {
		var wg sync.WaitGroup
		var mu sync.Mutex
		sem := make(chan struct{}, workers)
		for _, group := range DiagnosisGroups {
			group := group
			wg.Add(1)
			sem <- struct{}{}
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				sol := probe(ctx, solver, m, group, opts)
				mu.Lock()
				diag.Probes[group] = sol
				mu.Unlock()
			}()
		}
		wg.Wait()
	}

	for group, sol := range diag.Probes {
		diag.Feasible[group] = sol != nil && sol.Status == milp.StatusOptimal
	}
	diag.Condition = classify(diag.Feasible)
	slog.Info("infeasibility classified", "condition", diag.Condition)
	return diag
}

// probe solves the problem with one group deactivated.
func probe(ctx context.Context, solver milp.Solver, m *milp.Model, group string, opts Options) *milp.Solution {
	slog.Info("optimising with constraint group deactivated", "group", group)
	sol, err := solver.Solve(ctx, m, milp.Options{Omit: group, Budget: opts.SolveBudget})
	if err != nil {
		slog.Warn("probe solve failed", "group", group, "error", err)
		return &milp.Solution{Status: milp.StatusSolverError, Err: err}
	}
	switch sol.Status {
	case milp.StatusOptimal:
		slog.Info("probe feasible", "group", group)
	case milp.StatusInfeasible:
		slog.Info("probe infeasible", "group", group)
	default:
		slog.Warn("probe did not terminate cleanly", "group", group, "status", sol.Status, "error", sol.Err)
	}
	return sol
}

// classify matches the feasibility map against the ordered patterns. A
// pattern matches when removal restored feasibility for exactly its groups:
// every named group feasible, every other enumerated group not.
func classify(feasible map[string]bool) string {
	for _, pattern := range classificationPatterns {
		if matchesExactly(feasible, pattern.groups) {
			return pattern.condition
		}
	}
	return ConditionUnknown
}

func matchesExactly(feasible map[string]bool, groups []string) bool {
	want := make(map[string]bool, len(groups))
	for _, g := range groups {
		want[g] = true
	}
	for _, g := range DiagnosisGroups {
		if feasible[g] != want[g] {
			return false
		}
	}
	return true
}

package commitment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"blockload-solver/internal/milp"
)

// stubSolver scripts solve outcomes by omitted group and records calls.
type stubSolver struct {
	mu    sync.Mutex
	calls []milp.Options

	outcome func(opts milp.Options) (*milp.Solution, error)
}

func (s *stubSolver) Solve(_ context.Context, _ *milp.Model, opts milp.Options) (*milp.Solution, error) {
	s.mu.Lock()
	s.calls = append(s.calls, opts)
	s.mu.Unlock()
	return s.outcome(opts)
}

// feasibleWhenOmitting scripts a solver that is optimal exactly when one of
// the given groups is removed, infeasible otherwise.
func feasibleWhenOmitting(groups ...string) func(milp.Options) (*milp.Solution, error) {
	set := map[string]bool{}
	for _, g := range groups {
		set[g] = true
	}
	return func(opts milp.Options) (*milp.Solution, error) {
		if set[opts.Omit] {
			return &milp.Solution{Status: milp.StatusOptimal}, nil
		}
		return &milp.Solution{Status: milp.StatusInfeasible}, nil
	}
}

func TestDiagnose_Classification(t *testing.T) {
	tests := []struct {
		name          string
		feasibleUnder []string
		want          string
	}{
		{
			name:          "insufficient power",
			feasibleUnder: []string{GroupMaxPower, GroupDemand},
			want:          ConditionInsufficientPower,
		},
		{
			name:          "cool down",
			feasibleUnder: []string{GroupCoolDown},
			want:          ConditionCoolDown,
		},
		{
			name:          "block loading",
			feasibleUnder: []string{GroupInitialCondition, GroupTargetDemand, GroupDemandIncrease},
			want:          ConditionBlockLoading,
		},
		{
			name:          "start up",
			feasibleUnder: []string{GroupStartUp},
			want:          ConditionStartUp,
		},
		{
			name:          "status",
			feasibleUnder: []string{GroupStatus},
			want:          ConditionStatus,
		},
		{
			name:          "extra feasible group breaks the pattern",
			feasibleUnder: []string{GroupCoolDown, GroupStartUp},
			want:          ConditionUnknown,
		},
		{
			name:          "nothing restores feasibility",
			feasibleUnder: nil,
			want:          ConditionUnknown,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			solver := &stubSolver{outcome: feasibleWhenOmitting(tc.feasibleUnder...)}
			diag := Diagnose(context.Background(), solver, milp.New("probe"), Options{})

			assert.Equal(t, tc.want, diag.Condition)
			for _, group := range DiagnosisGroups {
				wantFeasible := false
				for _, g := range tc.feasibleUnder {
					if g == group {
						wantFeasible = true
					}
				}
				assert.Equal(t, wantFeasible, diag.Feasible[group], "group %s", group)
			}
		})
	}
}

func TestDiagnose_ProbesRunInEnumerationOrder(t *testing.T) {
	solver := &stubSolver{outcome: feasibleWhenOmitting()}
	Diagnose(context.Background(), solver, milp.New("probe"), Options{})

	var omitted []string
	for _, call := range solver.calls {
		omitted = append(omitted, call.Omit)
	}
	assert.Equal(t, DiagnosisGroups, omitted)
}

func TestDiagnose_BudgetPassedToEveryProbe(t *testing.T) {
	solver := &stubSolver{outcome: feasibleWhenOmitting()}
	Diagnose(context.Background(), solver, milp.New("probe"), Options{SolveBudget: 42 * time.Second})

	assert.Len(t, solver.calls, len(DiagnosisGroups))
	for _, call := range solver.calls {
		assert.Equal(t, 42*time.Second, call.Budget)
	}
}

func TestDiagnose_ProbeErrorsCountAsInfeasible(t *testing.T) {
	// One probe dying with a back-end error must not block classification.
	solver := &stubSolver{outcome: func(opts milp.Options) (*milp.Solution, error) {
		if opts.Omit == GroupCoolDown {
			return nil, errors.New("lp_solve exploded")
		}
		return &milp.Solution{Status: milp.StatusInfeasible}, nil
	}}
	diag := Diagnose(context.Background(), solver, milp.New("probe"), Options{})

	assert.False(t, diag.Feasible[GroupCoolDown])
	assert.Equal(t, ConditionUnknown, diag.Condition)
	assert.Equal(t, milp.StatusSolverError, diag.Probes[GroupCoolDown].Status)
}

func TestDiagnose_ProbeTimeoutCountsAsInfeasible(t *testing.T) {
	solver := &stubSolver{outcome: func(opts milp.Options) (*milp.Solution, error) {
		if opts.Omit == GroupStartUp {
			return &milp.Solution{Status: milp.StatusTimeout}, nil
		}
		return feasibleWhenOmitting(GroupCoolDown)(opts)
	}}
	diag := Diagnose(context.Background(), solver, milp.New("probe"), Options{})

	assert.False(t, diag.Feasible[GroupStartUp])
	assert.Equal(t, ConditionCoolDown, diag.Condition)
}

func TestDiagnose_ParallelWorkersAgreeWithSequential(t *testing.T) {
	outcome := feasibleWhenOmitting(GroupInitialCondition, GroupTargetDemand, GroupDemandIncrease)

	sequential := Diagnose(context.Background(), &stubSolver{outcome: outcome}, milp.New("probe"), Options{})
	parallel := Diagnose(context.Background(), &stubSolver{outcome: outcome}, milp.New("probe"), Options{DiagnosisWorkers: 4})

	assert.Equal(t, ConditionBlockLoading, sequential.Condition)
	assert.Equal(t, sequential.Condition, parallel.Condition)
	assert.Equal(t, sequential.Feasible, parallel.Feasible)
	assert.Len(t, parallel.Probes, len(DiagnosisGroups))
}

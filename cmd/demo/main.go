package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"blockload-solver/internal/adapter"
	"blockload-solver/internal/commitment"
	"blockload-solver/internal/milp"
	"blockload-solver/internal/model"
)

// A self-contained restoration scenario: two units of different fuel cost,
// flat 100 MW forecast, and two block-loading checkpoints forcing a
// staircase to 60% after 1.5h and 100% after 3.5h.
func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	const T = 8

	demand := make(model.Series, T)
	zero := make(model.Series, T)
	for t := 0; t < T; t++ {
		ts := start.Add(time.Duration(t) * model.SettlementPeriod)
		demand[t] = model.SeriesPoint{Timestamp: ts, MW: 100}
		zero[t] = model.SeriesPoint{Timestamp: ts}
	}

	in, err := adapter.BuildInputs(adapter.RawInputs{
		Demand: demand,
		Wind:   zero,
		Solar:  zero,
		Fleet: model.Fleet{
			{Name: "coal-a", PminMW: 0, PmaxMW: 100, FuelCost: 5, MinOn: 1, MinOff: 1},
			{Name: "gas-b", PminMW: 0, PmaxMW: 100, FuelCost: 20, MinOn: 1, MinOff: 1},
		},
		Targets: []model.RestartTarget{
			{Days: 1.5 / 24, Proportion: 0.6},
			{Days: 3.5 / 24, Proportion: 1.0},
		},
		BlockLimitMW: 30,
	})
	if err != nil {
		panic(err)
	}

	result, err := commitment.Solve(context.Background(), milp.NewLPSolve(), in, commitment.Options{})
	if err != nil {
		panic(err)
	}

	if result.Primal == nil {
		fmt.Printf("status: %s\n", result.Status)
		if result.Diagnosis != nil {
			fmt.Printf("diagnosis: %s\n", result.Diagnosis.Condition)
		}
		return
	}

	fmt.Printf("status: optimal, objective: %.2f\n\n", result.Primal.Objective)
	fmt.Printf("%-4s %-8s %-10s %-10s %-12s %-12s\n", "t", "target", "served", "units_on", "coal-a_mw", "gas-b_mw")
	for t := 0; t < in.T(); t++ {
		fmt.Printf("%-4d %-8.1f %-10.1f %-10d %-12.1f %-12.1f\n",
			t, in.TargetMW[t], result.Primal.ServedMW[t], result.Primal.UnitsOn(t),
			result.Primal.Dispatch[0][t], result.Primal.Dispatch[1][t])
	}
}

package analysis

import (
	"math"

	"blockload-solver/internal/commitment"
	"blockload-solver/internal/model"
)

// CostBreakdown decomposes a solved schedule's objective into its penalty
// and operating components and summarises per-unit activity. Monetary
// figures follow the model's units convention: fuel is £/MWh applied to MW
// dispatch per half-hour step.
type CostBreakdown struct {
	PenaltyCost float64
	FuelCost    float64
	StartupCost float64
	Total       float64

	// ServedShortfallMW is the worst single-timestep gap between the
	// target curve and the served block demand.
	ServedShortfallMW float64

	Units []UnitSummary
}

// UnitSummary is one unit's activity over the horizon.
type UnitSummary struct {
	Name string

	CommittedPeriods int
	Startups         int

	EnergyMWh   float64 // dispatch integrated over half-hour steps
	PeakMW      float64
	FuelCost    float64
	StartupCost float64

	// Utilisation is energy delivered over energy deliverable while
	// committed (0 when never committed).
	Utilisation float64
}

// Compute builds the breakdown for a solved primal.
func Compute(in *model.Inputs, primal *model.Primal) CostBreakdown {
	b := CostBreakdown{}

	for t := 0; t < in.T(); t++ {
		b.PenaltyCost += commitment.PenaltyWeight * math.Abs(primal.ServedMW[t]-in.TargetMW[t])
		if gap := in.TargetMW[t] - primal.ServedMW[t]; gap > b.ServedShortfallMW {
			b.ServedShortfallMW = gap
		}
	}

	stepHours := model.SettlementPeriod.Hours()
	for i, unit := range in.Fleet {
		s := UnitSummary{Name: unit.Name}
		committedMWh := 0.0
		for t := 0; t < in.T(); t++ {
			p := primal.Dispatch[i][t]
			if primal.On[i][t] {
				s.CommittedPeriods++
				committedMWh += unit.PmaxMW * stepHours
			}
			if primal.Started[i][t] {
				s.Startups++
			}
			s.EnergyMWh += p * stepHours
			if p > s.PeakMW {
				s.PeakMW = p
			}
			s.FuelCost += unit.FuelCost * p
		}
		s.StartupCost = unit.StartCost * float64(s.Startups)
		if committedMWh > 0 {
			s.Utilisation = s.EnergyMWh / committedMWh
		}
		b.FuelCost += s.FuelCost
		b.StartupCost += s.StartupCost
		b.Units = append(b.Units, s)
	}

	b.Total = b.PenaltyCost + b.FuelCost + b.StartupCost
	return b
}

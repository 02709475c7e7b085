package models

import "time"

// SolveResponse is the outcome of a solve run. Objective, Cost and Schedule
// are present only for optimal runs; Diagnosis only for non-optimal ones.
type SolveResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`

	Objective *float64     `json:"objective,omitempty"`
	Cost      *CostSummary `json:"cost,omitempty"`

	Schedule []ScheduleRow `json:"schedule,omitempty"`

	Diagnosis *DiagnosisResult `json:"diagnosis,omitempty"`
}

// CostSummary mirrors analysis.CostBreakdown for transport.
type CostSummary struct {
	PenaltyCost float64           `json:"penalty_cost"`
	FuelCost    float64           `json:"fuel_cost"`
	StartupCost float64           `json:"startup_cost"`
	Total       float64           `json:"total"`
	Units       []UnitCostSummary `json:"units"`
}

type UnitCostSummary struct {
	Name             string  `json:"name"`
	CommittedPeriods int     `json:"committed_periods"`
	Startups         int     `json:"startups"`
	EnergyMWh        float64 `json:"energy_mwh"`
	PeakMW           float64 `json:"peak_mw"`
	FuelCost         float64 `json:"fuel_cost"`
	StartupCost      float64 `json:"startup_cost"`
	Utilisation      float64 `json:"utilisation"`
}

// ScheduleRow is one timestep of the solved schedule.
type ScheduleRow struct {
	Index        int            `json:"index"`
	TimestampUTC time.Time      `json:"timestamp_utc"`
	DemandMW     float64        `json:"demand_mw"`
	RenewablesMW float64        `json:"renewables_mw"`
	TargetMW     float64        `json:"target_mw"`
	ServedMW     float64        `json:"served_mw"`
	Units        []UnitDispatch `json:"units"`
}

type UnitDispatch struct {
	Name       string  `json:"name"`
	On         bool    `json:"on"`
	Started    bool    `json:"started"`
	DispatchMW float64 `json:"dispatch_mw"`
}

// DiagnosisResult reports the leave-one-group-out classification.
type DiagnosisResult struct {
	PerGroupFeasibility map[string]bool `json:"per_group_feasibility"`
	Condition           string          `json:"condition"`
}

// FleetInfo describes one fleet definition available on disk.
type FleetInfo struct {
	ID    string      `json:"id"`
	Units []UnitInput `json:"units"`
}

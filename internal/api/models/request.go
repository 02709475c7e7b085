package models

import "time"

// SolveRequest is the request body for running a block-loading solve.
type SolveRequest struct {
	Series         SeriesInput   `json:"series" binding:"required"`
	Fleet          []UnitInput   `json:"fleet" binding:"required"`
	RestartTargets []TargetInput `json:"restart_targets,omitempty"`
	BlockLimitMW   float64       `json:"block_limit_mw" binding:"required"`
	Options        SolveOptions  `json:"options,omitempty"`
}

// SeriesInput carries the three exogenous half-hourly series. All three
// must be aligned on the same timestamps.
type SeriesInput struct {
	Demand []PointInput `json:"demand" binding:"required"`
	Wind   []PointInput `json:"wind" binding:"required"`
	Solar  []PointInput `json:"solar" binding:"required"`
}

type PointInput struct {
	TimestampUTC time.Time `json:"timestamp_utc" binding:"required"`
	MW           float64   `json:"mw"`
}

// UnitInput defines one dispatchable unit.
type UnitInput struct {
	Name          string  `json:"name" binding:"required"`
	PminMW        float64 `json:"pmin_mw"`
	PmaxMW        float64 `json:"pmax_mw"`
	StartCost     float64 `json:"start_cost"`
	FuelCost      float64 `json:"fuel_cost"`
	MinOnPeriods  int     `json:"min_on_periods"`
	MinOffPeriods int     `json:"min_off_periods"`
}

// TargetInput is one restart target: reach proportion of forecast demand
// days*24h after the horizon start.
type TargetInput struct {
	Days       float64 `json:"days"`
	Proportion float64 `json:"proportion"`
}

// SolveOptions contains optional solve parameters.
type SolveOptions struct {
	BudgetSeconds         float64 `json:"budget_seconds,omitempty"`
	TightenBigM           bool    `json:"tighten_big_m,omitempty"`
	LinkStartupIndicators bool    `json:"link_startup_indicators,omitempty"`
	DiagnosisWorkers      int     `json:"diagnosis_workers,omitempty"`
	IncludeSchedule       bool    `json:"include_schedule,omitempty"` // default: false
}

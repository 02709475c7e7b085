package model

import (
	"errors"
	"fmt"
	"time"
)

// SettlementPeriod is the fixed timestep of every series the solver consumes.
const SettlementPeriod = 30 * time.Minute

// SeriesPoint is one half-hour observation of an exogenous MW series.
// Timestamps are UTC.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp_utc"`
	MW        float64   `json:"mw"`
}

// Series is an ordered half-hourly MW series (demand, wind or solar).
type Series []SeriesPoint

func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.MW
	}
	return out
}

func (s Series) Timestamps() []time.Time {
	out := make([]time.Time, len(s))
	for i, p := range s {
		out[i] = p.Timestamp
	}
	return out
}

// Validate checks that the series is non-empty, strictly half-hourly and
// non-negative.
func (s Series) Validate() error {
	if len(s) == 0 {
		return errors.New("series is empty")
	}
	for i, p := range s {
		if p.MW < 0 {
			return fmt.Errorf("negative MW %.3f at index %d", p.MW, i)
		}
		if i == 0 {
			continue
		}
		step := p.Timestamp.Sub(s[i-1].Timestamp)
		if step != SettlementPeriod {
			return fmt.Errorf("timestep %v between index %d and %d, want %v", step, i-1, i, SettlementPeriod)
		}
	}
	return nil
}

// Aligned reports whether the two series cover the same timestamps.
func (s Series) Aligned(other Series) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Timestamp.Equal(other[i].Timestamp) {
			return false
		}
	}
	return true
}

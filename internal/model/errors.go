package model

import "errors"

// Input error taxonomy. The adapter wraps these with context via fmt.Errorf
// so callers can branch with errors.Is.
var (
	// ErrInvalidInput covers shape mismatches, misaligned timestamps,
	// out-of-range parameters and other input-validation failures.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCheckpointCollision is returned when two restart targets snap to
	// the same timestep.
	ErrCheckpointCollision = errors.New("checkpoint collision")
)

package sim

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("magsim: invalid state (NaN or Inf detected)")

	// ErrInvalidTimestep indicates a non-positive dt.
	ErrInvalidTimestep = errors.New("magsim: timestep must be positive")

	// ErrInvalidDuration indicates a non-positive run duration.
	ErrInvalidDuration = errors.New("magsim: duration must be positive")

	// ErrDimensionMismatch indicates the initial state does not match the
	// system's state dimension.
	ErrDimensionMismatch = errors.New("magsim: state dimension mismatch")
)

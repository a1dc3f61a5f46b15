package routing

import "errors"

// Sentinel errors returned by the engine. Callers match them with
// errors.Is; the wrapped message carries the violated precondition.
var (
	// ErrInvalidTopology reports malformed index arrays: mismatched
	// start/end lengths or location ids outside the matrix.
	ErrInvalidTopology = errors.New("routing: invalid topology")

	// ErrConstraintMismatch reports inconsistent constraint arrays, a
	// non-square matrix, fewer than one vehicle or fewer than two
	// locations. Detected before any search runs.
	ErrConstraintMismatch = errors.New("routing: constraint mismatch")

	// ErrNoSolution reports that the search finished without a feasible
	// assignment. The engine cannot tell a truly infeasible problem from
	// one that ran out of time, so both surface as this error.
	ErrNoSolution = errors.New("routing: no solution found")
)

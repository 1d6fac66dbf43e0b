package ilpform

import "errors"

var (
	// ErrNoSolution reports a search stopped by a limit before any
	// incumbent was found.
	ErrNoSolution = errors.New("ilpform: no solution within limits")
	// ErrSubProblem reports an excluded segment on an active chart.
	ErrSubProblem = errors.New("ilpform: inconsistent sub-problem")
)

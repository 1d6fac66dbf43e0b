package flownet

import "errors"

var (
	// ErrInvalidQuantization reports counts that violate the side minimum or
	// boundary parity of a chart. It signals a builder/solver mismatch.
	ErrInvalidQuantization = errors.New("flownet: invalid quantization")
	// ErrCostMismatch reports a solver cost that disagrees with the tracked
	// per-category costs.
	ErrCostMismatch = errors.New("flownet: solver cost does not match tracked costs")
	// ErrUnsupportedValence reports an active chart outside valence 3..6.
	ErrUnsupportedValence = errors.New("flownet: unsupported valence")
	// ErrSubProblem reports an inconsistent result/mask combination, such as
	// an excluded segment on an active chart.
	ErrSubProblem = errors.New("flownet: inconsistent sub-problem")
)

package ilp

import "errors"

var (
	// ErrEmptyModel is returned for a model without variables.
	ErrEmptyModel = errors.New("ilp: model has no variables")
	// ErrBadBounds reports an infinite lower bound, lo > hi, or fractional
	// bounds on an integer variable.
	ErrBadBounds = errors.New("ilp: invalid variable bounds")
	// ErrBadRow reports a row that references an unknown variable or carries
	// a non-finite coefficient.
	ErrBadRow = errors.New("ilp: invalid row")
	// ErrNonConvex reports a cost with negative weight or a cost attached to
	// a continuous variable.
	ErrNonConvex = errors.New("ilp: cost is not a convex integer cost")
	// ErrUnbounded reports an objective that decreases without limit.
	ErrUnbounded = errors.New("ilp: objective is unbounded")
)

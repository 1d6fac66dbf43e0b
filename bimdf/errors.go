package bimdf

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFlow is the category of every validity failure.
	ErrInvalidFlow = errors.New("bimdf: invalid flow")
	// ErrNoFlow is returned when the solver finds no flow within its limits.
	ErrNoFlow = errors.New("bimdf: no flow found")
)

// BoundError reports a flow value outside its edge bounds.
type BoundError struct {
	Edge         Edge
	Value        int
	Lower, Upper int
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("bimdf: edge %d carries %d outside [%d, %d]", e.Edge, e.Value, e.Lower, e.Upper)
}

func (e *BoundError) Unwrap() error { return ErrInvalidFlow }

// BalanceError reports a node whose ends do not cancel.
type BalanceError struct {
	Node   Node
	Excess int
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("bimdf: node %d is unbalanced by %d", e.Node, e.Excess)
}

func (e *BalanceError) Unwrap() error { return ErrInvalidFlow }

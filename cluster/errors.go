package cluster

import "errors"

var (
	// ErrConflict reports a segment fixed to different counts in a
	// sub-result and the result it is merged into.
	ErrConflict = errors.New("cluster: conflicting segment counts")
	// ErrLength reports results of different lengths.
	ErrLength = errors.New("cluster: result length mismatch")
)

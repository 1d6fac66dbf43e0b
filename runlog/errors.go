package runlog

import "errors"

// ErrNotFound reports an unknown run ID.
var ErrNotFound = errors.New("runlog: run not found")

// SPDX-License-Identifier: MIT
// Package: quadquant/builder
//
// errors.go - sentinel errors for the builder package.
//
// Callers branch with errors.Is; constructors attach context with %w.

package builder

import (
	"errors"
	"fmt"
)

// ErrTooFewCharts indicates that a size parameter (rows, cols, cells) is
// below the allowed minimum.
var ErrTooFewCharts = errors.New("builder: parameter too small")

// ErrBadValence indicates a valence outside the range a constructor supports.
var ErrBadValence = errors.New("builder: unsupported valence")

// builderErrorf prefixes err with the constructor name.
func builderErrorf(method string, err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), err)
}

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema reports a value whose YAML type does not match its field.
	ErrSchema = errors.New("config: schema mismatch")
	// ErrInvalid reports a well-typed value outside its allowed range.
	ErrInvalid = errors.New("config: invalid value")
)

// Error locates a configuration failure.
type Error struct {
	Path  string
	Field string
	Err   error
}

func (e *Error) Error() string {
	path := e.Path
	if path == "" {
		path = "<input>"
	}
	if e.Field == "" {
		return fmt.Sprintf("config: %s: %v", path, e.Err)
	}

	return fmt.Sprintf("config: %s: field %q: %v", path, e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func invalid(field, format string, args ...interface{}) error {
	return &Error{Field: field, Err: fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...)}
}

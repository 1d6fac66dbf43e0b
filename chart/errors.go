package chart

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed reports an inconsistent topology or surface description.
	ErrMalformed = errors.New("chart: malformed input")
	// ErrUndecided is returned by Result.Counts when a segment is not fixed.
	ErrUndecided = errors.New("chart: segment has no subdivision")
)

// InputError locates a precondition violation in the input.
type InputError struct {
	Chart   ChartID
	Segment SegmentID
	Reason  string
}

func (e *InputError) Error() string {
	switch {
	case e.Chart != NoChart && e.Segment >= 0:
		return fmt.Sprintf("chart: chart %d segment %d: %s", e.Chart, e.Segment, e.Reason)
	case e.Chart != NoChart:
		return fmt.Sprintf("chart: chart %d: %s", e.Chart, e.Reason)
	case e.Segment >= 0:
		return fmt.Sprintf("chart: segment %d: %s", e.Segment, e.Reason)
	}

	return "chart: " + e.Reason
}

// Unwrap makes errors.Is(err, ErrMalformed) hold for every InputError.
func (e *InputError) Unwrap() error { return ErrMalformed }

func chartErr(c ChartID, format string, args ...interface{}) error {
	return &InputError{Chart: c, Segment: -1, Reason: fmt.Sprintf(format, args...)}
}

func segmentErr(s SegmentID, format string, args ...interface{}) error {
	return &InputError{Chart: NoChart, Segment: s, Reason: fmt.Sprintf(format, args...)}
}

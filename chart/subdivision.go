package chart

import "fmt"

type subdivisionKind uint8

const (
	kindUnknown subdivisionKind = iota
	kindFixed
	kindExcluded
)

// Subdivision is the state of one segment: Unknown, Fixed(n) or Excluded.
// The zero value is Unknown.
type Subdivision struct {
	kind  subdivisionKind
	value int
}

// Unknown is a segment still to be decided by the solver.
func Unknown() Subdivision { return Subdivision{kind: kindUnknown} }

// Fixed is a decided segment with n subdivisions.
func Fixed(n int) Subdivision { return Subdivision{kind: kindFixed, value: n} }

// Excluded is a segment that belongs to another sub-problem.
func Excluded() Subdivision { return Subdivision{kind: kindExcluded} }

func (s Subdivision) IsUnknown() bool  { return s.kind == kindUnknown }
func (s Subdivision) IsFixed() bool    { return s.kind == kindFixed }
func (s Subdivision) IsExcluded() bool { return s.kind == kindExcluded }

// Value returns n for Fixed(n) and false otherwise.
func (s Subdivision) Value() (int, bool) {
	return s.value, s.kind == kindFixed
}

func (s Subdivision) String() string {
	switch s.kind {
	case kindFixed:
		return fmt.Sprintf("fixed(%d)", s.value)
	case kindExcluded:
		return "excluded"
	}

	return "unknown"
}

// Result maps SegmentID to Subdivision.
type Result []Subdivision

// NewResult returns n Unknown subdivisions.
func NewResult(n int) Result { return make(Result, n) }

// Clone copies r.
func (r Result) Clone() Result {
	out := make(Result, len(r))
	copy(out, r)

	return out
}

// Counts returns the integer vector, failing on any non-fixed entry.
func (r Result) Counts() ([]int, error) {
	out := make([]int, len(r))
	for i, s := range r {
		v, ok := s.Value()
		if !ok {
			return nil, fmt.Errorf("%w: segment %d is %s", ErrUndecided, i, s)
		}
		out[i] = v
	}

	return out, nil
}

// Values returns the integer vector with 0 for entries that are not fixed.
func (r Result) Values() []int {
	out := make([]int, len(r))
	for i, s := range r {
		out[i], _ = s.Value()
	}

	return out
}

// Unknowns counts Unknown entries.
func (r Result) Unknowns() int {
	n := 0
	for _, s := range r {
		if s.IsUnknown() {
			n++
		}
	}

	return n
}

// FromCounts wraps a count vector as a fully fixed Result.
func FromCounts(counts []int) Result {
	out := make(Result, len(counts))
	for i, v := range counts {
		out[i] = Fixed(v)
	}

	return out
}

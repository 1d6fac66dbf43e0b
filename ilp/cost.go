package ilp

import "math"

// Cost is a convex, non-negative function of an integer variable.
// Guess is a point near the minimiser, used to seed the chord window.
type Cost interface {
	Eval(x float64) float64
	Guess() float64
}

// Zero costs nothing. Estimate is the expected value of the variable.
type Zero struct {
	Estimate float64
}

func (z Zero) Eval(float64) float64 { return 0 }
func (z Zero) Guess() float64       { return z.Estimate }

// AbsDeviation is Weight * |x - Target|.
type AbsDeviation struct {
	Target float64
	Weight float64
}

func (a AbsDeviation) Eval(x float64) float64 { return a.Weight * math.Abs(x-a.Target) }
func (a AbsDeviation) Guess() float64         { return a.Target }

// QuadDeviation is Weight * (x - Target)^2.
type QuadDeviation struct {
	Target float64
	Weight float64
}

func (q QuadDeviation) Eval(x float64) float64 {
	d := x - q.Target

	return q.Weight * d * d
}

func (q QuadDeviation) Guess() float64 { return q.Target }

// affine returns slope and offset when c is affine on [lo, +inf).
func affine(c Cost, lo float64) (slope, offset float64, ok bool) {
	switch f := c.(type) {
	case Zero:
		return 0, 0, true
	case AbsDeviation:
		if f.Weight == 0 {
			return 0, 0, true
		}
		if f.Target <= lo {
			return f.Weight, -f.Weight * f.Target, true
		}
	case QuadDeviation:
		if f.Weight == 0 {
			return 0, 0, true
		}
	}

	return 0, 0, false
}

// weight returns the weight of the built-in costs, 0 for others.
func weight(c Cost) float64 {
	switch f := c.(type) {
	case AbsDeviation:
		return f.Weight
	case QuadDeviation:
		return f.Weight
	}

	return 0
}

package singularity

import "github.com/katalvlaran/quadquant/chart"

// DirectedQuad is an intermediate chart of a pair, entered through Sides[0]
// and left through the opposite Sides[1].
type DirectedQuad struct {
	Chart chart.ChartID
	Sides [2]int
}

// Pair links side Sides[0] of Charts[0] with side Sides[1] of Charts[1].
type Pair struct {
	Charts [2]chart.ChartID
	Sides  [2]int
	Quads  []DirectedQuad
}

// Info is the pairing of one solve attempt.
type Info struct {
	Pairs []Pair
	// Paired[c][s] is true when side s of chart c belongs to a pair.
	Paired    [][]bool
	SelfPairs int
}

// Options restricts tracing to a sub-problem.
type Options struct {
	// Result marks decided segments; nil treats every segment as Unknown.
	Result chart.Result
	// Mask selects active charts; nil selects all.
	Mask chart.Mask
}

// IsPaired reports whether side s of chart c belongs to a pair.
func (in *Info) IsPaired(c chart.ChartID, s int) bool {
	if in == nil || c < 0 || int(c) >= len(in.Paired) {
		return false
	}

	return in.Paired[c][s]
}

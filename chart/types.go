package chart

// ChartID indexes Topology.Charts.
type ChartID int

// SegmentID indexes Topology.Segments.
type SegmentID int

// NoChart marks the mesh boundary on the far side of a segment.
const NoChart ChartID = -1

// Segment is a boundary piece shared by up to two charts.
type Segment struct {
	Length    float64
	Charts    [2]ChartID
	SideIndex [2]int
	Vertices  [2]int
}

// OnBoundary reports whether one side of the segment is the mesh boundary.
func (s Segment) OnBoundary() bool {
	return s.Charts[0] == NoChart || s.Charts[1] == NoChart
}

// Other returns the chart and side index on the far side of s as seen from c.
// ok is false when c is not incident to s.
func (s Segment) Other(c ChartID) (ChartID, int, bool) {
	switch c {
	case s.Charts[0]:
		return s.Charts[1], s.SideIndex[1], true
	case s.Charts[1]:
		return s.Charts[0], s.SideIndex[0], true
	}

	return NoChart, -1, false
}

// Side is an ordered run of segments between two chart corners.
type Side struct {
	Segments []SegmentID
	Length   float64
	Vertices [2]int
}

// Chart is one patch of the decomposition.
type Chart struct {
	Sides      []Side
	Segments   []SegmentID
	Adjacent   []ChartID
	EdgeLength float64
	// Unused charts carry no faces and are skipped by every solver.
	Unused bool
}

// Valence is the number of sides.
func (c *Chart) Valence() int { return len(c.Sides) }

// Topology is the flat, read-only chart/segment graph.
type Topology struct {
	Charts   []Chart
	Segments []Segment
}

// Active reports whether chart c takes part in a solve restricted by mask.
func (t *Topology) Active(c ChartID, mask Mask) bool {
	if c == NoChart {
		return false
	}
	if t.Charts[c].Unused {
		return false
	}

	return mask.Has(c)
}

// SideSum adds the counts of the segments on one side.
func (t *Topology) SideSum(counts []int, c ChartID, side int) int {
	sum := 0
	for _, sid := range t.Charts[c].Sides[side].Segments {
		sum += counts[sid]
	}

	return sum
}

// SideSums returns the per-side sums of chart c.
func (t *Topology) SideSums(counts []int, c ChartID) []int {
	ch := &t.Charts[c]
	out := make([]int, len(ch.Sides))
	for i := range ch.Sides {
		out[i] = t.SideSum(counts, c, i)
	}

	return out
}

// BoundarySum adds the counts around the whole boundary of chart c.
func (t *Topology) BoundarySum(counts []int, c ChartID) int {
	sum := 0
	for i := range t.Charts[c].Sides {
		sum += t.SideSum(counts, c, i)
	}

	return sum
}

// Target converts a segment length into a subdivision target in chart c.
func (t *Topology) Target(sid SegmentID, c ChartID) float64 {
	return t.Segments[sid].Length / t.Charts[c].EdgeLength
}

// Mask selects the charts of a sub-problem. A nil Mask selects every chart.
type Mask []bool

// Has reports whether c is selected.
func (m Mask) Has(c ChartID) bool {
	if m == nil {
		return true
	}

	return c >= 0 && int(c) < len(m) && m[c]
}

// Size counts selected charts; n is the total chart count used for a nil mask.
func (m Mask) Size(n int) int {
	if m == nil {
		return n
	}
	k := 0
	for _, b := range m {
		if b {
			k++
		}
	}

	return k
}

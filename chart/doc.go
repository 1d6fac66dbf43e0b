// Package chart models the patch topology that quantization operates on.
//
// A surface is partitioned into charts (topological disks). Every chart has an
// ordered ring of sides, and every side is an ordered run of one or more
// segments. A segment is the atomic boundary unit: it is shared by at most two
// charts, or by one chart and the mesh boundary (NoChart).
//
// All cross references are integer indices into the flat Charts and Segments
// slices of a Topology:
//
//	Chart.Sides[i].Segments  → []SegmentID
//	Segment.Charts           → [2]ChartID   (second may be NoChart)
//	Segment.SideIndex        → [2]int       (side index inside each chart)
//	Chart.Adjacent           → []ChartID    (lookup only, derived)
//
// A Topology is built once, either from explicit chart/segment specs
// (Assemble, ReadTopology) or from a surface loop description (Build), and
// is read-only afterwards. Segment lengths are computed exactly once.
//
// The output of quantization is a Result: one Subdivision per segment, a tagged
// union of Unknown, Fixed(n) and Excluded.
package chart

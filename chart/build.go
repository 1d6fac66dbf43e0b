package chart

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Patch is one region of a traced surface: its boundary vertex loop in
// counter-clockwise order and the subset of loop vertices that are corners.
type Patch struct {
	Loop       []int
	Corners    []int
	EdgeLength float64
	Unused     bool
}

// Surface is the output of the tracing stage.
type Surface struct {
	Vertices []r3.Vec
	Patches  []Patch
}

type dirEdge struct{ a, b int }

func undirected(a, b int) dirEdge {
	if a > b {
		a, b = b, a
	}

	return dirEdge{a, b}
}

// Build derives the Topology of a traced surface. Sides run between
// consecutive corners. A side is cut into segments wherever the patch across
// the boundary changes or a vertex is a corner of any patch, so both patches
// see the same segments. Segment lengths are measured once here.
func Build(s Surface) (*Topology, error) {
	owner := make(map[dirEdge]ChartID)
	isCorner := make(map[int]bool)
	for pi, p := range s.Patches {
		cid := ChartID(pi)
		if len(p.Loop) < 3 {
			return nil, chartErr(cid, "boundary loop has %d vertices", len(p.Loop))
		}
		for i, a := range p.Loop {
			if a < 0 || a >= len(s.Vertices) {
				return nil, chartErr(cid, "vertex %d out of range", a)
			}
			e := dirEdge{a, p.Loop[(i+1)%len(p.Loop)]}
			if e.a == e.b {
				return nil, chartErr(cid, "degenerate boundary edge at vertex %d", a)
			}
			if prev, dup := owner[e]; dup {
				return nil, chartErr(cid, "edge %d-%d already bounds patch %d with the same orientation", e.a, e.b, prev)
			}
			owner[e] = cid
		}
		for _, c := range p.Corners {
			isCorner[c] = true
		}
	}

	across := func(a, b int) ChartID {
		if c, ok := owner[dirEdge{b, a}]; ok {
			return c
		}

		return NoChart
	}

	var (
		segSpecs  []SegmentSpec
		segEdges  []int
		edgeSeg   = make(map[dirEdge]SegmentID)
		chartSpec = make([]ChartSpec, len(s.Patches))
	)
	for pi, p := range s.Patches {
		cid := ChartID(pi)
		loop, err := rotateToCorner(cid, p)
		if err != nil {
			return nil, err
		}
		pos := make(map[int]int, len(loop))
		for i, v := range loop {
			pos[v] = i
		}
		cornerAt := make([]int, 0, len(p.Corners))
		for _, c := range p.Corners {
			cornerAt = append(cornerAt, pos[c])
		}
		for i := 1; i < len(cornerAt); i++ {
			if cornerAt[i] <= cornerAt[i-1] {
				return nil, chartErr(cid, "corners are not in loop order")
			}
		}

		spec := ChartSpec{
			Sides:      make([][]SegmentID, len(cornerAt)),
			Corners:    append([]int(nil), p.Corners...),
			EdgeLength: p.EdgeLength,
			Unused:     p.Unused,
		}
		for si := range cornerAt {
			from := cornerAt[si]
			to := len(loop)
			if si+1 < len(cornerAt) {
				to = cornerAt[si+1]
			}
			runStart := from
			for k := from; k < to; k++ {
				last := k+1 == to
				if !last {
					here := across(loop[k], loop[k+1])
					next := across(loop[k+1], loop[(k+2)%len(loop)])
					if !isCorner[loop[k+1]] && here == next {
						continue
					}
				}
				sid, err := claimSegment(s, loop, runStart, k+1, edgeSeg, &segSpecs, &segEdges)
				if err != nil {
					return nil, chartErr(cid, "side %d: %v", si, err)
				}
				spec.Sides[si] = append(spec.Sides[si], sid)
				runStart = k + 1
			}
		}
		chartSpec[pi] = spec
	}

	return Assemble(chartSpec, segSpecs)
}

// rotateToCorner returns the loop of p starting at its first corner.
func rotateToCorner(cid ChartID, p Patch) ([]int, error) {
	if len(p.Corners) < 3 {
		return nil, chartErr(cid, "%d corners, need at least 3", len(p.Corners))
	}
	start := -1
	for i, v := range p.Loop {
		if v == p.Corners[0] {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, chartErr(cid, "corner %d is not on the boundary loop", p.Corners[0])
	}
	loop := make([]int, 0, len(p.Loop))
	loop = append(loop, p.Loop[start:]...)
	loop = append(loop, p.Loop[:start]...)
	onLoop := make(map[int]bool, len(loop))
	for _, v := range loop {
		onLoop[v] = true
	}
	for _, c := range p.Corners {
		if !onLoop[c] {
			return nil, chartErr(cid, "corner %d is not on the boundary loop", c)
		}
	}

	return loop, nil
}

// claimSegment returns the segment covering loop[from:to] (edges), creating
// it on first sight. The patch across sees the same edges in reverse order
// and must map all of them to the same segment.
func claimSegment(s Surface, loop []int, from, to int, edgeSeg map[dirEdge]SegmentID, specs *[]SegmentSpec, edges *[]int) (SegmentID, error) {
	n := len(loop)
	first := undirected(loop[from%n], loop[(from+1)%n])
	if sid, ok := edgeSeg[first]; ok {
		if (*edges)[sid] != to-from {
			return 0, segmentErr(sid, "cut differently by its two patches")
		}
		for k := from; k < to; k++ {
			if edgeSeg[undirected(loop[k%n], loop[(k+1)%n])] != sid {
				return 0, segmentErr(sid, "cut differently by its two patches")
			}
		}

		return sid, nil
	}

	sid := SegmentID(len(*specs))
	var length float64
	for k := from; k < to; k++ {
		a, b := loop[k%n], loop[(k+1)%n]
		edgeSeg[undirected(a, b)] = sid
		length += r3.Norm(r3.Sub(s.Vertices[b], s.Vertices[a]))
	}
	*specs = append(*specs, SegmentSpec{
		Length:   length,
		Vertices: [2]int{loop[from%n], loop[to%n]},
	})
	*edges = append(*edges, to-from)

	return sid, nil
}

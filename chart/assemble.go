package chart

import (
	"math"
	"sort"
)

// SegmentSpec is a segment before its incidence is known.
type SegmentSpec struct {
	Length   float64
	Vertices [2]int
}

// ChartSpec lists the segments of every side of a chart, in boundary order.
// Corners is optional; when it has one entry per side, side i runs from
// Corners[i] to Corners[i+1].
type ChartSpec struct {
	Sides      [][]SegmentID
	Corners    []int
	EdgeLength float64
	Unused     bool
}

// Assemble derives the incidence of every segment from the side lists of the
// charts. A segment must be referenced by one side (mesh boundary) or by two
// sides of two different charts.
func Assemble(charts []ChartSpec, segments []SegmentSpec) (*Topology, error) {
	t := &Topology{
		Charts:   make([]Chart, len(charts)),
		Segments: make([]Segment, len(segments)),
	}
	for i, ss := range segments {
		if !(ss.Length > 0) || math.IsInf(ss.Length, 0) {
			return nil, segmentErr(SegmentID(i), "length %g is not positive", ss.Length)
		}
		t.Segments[i] = Segment{
			Length:    ss.Length,
			Charts:    [2]ChartID{NoChart, NoChart},
			SideIndex: [2]int{-1, -1},
			Vertices:  ss.Vertices,
		}
	}

	var (
		cid  ChartID
		slot int
	)
	for i, cs := range charts {
		cid = ChartID(i)
		if len(cs.Sides) < 3 {
			return nil, chartErr(cid, "valence %d is below 3", len(cs.Sides))
		}
		if !(cs.EdgeLength > 0) || math.IsInf(cs.EdgeLength, 0) {
			return nil, chartErr(cid, "edge length %g is not positive", cs.EdgeLength)
		}
		ch := Chart{
			Sides:      make([]Side, len(cs.Sides)),
			EdgeLength: cs.EdgeLength,
			Unused:     cs.Unused,
		}
		for si, segs := range cs.Sides {
			if len(segs) == 0 {
				return nil, chartErr(cid, "side %d has no segments", si)
			}
			side := Side{Segments: append([]SegmentID(nil), segs...), Vertices: [2]int{-1, -1}}
			if len(cs.Corners) == len(cs.Sides) {
				side.Vertices = [2]int{cs.Corners[si], cs.Corners[(si+1)%len(cs.Corners)]}
			}
			for _, sid := range segs {
				if sid < 0 || int(sid) >= len(t.Segments) {
					return nil, chartErr(cid, "side %d references unknown segment %d", si, sid)
				}
				seg := &t.Segments[sid]
				switch {
				case seg.Charts[0] == NoChart:
					slot = 0
				case seg.Charts[1] == NoChart && seg.Charts[0] != cid:
					slot = 1
				case seg.Charts[0] == cid:
					return nil, chartErr(cid, "segment %d appears twice on the boundary", sid)
				default:
					return nil, segmentErr(sid, "shared by more than two sides")
				}
				seg.Charts[slot] = cid
				seg.SideIndex[slot] = si
				side.Length += seg.Length
				ch.Segments = append(ch.Segments, sid)
			}
			ch.Sides[si] = side
		}
		t.Charts[i] = ch
	}

	for i := range t.Segments {
		if t.Segments[i].Charts[0] == NoChart {
			return nil, segmentErr(SegmentID(i), "not referenced by any side")
		}
	}
	t.linkAdjacency()

	return t, nil
}

// linkAdjacency fills Chart.Adjacent with sorted, unique neighbour IDs.
func (t *Topology) linkAdjacency() {
	for i := range t.Charts {
		seen := make(map[ChartID]struct{})
		adj := make([]ChartID, 0, len(t.Charts[i].Sides))
		for _, sid := range t.Charts[i].Segments {
			o, _, _ := t.Segments[sid].Other(ChartID(i))
			if o == NoChart || o == ChartID(i) {
				continue
			}
			if _, dup := seen[o]; dup {
				continue
			}
			seen[o] = struct{}{}
			adj = append(adj, o)
		}
		sort.Slice(adj, func(a, b int) bool { return adj[a] < adj[b] })
		t.Charts[i].Adjacent = adj
	}
}

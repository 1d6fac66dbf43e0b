package chart

import "math"

const lengthTol = 1e-9

// Validate checks that the cross references of t are mutually consistent:
// every segment is listed by exactly the sides it names, side lengths are
// the sums of their segments, and adjacency lists exactly the charts a chart
// shares a segment with.
func (t *Topology) Validate() error {
	refs := make([]int, len(t.Segments))
	for ci := range t.Charts {
		cid := ChartID(ci)
		ch := &t.Charts[ci]
		if len(ch.Sides) < 3 {
			return chartErr(cid, "valence %d is below 3", len(ch.Sides))
		}
		if !(ch.EdgeLength > 0) {
			return chartErr(cid, "edge length %g is not positive", ch.EdgeLength)
		}
		n := 0
		for si, side := range ch.Sides {
			var sum float64
			for _, sid := range side.Segments {
				if sid < 0 || int(sid) >= len(t.Segments) {
					return chartErr(cid, "side %d references unknown segment %d", si, sid)
				}
				seg := t.Segments[sid]
				slot := -1
				for k := 0; k < 2; k++ {
					if seg.Charts[k] == cid && seg.SideIndex[k] == si {
						slot = k
					}
				}
				if slot < 0 {
					return segmentErr(sid, "does not point back to chart %d side %d", cid, si)
				}
				refs[sid]++
				sum += seg.Length
				n++
			}
			if math.Abs(sum-side.Length) > lengthTol*math.Max(1, sum) {
				return chartErr(cid, "side %d length %g differs from segment sum %g", si, side.Length, sum)
			}
		}
		if n != len(ch.Segments) {
			return chartErr(cid, "segment list has %d entries, sides hold %d", len(ch.Segments), n)
		}
		for _, a := range ch.Adjacent {
			if a < 0 || int(a) >= len(t.Charts) || !contains(t.Charts[a].Adjacent, cid) {
				return chartErr(cid, "adjacency with chart %d is not symmetric", a)
			}
		}
		if err := t.checkAdjacency(cid); err != nil {
			return err
		}
	}
	for i, seg := range t.Segments {
		want := 2
		if seg.OnBoundary() {
			want = 1
		}
		if seg.Charts[0] == NoChart && seg.Charts[1] == NoChart {
			want = 0
		}
		if want == 0 || refs[i] != want {
			return segmentErr(SegmentID(i), "referenced by %d sides, incidence names %d", refs[i], want)
		}
	}

	return nil
}

// checkAdjacency compares the adjacency list of c with the charts on the far
// side of its segments.
func (t *Topology) checkAdjacency(c ChartID) error {
	listed := make(map[ChartID]bool)
	for _, sid := range t.Charts[c].Segments {
		if o, _, _ := t.Segments[sid].Other(c); o != NoChart && o != c {
			listed[o] = false
		}
	}
	for _, a := range t.Charts[c].Adjacent {
		seen, shared := listed[a]
		switch {
		case !shared:
			return chartErr(c, "lists chart %d as adjacent but shares no segment with it", a)
		case seen:
			return chartErr(c, "lists chart %d twice", a)
		}
		listed[a] = true
	}
	for o, seen := range listed {
		if !seen {
			return chartErr(c, "shares a segment with chart %d but does not list it", o)
		}
	}

	return nil
}

func contains(ids []ChartID, c ChartID) bool {
	for _, id := range ids {
		if id == c {
			return true
		}
	}

	return false
}

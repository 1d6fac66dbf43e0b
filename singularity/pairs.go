package singularity

import (
	"github.com/katalvlaran/quadquant/chart"
	"github.com/plan-systems/klog"
)

// irregular reports whether valence v takes part in pairing.
func irregular(v int) bool { return v == 3 || v == 5 || v == 6 }

// Find traces all singularity pairs of t restricted by opts.
func Find(t *chart.Topology, opts Options) *Info {
	in := &Info{Paired: newMarks(t)}
	for ci := range t.Charts {
		cid := chart.ChartID(ci)
		if !t.Active(cid, opts.Mask) || !irregular(t.Charts[ci].Valence()) {
			continue
		}
		for side := range t.Charts[ci].Sides {
			p, self, ok := trace(t, opts, cid, side)
			if self {
				in.SelfPairs++
				klog.Warningf("singularity: chart %d side %d traces back to itself; pair dropped", cid, side)
				continue
			}
			if !ok {
				continue
			}
			in.Pairs = append(in.Pairs, p)
			in.mark(p, true)
		}
	}
	klog.V(2).Infof("singularity: %d pairs, %d self pairs", len(in.Pairs), in.SelfPairs)

	return in
}

// trace follows side of chart c to its partner. self is true when the trace
// returns to c. A corridor that enters a quad a second time is not a pair.
func trace(t *chart.Topology, opts Options, c chart.ChartID, side int) (p Pair, self, ok bool) {
	p.Charts[0], p.Sides[0] = c, side
	cur, curSide := c, side
	visited := make(map[chart.ChartID]bool)
	for {
		segs := t.Charts[cur].Sides[curSide].Segments
		if len(segs) != 1 || !undecided(opts.Result, segs[0]) {
			return Pair{}, false, false
		}
		next, nextSide, _ := t.Segments[segs[0]].Other(cur)
		if !t.Active(next, opts.Mask) {
			return Pair{}, false, false
		}
		ch := &t.Charts[next]
		if len(ch.Sides[nextSide].Segments) != 1 {
			return Pair{}, false, false
		}
		if ch.Valence() != 4 {
			if !irregular(ch.Valence()) {
				return Pair{}, false, false
			}
			p.Charts[1], p.Sides[1] = next, nextSide
			break
		}
		if visited[next] {
			return Pair{}, false, false
		}
		visited[next] = true
		opposite := (nextSide + 2) % 4
		p.Quads = append(p.Quads, DirectedQuad{Chart: next, Sides: [2]int{nextSide, opposite}})
		cur, curSide = next, opposite
	}

	switch {
	case p.Charts[1] == p.Charts[0]:
		return Pair{}, true, false
	case p.Charts[1] < p.Charts[0]:
		return Pair{}, false, false
	}

	return p, false, true
}

func undecided(res chart.Result, sid chart.SegmentID) bool {
	return res == nil || res[sid].IsUnknown()
}

func newMarks(t *chart.Topology) [][]bool {
	m := make([][]bool, len(t.Charts))
	for i := range t.Charts {
		m[i] = make([]bool, t.Charts[i].Valence())
	}

	return m
}

func (in *Info) mark(p Pair, v bool) {
	for k := 0; k < 2; k++ {
		in.Paired[p.Charts[k]][p.Sides[k]] = v
	}
	for _, q := range p.Quads {
		in.Paired[q.Chart][q.Sides[0]] = v
		in.Paired[q.Chart][q.Sides[1]] = v
	}
}

// RemoveUnaligned drops every pair whose satisfied entry is false and
// rebuilds the side marks from the pairs that remain.
func (in *Info) RemoveUnaligned(satisfied []bool) {
	kept := in.Pairs[:0]
	for i, p := range in.Pairs {
		if i < len(satisfied) && !satisfied[i] {
			in.mark(p, false)
			continue
		}
		kept = append(kept, p)
	}
	in.Pairs = kept
	for _, p := range in.Pairs {
		in.mark(p, true)
	}
}

// Clear removes every pair and mark.
func (in *Info) Clear() {
	in.Pairs = nil
	for _, row := range in.Paired {
		for i := range row {
			row[i] = false
		}
	}
}

// Clone deep-copies in.
func (in *Info) Clone() *Info {
	out := &Info{
		Pairs:     make([]Pair, len(in.Pairs)),
		Paired:    make([][]bool, len(in.Paired)),
		SelfPairs: in.SelfPairs,
	}
	for i, p := range in.Pairs {
		p.Quads = append([]DirectedQuad(nil), p.Quads...)
		out.Pairs[i] = p
	}
	for i, row := range in.Paired {
		out.Paired[i] = append([]bool(nil), row...)
	}

	return out
}

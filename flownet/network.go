package flownet

import (
	"math"

	"github.com/katalvlaran/quadquant/bimdf"
	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/ilp"
	"github.com/katalvlaran/quadquant/singularity"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

const noNode bimdf.Node = -1

var noEdges = [2]bimdf.Edge{-1, -1}

// round carries everything one network build depends on. satisfied, prev
// and prevSol are nil in the first round.
type round struct {
	t     *chart.Topology
	res   chart.Result
	mask  chart.Mask
	p     *config.Parameters
	fc    *config.FlowConfig
	pairs *singularity.Info

	satisfied []bool
	prev      *network
	prevSol   bimdf.Solution
}

// network is a built flow network with its edge bookkeeping.
type network struct {
	net   *bimdf.Network
	track tracking
}

// chartNodes holds the side nodes of one chart. single[s] is set for
// unpaired sides, pair[s] for paired ones.
type chartNodes struct {
	single []bimdf.Node
	pair   [][2]bimdf.Node
}

type builder struct {
	round
	n      *bimdf.Network
	tr     tracking
	sides  []chartNodes
	iso    float64
	reg    float64
	paired config.Paired
}

// build emits the flow network of one round.
func build(r round) (*network, error) {
	b := &builder{
		round:  r,
		n:      bimdf.NewNetwork(),
		sides:  make([]chartNodes, len(r.t.Charts)),
		iso:    r.p.Alpha,
		reg:    1 - r.p.Alpha,
		paired: r.fc.PairedInitial,
	}
	if r.prev != nil {
		b.paired = r.fc.PairedResolve
	}
	b.tr.segments = make([][2]bimdf.Edge, len(r.t.Segments))
	for i := range b.tr.segments {
		b.tr.segments[i] = noEdges
	}

	for ci := range r.t.Charts {
		cid := chart.ChartID(ci)
		if !r.t.Active(cid, r.mask) {
			continue
		}
		if err := b.addChart(cid); err != nil {
			return nil, err
		}
	}

	boundary := b.n.AddNode()
	bndTarget := 0.0
	for si := range r.t.Segments {
		t, err := b.addSegment(chart.SegmentID(si), boundary)
		if err != nil {
			return nil, err
		}
		bndTarget += t
	}
	b.n.AddEdge(bimdf.EdgeSpec{
		U: boundary, V: boundary,
		Cost:  ilp.Zero{Estimate: bndTarget / 2},
		Upper: bimdf.Unbounded,
	})
	klog.V(1).Infof("flownet: %d nodes, %d edges, %d pairs",
		b.n.NumNodes(), b.n.NumEdges(), len(r.pairs.Pairs))

	return &network{net: b.n, track: b.tr}, nil
}

// chartWeight is the regularity weight of chart c in this round.
func (b *builder) chartWeight(c chart.ChartID, v int) float64 {
	p := b.p
	if (v == 4 && !p.RegularityQuadrilaterals) || (v != 4 && !p.RegularityNonQuadrilaterals) {
		return 0
	}
	if b.satisfied != nil && !b.satisfied[c] &&
		((v == 4 && p.RepeatLosingConstraintsQuads) || (v != 4 && p.RepeatLosingConstraintsNonQuads)) {
		return 0
	}
	w := b.reg / float64(v*v)
	if v != 4 {
		w *= p.RegularityNonQuadrilateralsWeight
	}

	return w
}

func (b *builder) emergency(u, v bimdf.Node, w float64) bimdf.Edge {
	return b.n.AddEdge(bimdf.EdgeSpec{
		U: u, V: v,
		Cost:  ilp.AbsDeviation{Target: 0, Weight: w},
		Upper: bimdf.Unbounded,
	})
}

// addChart emits the side nodes, emergency edges and inner connections of c.
func (b *builder) addChart(c chart.ChartID) error {
	ch := &b.t.Charts[c]
	v := ch.Valence()
	if v < 3 || v > 6 {
		return errors.Wrapf(ErrUnsupportedValence, "chart %d has valence %d", c, v)
	}

	w := b.chartWeight(c, v)
	sideLoopW, neighborW, singW := 4*w, 4*w, w
	switch v {
	case 5:
		neighborW = 2 * w
	case 6:
		sideLoopW, neighborW, singW = w, 3*w, .5*w
	}

	nodes := chartNodes{single: make([]bimdf.Node, v), pair: make([][2]bimdf.Node, v)}
	for s := 0; s < v; s++ {
		nodes.single[s], nodes.pair[s] = noNode, [2]bimdf.Node{noNode, noNode}
		if !b.pairs.IsPaired(c, s) {
			nodes.single[s] = b.n.AddNode()
			b.tr.sideLoops[v] = append(b.tr.sideLoops[v], b.emergency(nodes.single[s], nodes.single[s], sideLoopW))
			continue
		}
		for k := 0; k < 2; k++ {
			nodes.pair[s][k] = b.n.AddNode()
			b.tr.sideLoops[v] = append(b.tr.sideLoops[v], b.emergency(nodes.pair[s][k], nodes.pair[s][k], sideLoopW))
		}
		b.tr.sideLoops[v] = append(b.tr.sideLoops[v], b.emergency(nodes.pair[s][0], nodes.pair[s][1], sideLoopW))
	}
	b.sides[c] = nodes

	paired := func(s int) bool { return nodes.single[s] == noNode }
	connect := func(left, right int, weight float64) []bimdf.Edge {
		if paired(left) && !paired(right) {
			left, right = right, left
		}
		var out []bimdf.Edge
		switch {
		case paired(left):
			for _, a := range nodes.pair[left] {
				for _, z := range nodes.pair[right] {
					out = append(out, b.emergency(a, z, weight))
				}
			}
		case paired(right):
			for _, z := range nodes.pair[right] {
				out = append(out, b.emergency(nodes.single[left], z, weight))
			}
		default:
			out = append(out, b.emergency(nodes.single[left], nodes.single[right], weight))
		}
		return out
	}
	if v > 3 {
		for s := 0; s < v; s++ {
			b.tr.neighbor[v] = append(b.tr.neighbor[v], connect(s, (s+1)%v, neighborW)...)
		}
	}
	if v == 6 {
		for s := 0; s < 3; s++ {
			b.tr.oppositeV6 = append(b.tr.oppositeV6, connect(s, s+3, 6*w)...)
		}
	}

	inner := func(a, z bimdf.Node, estimate float64) {
		lower := 1
		if v == 4 {
			lower = 0
		}
		b.n.AddEdge(bimdf.EdgeSpec{
			U: a, V: z,
			Cost:  ilp.Zero{Estimate: estimate},
			Lower: lower, Upper: bimdf.Unbounded,
		})
		if v != 4 {
			e := b.n.AddEdge(bimdf.EdgeSpec{
				U: a, V: z, UHead: true, VHead: true,
				Cost:  ilp.AbsDeviation{Target: 0, Weight: singW},
				Upper: 1,
			})
			b.tr.singOnBound[v] = append(b.tr.singOnBound[v], e)
		}
	}
	n := v
	if v == 4 {
		n = 2
	}
	for s := 0; s < n; s++ {
		o := (s + 2) % v
		estimate := .25 * (ch.Sides[s].Length + ch.Sides[o].Length) / ch.EdgeLength
		switch {
		case paired(s) && paired(o):
			inner(nodes.pair[s][1], nodes.pair[o][0], estimate)
			if v == 4 {
				inner(nodes.pair[s][0], nodes.pair[o][1], estimate)
			}
		case paired(s):
			inner(nodes.pair[s][1], nodes.single[o], estimate)
		case paired(o):
			inner(nodes.pair[o][0], nodes.single[s], estimate)
		default:
			inner(nodes.single[s], nodes.single[o], estimate)
		}
	}

	return nil
}

// bounds returns the flow bounds of segment sid: free above 1 when unknown,
// pinned when fixed.
func (b *builder) bounds(sid chart.SegmentID) (lower, upper int, fixed bool) {
	if b.res != nil {
		if n, ok := b.res[sid].Value(); ok {
			return n, n, true
		}
	}

	return 1, bimdf.Unbounded, false
}

func (b *builder) isoCost(kind config.Objective, target, weight float64) ilp.Cost {
	if kind == config.QuadObjective {
		return ilp.QuadDeviation{Target: target, Weight: weight}
	}

	return ilp.AbsDeviation{Target: target, Weight: weight}
}

// addSegment emits the edges of segment sid. It returns the segment's
// contribution to the boundary node target.
func (b *builder) addSegment(sid chart.SegmentID, boundary bimdf.Node) (float64, error) {
	seg := b.t.Segments[sid]
	left, right := seg.Charts[0], seg.Charts[1]
	ls, rs := seg.SideIndex[0], seg.SideIndex[1]
	activeL, activeR := b.t.Active(left, b.mask), b.t.Active(right, b.mask)
	if !activeL && !activeR {
		return 0, nil
	}
	if b.res != nil && b.res[sid].IsExcluded() {
		return 0, errors.Wrapf(ErrSubProblem, "segment %d is excluded but borders an active chart", sid)
	}
	if !activeL {
		left, right, ls, rs = right, left, rs, ls
		activeR = false
	}

	lc := &b.t.Charts[left]
	lTarget := math.Max(1, seg.Length/lc.EdgeLength)
	lIso := b.iso / float64(len(lc.Segments))
	lower, upper, fixed := b.bounds(sid)
	edges := &b.tr.segments[sid]

	if !activeR {
		if right != chart.NoChart && b.t.Charts[right].Unused && !fixed {
			klog.Warningf("flownet: segment %d borders unused chart %d; closed through the boundary", sid, right)
		}
		if b.pairs.IsPaired(left, ls) {
			return 0, errors.Wrapf(ErrSubProblem, "boundary segment %d lies on a paired side", sid)
		}
		edges[0] = b.n.AddEdge(bimdf.EdgeSpec{
			U: b.sides[left].single[ls], V: boundary, UHead: true, VHead: true,
			Cost:  ilp.QuadDeviation{Target: lTarget, Weight: lIso},
			Lower: lower, Upper: upper,
		})
		b.tr.unpaired = append(b.tr.unpaired, edges[0])
		if fixed {
			return float64(lower), nil
		}
		return lTarget, nil
	}

	rc := &b.t.Charts[right]
	rTarget := math.Max(1, seg.Length/rc.EdgeLength)
	rIso := b.iso / float64(len(rc.Segments))
	lPaired, rPaired := b.pairs.IsPaired(left, ls), b.pairs.IsPaired(right, rs)

	switch {
	case !lPaired && !rPaired:
		inter := b.n.AddNode()
		edges[0] = b.n.AddEdge(bimdf.EdgeSpec{
			U: b.sides[left].single[ls], V: inter, UHead: true, VHead: true,
			Cost:  ilp.QuadDeviation{Target: lTarget, Weight: lIso},
			Lower: lower, Upper: upper,
		})
		other := b.n.AddEdge(bimdf.EdgeSpec{
			U: inter, V: b.sides[right].single[rs], UHead: false, VHead: true,
			Cost:  ilp.QuadDeviation{Target: rTarget, Weight: rIso},
			Lower: lower, Upper: upper,
		})
		b.tr.unpaired = append(b.tr.unpaired, edges[0], other)
	case lPaired && rPaired:
		if fixed {
			return 0, errors.Wrapf(ErrSubProblem, "fixed segment %d lies on a paired side", sid)
		}
		b.addPairedSegment(sid, left, ls, right, rs, lTarget, rTarget, lIso, rIso)
	default:
		return 0, errors.Wrapf(ErrSubProblem, "segment %d is paired on one side only", sid)
	}

	return 0, nil
}

// addPairedSegment routes a segment between two paired sides through two
// intermediate nodes, one per half, joined by unaligner edges.
func (b *builder) addPairedSegment(sid chart.SegmentID, left chart.ChartID, ls int, right chart.ChartID, rs int,
	lTarget, rTarget, lIso, rIso float64) {
	lHalf, lw := b.halfTargets(left, ls, lTarget)
	rHalf, rw := b.halfTargets(right, rs, rTarget)

	if b.fc.PairedResolveNewTargets && b.prev != nil {
		if old := b.prev.track.segments[sid]; old[1] >= 0 {
			sol0, sol1 := float64(b.prevSol[old[0]]), float64(b.prevSol[old[1]])
			if sum := sol0 + sol1; sum > 0 {
				lHalf[0] = lTarget * sol0 / sum
				lHalf[1] = lTarget - lHalf[0]
				rHalf[1] = rTarget * sol0 / sum
				rHalf[0] = rTarget - rHalf[1]
			}
		}
	}

	kind, scale := b.paired.IsoObjective, b.paired.IsoWeight
	inter := [2]bimdf.Node{b.n.AddNode(), b.n.AddNode()}
	lp, rp := b.sides[left].pair[ls], b.sides[right].pair[rs]
	half := func(u bimdf.Node, uHead bool, v bimdf.Node, target, weight float64) bimdf.Edge {
		return b.n.AddEdge(bimdf.EdgeSpec{
			U: u, V: v, UHead: uHead, VHead: true,
			Cost:  b.isoCost(kind, target, weight),
			Lower: 1, Upper: bimdf.Unbounded,
		})
	}
	e0 := half(inter[0], true, lp[0], lHalf[0], scale*lw*lIso)
	e1 := half(inter[1], true, lp[1], lHalf[1], scale*lw*lIso)
	o0 := half(inter[0], false, rp[1], rHalf[1], scale*rw*rIso)
	o1 := half(inter[1], false, rp[0], rHalf[0], scale*rw*rIso)
	b.tr.segments[sid] = [2]bimdf.Edge{e0, e1}
	b.tr.paired = append(b.tr.paired, e0, e1, o0, o1)

	nl, nr := len(b.t.Charts[left].Segments), len(b.t.Charts[right].Segments)
	uw := b.reg * b.p.AlignSingularitiesWeight * .5 / (.5 * float64(nl+nr)) * b.paired.UnalignWeight
	for k := 0; k < 2; k++ {
		e := b.n.AddEdge(bimdf.EdgeSpec{
			U: inter[k], V: inter[1-k], VHead: true,
			Cost:  ilp.AbsDeviation{Target: 0, Weight: uw},
			Upper: bimdf.Unbounded,
		})
		b.tr.unaligners = append(b.tr.unaligners, e)
	}
}

// halfTargets splits the target of the segment on side s of chart c between
// the two halves of a paired side. The second result weights the halves.
func (b *builder) halfTargets(c chart.ChartID, s int, target float64) ([2]float64, float64) {
	ch := &b.t.Charts[c]
	v := ch.Valence()
	weight := 1.0
	if v == 4 {
		weight = 0
	}
	if b.fc.PairedHalfTarget != config.Simple {
		return [2]float64{.5 * target, .5 * target}, weight
	}

	scale := 1 / ch.EdgeLength
	la := ch.Sides[s].Length
	if v != 3 {
		return [2]float64{scale * .5 * la, scale * .5 * la}, weight
	}
	lb, lc := ch.Sides[(s+1)%v].Length, ch.Sides[(s+2)%v].Length
	x := math.Min(la, math.Max(0, .5*(la+lb-lc)))

	return [2]float64{scale * x, scale * (la - x)}, 1
}

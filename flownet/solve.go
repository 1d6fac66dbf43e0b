package flownet

import (
	"context"
	"math"

	"github.com/katalvlaran/quadquant/bimdf"
	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/evaluate"
	"github.com/katalvlaran/quadquant/ilp"
	"github.com/katalvlaran/quadquant/singularity"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// costTol bounds the disagreement between solver cost and tracked costs.
const costTol = 1e-3

// Outcome is the result of a flow quantization.
//   - Result: the input result with every solved segment set to Fixed.
//   - Stats: one entry per solved round.
//   - Pairs: the pairing used by the last round.
type Outcome struct {
	Result   chart.Result
	Stats    []Stats
	Pairs    *singularity.Info
	Cost     float64
	Gap      float64
	Status   ilp.Status
	Resolved bool
}

// Solve quantizes the Unknown segments of the charts selected by mask.
// Fixed segments keep their value; segments bordering an inactive chart
// close through the boundary node. res may be nil for a fresh solve.
func Solve(ctx context.Context, t *chart.Topology, res chart.Result, mask chart.Mask,
	p *config.Parameters, fc *config.FlowConfig, solver bimdf.Solver) (*Outcome, error) {
	if res == nil {
		res = chart.NewResult(len(t.Segments))
	}
	if fc == nil {
		d := config.DefaultFlowConfig()
		fc = &d
	}
	pairs := singularity.Find(t, singularity.Options{Result: res, Mask: mask})
	if !p.AlignSingularities {
		pairs.Clear()
	}

	r := round{t: t, res: res, mask: mask, p: p, fc: fc, pairs: pairs}
	out := &Outcome{}
	first, sol, err := solveRound(ctx, r, solver, out)
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("flownet: round one cost %.6g", out.Cost)

	counts := out.Result.Values()
	sat := assess(t, counts, mask, pairs)
	klog.V(1).Infof("flownet: %d quads, %d non-quads, %d pairs unsatisfied",
		sat.unsatQuads, sat.unsatNonQuads, sat.unsatPairs)
	if !sat.resolve(p) {
		out.Pairs = pairs
		return out, nil
	}

	if p.RepeatLosingConstraintsAlign {
		pairs = pairs.Clone()
		pairs.RemoveUnaligned(sat.pairs)
	}
	r.pairs, r.satisfied, r.prev, r.prevSol = pairs, sat.charts, first, sol
	if _, _, err = solveRound(ctx, r, solver, out); err != nil {
		return nil, err
	}
	out.Pairs, out.Resolved = pairs, true
	klog.V(1).Infof("flownet: round two cost %.6g", out.Cost)

	return out, nil
}

// solveRound builds, solves and checks one network, recording the result in out.
func solveRound(ctx context.Context, r round, solver bimdf.Solver, out *Outcome) (*network, bimdf.Solution, error) {
	nw, err := build(r)
	if err != nil {
		return nil, nil, err
	}
	opts := bimdf.SolveOptions{
		TimeLimit: r.p.Limit(),
		GapLimit:  r.p.GapLimit,
		Schedule:  r.p.Checkpoints(),
	}
	if r.prev != nil {
		opts.Hint = carryHint(r.prev.net, nw.net, r.prevSol)
		klog.V(2).Infof("flownet: previous flow reused as hint: %t", opts.Hint != nil)
	}
	so, err := solver.Solve(ctx, nw.net, opts)
	if err != nil {
		return nil, nil, err
	}
	if err = nw.net.IsValid(so.Solution); err != nil {
		klog.Errorf("flownet: solver returned an invalid flow: %v", err)
		return nil, nil, errors.Wrap(ErrInvalidQuantization, err.Error())
	}

	stats := nw.track.stats(nw.net, so.Solution)
	if d := math.Abs(stats.Sum() - so.Cost); d > costTol {
		klog.Errorf("flownet: solver cost %.6g, tracked %.6g", so.Cost, stats.Sum())
		return nil, nil, errors.Wrapf(ErrCostMismatch, "solver %.6g, tracked %.6g", so.Cost, stats.Sum())
	}

	result := r.res.Clone()
	for sid, edges := range nw.track.segments {
		if edges[0] < 0 {
			continue
		}
		val := so.Solution[edges[0]]
		if edges[1] >= 0 {
			val += so.Solution[edges[1]]
		}
		result[sid] = chart.Fixed(val)
	}
	if err = checkValid(r.t, result, r.mask); err != nil {
		return nil, nil, err
	}

	out.Result = result
	out.Stats = append(out.Stats, stats)
	out.Cost, out.Gap, out.Status = so.Cost, so.Gap, so.Status

	return nw, so.Solution, nil
}

// carryHint returns sol when next has the edge layout of prev and sol is
// still a valid flow on it. Removing pairs changes the layout.
func carryHint(prev, next *bimdf.Network, sol bimdf.Solution) bimdf.Solution {
	if prev.NumNodes() != next.NumNodes() || prev.NumEdges() != next.NumEdges() {
		return nil
	}
	for e := 0; e < next.NumEdges(); e++ {
		a, b := prev.Spec(bimdf.Edge(e)), next.Spec(bimdf.Edge(e))
		if a.U != b.U || a.V != b.V || a.UHead != b.UHead || a.VHead != b.VHead {
			return nil
		}
	}
	if next.IsValid(sol) != nil {
		return nil
	}

	return sol
}

// checkValid verifies the side minimum and boundary parity on every active chart.
func checkValid(t *chart.Topology, res chart.Result, mask chart.Mask) error {
	counts := res.Values()
	for ci := range t.Charts {
		cid := chart.ChartID(ci)
		if !t.Active(cid, mask) {
			continue
		}
		if !evaluate.Valid(t, counts, cid) {
			klog.Errorf("flownet: chart %d sides %v violate the quantization minimum", cid, t.SideSums(counts, cid))
			return errors.Wrapf(ErrInvalidQuantization, "chart %d", cid)
		}
	}

	return nil
}

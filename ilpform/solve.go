package ilpform

import (
	"context"

	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/evaluate"
	"github.com/katalvlaran/quadquant/ilp"
	"github.com/katalvlaran/quadquant/singularity"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// solveModel runs one round's program.
var solveModel = ilp.Solve

// Solve quantizes the Unknown segments of the charts selected by mask. res
// may be nil for a fresh solve; it is never modified.
func Solve(ctx context.Context, t *chart.Topology, res chart.Result, mask chart.Mask,
	p *config.Parameters) (*Outcome, error) {
	if res == nil {
		res = chart.NewResult(len(t.Segments))
	}
	pairs := singularity.Find(t, singularity.Options{Result: res, Mask: mask})
	if !p.AlignSingularities {
		pairs.Clear()
	}

	var (
		out        = &Outcome{Pairs: pairs}
		dropCharts = make([]bool, len(t.Charts))
		dropPairs  = make([]bool, len(pairs.Pairs))
		hint       []float64
	)
	for round := 0; ; round++ {
		f, err := formulate(t, res, mask, p, pairs.Pairs, dropCharts, dropPairs)
		if err != nil {
			return nil, err
		}
		if f.m.NumVars() == 0 {
			out.Result = res.Clone()
			return out, nil
		}
		klog.V(1).Infof("ilpform: round %d, %d variables, %d rows", round, f.m.NumVars(), f.m.NumRows())

		r, err := solveModel(ctx, f.m, ilp.Options{
			TimeLimit: p.Limit(),
			GapLimit:  p.GapLimit,
			Schedule:  p.Checkpoints(),
			Hint:      hint,
		})
		if err != nil {
			return nil, errors.Wrap(err, "ilpform: solve")
		}
		if round > 0 && !r.HasSolution() {
			klog.Warningf("ilpform: repeat round %d ended %s; keeping round %d", round, r.Status, round-1)
			return out, nil
		}
		switch r.Status {
		case ilp.Infeasible:
			klog.V(1).Infof("ilpform: round %d infeasible", round)
			out.Result, out.Status = nil, Infeasible
			return out, nil
		case ilp.NoSolution:
			return nil, errors.Wrapf(ErrNoSolution, "round %d after %d nodes", round, r.Nodes)
		}

		out.Result = f.result(r.X)
		out.Gap = r.Gap
		out.Status = Found
		if f.odd(r.X) {
			out.Status = Wrong
		}
		out.Stats = append(out.Stats, f.stats(out.Result.Values(), r.Objective, dropCharts, dropPairs))
		klog.V(1).Infof("ilpform: round %d %s, objective %.6g, gap %.4g", round, out.Status, r.Objective, r.Gap)

		if round >= p.RepeatLosingConstraintsIterations || !p.RepeatsAny() {
			return out, nil
		}
		if !f.drop(out.Result.Values(), dropCharts, dropPairs) {
			return out, nil
		}
		hint = r.X
	}
}

// drop marks the charts and pairs the last round left unsatisfied, per the
// repeat flags. It reports whether anything new was dropped.
func (f *formulation) drop(counts []int, dropCharts, dropPairs []bool) bool {
	changed := false
	sat := make([]bool, len(f.t.Charts))
	for ci := range f.t.Charts {
		cid := chart.ChartID(ci)
		if !f.t.Active(cid, f.mask) {
			sat[ci] = true
			continue
		}
		sat[ci] = evaluate.Satisfied(f.t, counts, cid)
		quad := f.t.Charts[ci].Valence() == 4
		repeat := (quad && f.p.RepeatLosingConstraintsQuads) || (!quad && f.p.RepeatLosingConstraintsNonQuads)
		if !sat[ci] && repeat && !dropCharts[ci] {
			dropCharts[ci], changed = true, true
		}
	}
	if !f.p.RepeatLosingConstraintsAlign {
		return changed
	}

	for i, pr := range f.pairs {
		ok := sat[pr.Charts[0]] && sat[pr.Charts[1]] && evaluate.IsPairAligned(f.t, counts, pr)
		for _, q := range pr.Quads {
			ok = ok && sat[q.Chart]
		}
		if !ok && !dropPairs[i] {
			dropPairs[i], changed = true, true
		}
	}

	return changed
}

// stats evaluates the terms of one round at counts.
func (f *formulation) stats(counts []int, objective float64, dropCharts, dropPairs []bool) Stats {
	st := Stats{SupportObj: objective}
	for _, it := range f.iso {
		st.Isometry += it.cost.Eval(float64(counts[it.seg]))
	}
	for ci, w := range f.chartW {
		if w != 0 && !dropCharts[ci] {
			st.Regularity += w * float64(evaluate.Irregularity(f.t, counts, chart.ChartID(ci)))
		}
	}
	if f.p.AlignSingularities {
		for i, pr := range f.pairs {
			cost := f.pairW[i] * float64(evaluate.Misalignment(f.t, counts, pr))
			st.AlignmentFull += cost
			if !dropPairs[i] {
				st.Alignment += cost
			}
		}
	}
	st.Obj = st.Isometry + st.Regularity + st.Alignment

	return st
}

package flownet

import (
	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/evaluate"
	"github.com/katalvlaran/quadquant/singularity"
)

// satisfaction is the state of the monitored constraints after one round.
type satisfaction struct {
	charts []bool
	pairs  []bool

	unsatQuads    int
	unsatNonQuads int
	unsatPairs    int
}

// assess evaluates every active chart and every pair against counts.
// Inactive charts count as satisfied.
func assess(t *chart.Topology, counts []int, mask chart.Mask, in *singularity.Info) satisfaction {
	s := satisfaction{charts: make([]bool, len(t.Charts)), pairs: make([]bool, len(in.Pairs))}
	for ci := range t.Charts {
		cid := chart.ChartID(ci)
		if !t.Active(cid, mask) {
			s.charts[ci] = true
			continue
		}
		s.charts[ci] = evaluate.Satisfied(t, counts, cid)
		if s.charts[ci] {
			continue
		}
		if t.Charts[ci].Valence() == 4 {
			s.unsatQuads++
		} else {
			s.unsatNonQuads++
		}
	}

	for i, p := range in.Pairs {
		ok := s.charts[p.Charts[0]] && s.charts[p.Charts[1]]
		for _, q := range p.Quads {
			ok = ok && s.charts[q.Chart]
		}
		s.pairs[i] = ok && evaluate.IsPairAligned(t, counts, p)
		if !s.pairs[i] {
			s.unsatPairs++
		}
	}

	return s
}

// resolve reports whether a monitored constraint is unsatisfied.
func (s satisfaction) resolve(p *config.Parameters) bool {
	return (p.RepeatLosingConstraintsQuads && s.unsatQuads > 0) ||
		(p.RepeatLosingConstraintsNonQuads && s.unsatNonQuads > 0) ||
		(p.RepeatLosingConstraintsAlign && s.unsatPairs > 0)
}

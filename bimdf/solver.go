package bimdf

import (
	"context"
	"time"

	"github.com/katalvlaran/quadquant/ilp"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// SolveOptions bounds one solve. Hint, when valid, seeds the incumbent.
type SolveOptions struct {
	TimeLimit time.Duration
	GapLimit  float64
	Schedule  []ilp.Checkpoint
	Hint      Solution
}

// Outcome is the result of a successful solve.
type Outcome struct {
	Solution Solution
	Cost     float64
	Gap      float64
	Status   ilp.Status
}

// Solver finds a minimum-cost valid flow.
type Solver interface {
	Solve(ctx context.Context, n *Network, opts SolveOptions) (*Outcome, error)
}

// MIPSolver solves networks with the ilp branch and bound.
type MIPSolver struct{}

// Solve builds one integer variable per edge and one balance row per node.
func (MIPSolver) Solve(ctx context.Context, n *Network, opts SolveOptions) (*Outcome, error) {
	if len(n.edges) == 0 {
		return &Outcome{Solution: Solution{}, Status: ilp.Optimal}, nil
	}

	m := ilp.NewModel()
	rows := make([][]ilp.Term, n.nodes)
	for _, s := range n.edges {
		hi := float64(s.Upper)
		if s.Upper == Unbounded {
			hi = ilp.Unbounded
		}
		v := m.AddInt(float64(s.Lower), hi)
		if s.Cost != nil {
			m.AddCost(v, s.Cost)
		}
		rows[s.U] = append(rows[s.U], ilp.Term{Var: v, Coef: float64(sign(s.UHead))})
		rows[s.V] = append(rows[s.V], ilp.Term{Var: v, Coef: float64(sign(s.VHead))})
	}
	for _, terms := range rows {
		if len(terms) > 0 {
			m.AddRow(terms, ilp.EQ, 0)
		}
	}

	io := ilp.DefaultOptions()
	io.TimeLimit, io.GapLimit, io.Schedule = opts.TimeLimit, opts.GapLimit, opts.Schedule
	if len(opts.Hint) == len(n.edges) {
		io.Hint = make([]float64, len(opts.Hint))
		for i, x := range opts.Hint {
			io.Hint[i] = float64(x)
		}
	}

	res, err := ilp.Solve(ctx, m, io)
	if err != nil {
		return nil, errors.Wrap(err, "bimdf: mip")
	}
	if !res.HasSolution() {
		return nil, errors.Wrapf(ErrNoFlow, "status %s after %d nodes", res.Status, res.Nodes)
	}

	sol := make(Solution, len(n.edges))
	for i := range sol {
		sol[i] = res.Int(ilp.Var(i))
	}
	klog.V(1).Infof("bimdf: %d nodes, %d edges solved (%s, gap %.4g, %d b&b nodes)",
		n.nodes, len(n.edges), res.Status, res.Gap, res.Nodes)

	return &Outcome{Solution: sol, Cost: n.Cost(sol), Gap: res.Gap, Status: res.Status}, nil
}

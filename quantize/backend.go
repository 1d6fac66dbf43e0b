package quantize

import (
	"context"
	"math"
	"sort"

	"github.com/katalvlaran/quadquant/bimdf"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/flownet"
	"github.com/katalvlaran/quadquant/ilp"
	"github.com/katalvlaran/quadquant/ilpform"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// FlowBackend quantizes through flownet. Solver defaults to bimdf.MIPSolver.
type FlowBackend struct {
	Solver bimdf.Solver
}

func (FlowBackend) Name() string { return string(config.SolverFlow) }

func (b FlowBackend) Solve(ctx context.Context, prob Problem) (*Attempt, error) {
	solver := b.Solver
	if solver == nil {
		solver = bimdf.MIPSolver{}
	}
	out, err := flownet.Solve(ctx, prob.Topology, prob.Result, prob.Mask, prob.Params, prob.Flow, solver)
	if errors.Is(err, bimdf.ErrNoFlow) {
		klog.V(1).Infof("quantize: flow: %v", err)
		return &Attempt{Status: Failed, Gap: math.Inf(1)}, nil
	}
	if err != nil {
		return nil, err
	}
	if out.Status != ilp.Optimal && out.Status != ilp.Feasible {
		return &Attempt{Status: Failed, Gap: math.Inf(1)}, nil
	}

	return &Attempt{
		Counts:    out.Result,
		Status:    Found,
		Gap:       out.Gap,
		Pairs:     out.Pairs,
		FlowStats: out.Stats,
	}, nil
}

// ILPBackend quantizes through the direct integer program.
type ILPBackend struct{}

func (ILPBackend) Name() string { return string(config.SolverILP) }

func (ILPBackend) Solve(ctx context.Context, prob Problem) (*Attempt, error) {
	out, err := ilpform.Solve(ctx, prob.Topology, prob.Result, prob.Mask, prob.Params)
	if errors.Is(err, ilpform.ErrNoSolution) {
		klog.V(1).Infof("quantize: ilp: %v", err)
		return &Attempt{Status: Failed, Gap: math.Inf(1)}, nil
	}
	if err != nil {
		return nil, err
	}

	a := &Attempt{Counts: out.Result, Gap: out.Gap, Pairs: out.Pairs, ILPStats: out.Stats}
	switch out.Status {
	case ilpform.Found:
		a.Status = Found
	case ilpform.Wrong:
		a.Status = Wrong
	default:
		a.Status, a.Counts, a.Gap = Failed, nil, math.Inf(1)
	}

	return a, nil
}

// registry maps solver names to backend constructors. A nil constructor
// marks a backend that is known but not built in.
var registry = map[config.Solver]func() Backend{
	config.SolverFlow:   func() Backend { return FlowBackend{} },
	config.SolverILP:    func() Backend { return ILPBackend{} },
	config.SolverGurobi: nil,
}

// Lookup returns the backend registered for s.
func Lookup(s config.Solver) (Backend, error) {
	ctor, ok := registry[s]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", s)
	}
	if ctor == nil {
		return nil, errors.Wrapf(ErrBackendUnavailable, "%q", s)
	}

	return ctor(), nil
}

// Backends lists the solver names with a built-in backend.
func Backends() []string {
	var out []string
	for s, ctor := range registry {
		if ctor != nil {
			out = append(out, string(s))
		}
	}
	sort.Strings(out)

	return out
}

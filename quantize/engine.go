package quantize

import (
	"context"
	"time"

	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/cluster"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/evaluate"
	"github.com/katalvlaran/quadquant/flownet"
	"github.com/katalvlaran/quadquant/ilpform"
	"github.com/katalvlaran/quadquant/singularity"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"
)

// Outcome is a complete quantization.
//   - Result: one entry per segment; segments touching no used chart stay Unknown.
//   - Counts: Result with 0 for undecided segments.
//   - Traces: one ladder trace per cluster.
type Outcome struct {
	Result    chart.Result       `json:"-"`
	Counts    []int              `json:"counts"`
	Report    evaluate.Report    `json:"report"`
	Backend   string             `json:"backend"`
	Clusters  int                `json:"clusters"`
	Gap       float64            `json:"gap"`
	Traces    []Trace            `json:"traces"`
	FlowStats []flownet.Stats    `json:"flow_stats,omitempty"`
	ILPStats  []ilpform.Stats    `json:"ilp_stats,omitempty"`
	Pairs     []singularity.Pair `json:"-"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
}

// Attempts counts the backend calls of every cluster.
func (o *Outcome) Attempts() int {
	n := 0
	for _, tr := range o.Traces {
		n += len(tr)
	}

	return n
}

// Engine quantizes whole topologies.
type Engine struct {
	backend Backend
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithBackend overrides the backend selected by Parameters.Solver.
func WithBackend(b Backend) EngineOption {
	return func(e *Engine) { e.backend = b }
}

// NewEngine returns an Engine with the given options.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// clusterRun is the output of one cluster ladder.
type clusterRun struct {
	attempt *Attempt
	trace   Trace
}

// Quantize solves every used chart of t. fc may be nil for the default
// flow configuration.
func (e *Engine) Quantize(ctx context.Context, t *chart.Topology, p *config.Parameters, fc *config.FlowConfig) (*Outcome, error) {
	if t == nil {
		return nil, ErrNilTopology
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for ci := range t.Charts {
		if v := t.Charts[ci].Valence(); !t.Charts[ci].Unused && (v < 3 || v > 6) {
			return nil, errors.Wrapf(ErrUnsupportedValence, "chart %d has valence %d", ci, v)
		}
	}
	backend := e.backend
	if backend == nil {
		var err error
		if backend, err = Lookup(p.Solver); err != nil {
			return nil, err
		}
	}
	if fc == nil {
		d := config.DefaultFlowConfig()
		fc = &d
	}

	start := time.Now()
	res := chart.NewResult(len(t.Segments))
	a := cluster.Partition(t, p.ClusterSize)
	if a.Count > 1 {
		cluster.FixCrossSegments(t, a, res)
	}

	runs := make([]clusterRun, a.Count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)
	for k := 0; k < a.Count; k++ {
		sub, mask := cluster.SubProblem(t, a, k, res)
		params := p.Clone()
		k := k
		g.Go(func() error {
			ladder := &Ladder{Backend: backend}
			att, trace, err := ladder.Run(gctx, Problem{Topology: t, Result: sub, Mask: mask, Params: &params, Flow: fc})
			runs[k] = clusterRun{attempt: att, trace: trace}
			if err != nil {
				return errors.Wrapf(err, "cluster %d", k)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Outcome{Backend: backend.Name(), Clusters: a.Count}
	for _, run := range runs {
		if err := cluster.Merge(res, run.attempt.Counts); err != nil {
			return nil, err
		}
		out.Traces = append(out.Traces, run.trace)
		out.FlowStats = append(out.FlowStats, run.attempt.FlowStats...)
		out.ILPStats = append(out.ILPStats, run.attempt.ILPStats...)
		out.Gap = max(out.Gap, run.attempt.Gap)
	}
	if err := Check(t, res, nil); err != nil {
		klog.Errorf("quantize: merged result is invalid: %v", err)
		return nil, err
	}

	out.Result = res
	out.Counts = res.Values()
	if p.AlignSingularities {
		out.Pairs = singularity.Find(t, singularity.Options{}).Pairs
	}
	out.Report = evaluate.Evaluate(t, out.Counts, p, out.Pairs)
	out.Elapsed = time.Since(start)
	klog.V(1).Infof("quantize: %d clusters, %d attempts, total cost %.6g", out.Clusters, out.Attempts(), out.Report.Total())

	return out, nil
}

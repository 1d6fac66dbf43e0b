package quantize

import (
	"context"
	"time"

	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/evaluate"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// MaxAttempts bounds one ladder run.
const MaxAttempts = 4

// relaxedTimeFactor scales the time limit of the relaxed attempt.
const relaxedTimeFactor = 10

// Transition is the ladder's decision after an attempt.
type Transition int8

const (
	Accept Transition = iota
	HardenParity
	Relax
	GiveUp
)

func (t Transition) String() string {
	switch t {
	case Accept:
		return "accept"
	case HardenParity:
		return "hard-parity"
	case Relax:
		return "relax"
	}

	return "give-up"
}

// MarshalText renders the transition name.
func (t Transition) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Step records one attempt of a ladder run with the parameters it ran under.
// Gap is only set for attempts that produced a solution.
type Step struct {
	Attempt    int           `json:"attempt"`
	Backend    string        `json:"backend"`
	Method     config.Method `json:"method"`
	Align      bool          `json:"align"`
	Repeats    bool          `json:"repeats"`
	HardParity bool          `json:"hard_parity"`
	TimeLimit  float64       `json:"time_limit"`
	MinimumGap float64       `json:"minimum_gap"`
	Status     Status        `json:"status"`
	Gap        float64       `json:"gap,omitempty"`
	Next       Transition    `json:"next"`
	Reason     string        `json:"reason"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// Trace lists the steps of one ladder run.
type Trace []Step

// Ladder runs a Backend under the escalation sequence.
type Ladder struct {
	Backend Backend
}

// decide picks the transition after attempt a ran under p.
func decide(p *config.Parameters, a *Attempt) (Transition, string) {
	switch {
	case a.Status == Found && a.Gap < p.MinimumGap:
		return Accept, "solved within the minimum gap"
	case a.Status == Wrong && !p.HardParityConstraint:
		return HardenParity, "odd chart boundary under soft parity"
	case relaxable(p):
		if a.Status == Found {
			return Relax, "minimum gap not reached"
		}
		return Relax, "no solution: " + a.Status.String()
	}

	return GiveUp, "no relaxation left after " + a.Status.String() + " attempt"
}

// relaxable reports whether p has anything left for the relaxed attempt to
// switch off.
func relaxable(p *config.Parameters) bool {
	return p.ILPMethod != config.Abs || p.AlignSingularities ||
		p.RepeatLosingConstraintsIterations > 0 || p.RepeatsAny()
}

// relax returns the parameters of the relaxed attempt: absolute deviation,
// no alignment, no repetitions, ten times the time limit and a minimum gap
// of one.
func relax(p config.Parameters) config.Parameters {
	p.ILPMethod = config.Abs
	p.AlignSingularities = false
	p.RepeatLosingConstraintsIterations = 0
	p.RepeatLosingConstraintsQuads = false
	p.RepeatLosingConstraintsNonQuads = false
	p.RepeatLosingConstraintsAlign = false
	p.TimeLimit *= relaxedTimeFactor
	p.MinimumGap = 1

	return p
}

// Run solves prob, escalating until an attempt is accepted. The accepted
// attempt has passed the validity check; the trace is returned on every
// path. A backend that stops at its time limit yields a Failed or gapped
// attempt and escalates like any other; a done ctx ends the run before the
// next attempt.
func (l *Ladder) Run(ctx context.Context, prob Problem) (*Attempt, Trace, error) {
	var trace Trace
	params := prob.Params.Clone()
	for i := 1; i <= MaxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, trace, errors.Wrapf(err, "attempt %d", i)
		}
		prob.Params = &params
		start := time.Now()
		a, err := l.Backend.Solve(ctx, prob)
		if err != nil {
			return nil, trace, errors.Wrapf(err, "attempt %d", i)
		}

		next, reason := decide(&params, a)
		step := Step{
			Attempt:    i,
			Backend:    l.Backend.Name(),
			Method:     params.ILPMethod,
			Align:      params.AlignSingularities,
			Repeats:    params.RepeatLosingConstraintsIterations > 0 && params.RepeatsAny(),
			HardParity: params.HardParityConstraint,
			TimeLimit:  params.TimeLimit,
			MinimumGap: params.MinimumGap,
			Status:     a.Status,
			Next:       next,
			Reason:     reason,
			Elapsed:    time.Since(start),
		}
		if a.Status != Failed {
			step.Gap = a.Gap
		}
		trace = append(trace, step)
		klog.Infof("quantize: %s attempt %d %s (gap %.4g): %s, %s", step.Backend, i, a.Status, step.Gap, next, reason)

		switch next {
		case Accept:
			if err = Check(prob.Topology, a.Counts, prob.Mask); err != nil {
				klog.Errorf("quantize: attempt %d returned an invalid quantization: %v", i, err)
				return nil, trace, err
			}
			return a, trace, nil
		case HardenParity:
			params.HardParityConstraint = true
		case Relax:
			params = relax(params)
		case GiveUp:
			return nil, trace, errors.Wrapf(ErrNoFallback, "attempt %d: %s", i, reason)
		}
	}

	return nil, trace, errors.Wrapf(ErrNoFallback, "%d attempts", MaxAttempts)
}

// Check verifies that every active chart is fully decided, has no empty
// side, and an even boundary of at least four.
func Check(t *chart.Topology, res chart.Result, mask chart.Mask) error {
	if len(res) != len(t.Segments) {
		return errors.Wrapf(ErrInvalidQuantization, "%d counts for %d segments", len(res), len(t.Segments))
	}
	counts := res.Values()
	for ci := range t.Charts {
		cid := chart.ChartID(ci)
		if !t.Active(cid, mask) {
			continue
		}
		for _, sid := range t.Charts[ci].Segments {
			if !res[sid].IsFixed() {
				return errors.Wrapf(ErrInvalidQuantization, "chart %d: segment %d is %s", cid, sid, res[sid])
			}
		}
		if !evaluate.Valid(t, counts, cid) {
			return errors.Wrapf(ErrInvalidQuantization, "chart %d: sides %v", cid, t.SideSums(counts, cid))
		}
	}

	return nil
}

package quantize

import (
	"context"

	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/flownet"
	"github.com/katalvlaran/quadquant/ilpform"
	"github.com/katalvlaran/quadquant/singularity"
)

// Status classifies an Attempt.
type Status int8

const (
	// Found: a solution with even chart boundaries.
	Found Status = iota
	// Wrong: a solution with at least one odd chart boundary.
	Wrong
	// Failed: infeasible, or no solution within the limits.
	Failed
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case Wrong:
		return "wrong"
	}

	return "failed"
}

// MarshalText renders the status name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Problem is one backend call. Result holds the fixed segments and Mask the
// charts to solve; both may be nil. Flow may be nil for the defaults.
type Problem struct {
	Topology *chart.Topology
	Result   chart.Result
	Mask     chart.Mask
	Params   *config.Parameters
	Flow     *config.FlowConfig
}

// Attempt is the outcome of one backend call. Counts is nil when Status is
// Failed.
type Attempt struct {
	Counts    chart.Result
	Status    Status
	Gap       float64
	Pairs     *singularity.Info
	FlowStats []flownet.Stats
	ILPStats  []ilpform.Stats
}

// Backend solves a Problem. Infeasibility and exhausted limits are reported
// as a Failed attempt; errors are fatal.
type Backend interface {
	Name() string
	Solve(ctx context.Context, prob Problem) (*Attempt, error)
}

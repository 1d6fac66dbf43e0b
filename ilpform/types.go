package ilpform

import (
	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/singularity"
)

// Status classifies an Outcome.
type Status int8

const (
	// Found: every chart boundary is even.
	Found Status = iota
	// Wrong: soft parity left at least one chart boundary odd.
	Wrong
	// Infeasible: no assignment satisfies the constraints.
	Infeasible
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case Wrong:
		return "wrong"
	}

	return "infeasible"
}

// Stats is the cost breakdown of one round. SupportObj is the solver
// objective, penalties included; Obj is the sum of the three evaluated
// terms. AlignmentFull also counts pairs dropped by earlier rounds.
type Stats struct {
	SupportObj    float64 `json:"support_obj"`
	Obj           float64 `json:"obj"`
	Isometry      float64 `json:"cost_isometry"`
	Regularity    float64 `json:"cost_regularity"`
	Alignment     float64 `json:"cost_alignment"`
	AlignmentFull float64 `json:"cost_alignment_full"`
}

// Outcome is the result of Solve. Result is nil when Status is Infeasible.
type Outcome struct {
	Result chart.Result
	Status Status
	Gap    float64
	Stats  []Stats
	Pairs  *singularity.Info
}

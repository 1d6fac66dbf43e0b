package config

import (
	"io"
	"time"

	"github.com/katalvlaran/quadquant/ilp"
)

// Method selects the isometry term of the integer-programming formulation.
type Method string

const (
	LeastSquares Method = "leastsquares"
	Abs          Method = "abs"
)

// Solver selects the quantization backend.
type Solver string

const (
	SolverFlow   Solver = "flow"
	SolverILP    Solver = "ilp"
	SolverGurobi Solver = "gurobi"
)

// Parameters configures one quantization run.
//
// Alpha blends isometry (Alpha) against regularity (1-Alpha). Time limits
// are in seconds. CallbackTimeLimit and CallbackGapLimit are paired
// checkpoints: the solver stops once the elapsed time reaches an entry and
// the gap is at most the matching gap. ClusterSize 0 solves the whole
// topology at once; Workers bounds concurrent cluster solves.
type Parameters struct {
	Alpha     float64 `yaml:"alpha"`
	ILPMethod Method  `yaml:"ilpMethod"`
	Isometry  bool    `yaml:"isometry"`

	RegularityQuadrilaterals          bool    `yaml:"regularityQuadrilaterals"`
	RegularityNonQuadrilaterals       bool    `yaml:"regularityNonQuadrilaterals"`
	RegularityNonQuadrilateralsWeight float64 `yaml:"regularityNonQuadrilateralsWeight"`
	AlignSingularities                bool    `yaml:"alignSingularities"`
	AlignSingularitiesWeight          float64 `yaml:"alignSingularitiesWeight"`

	RepeatLosingConstraintsIterations int  `yaml:"repeatLosingConstraintsIterations"`
	RepeatLosingConstraintsQuads      bool `yaml:"repeatLosingConstraintsQuads"`
	RepeatLosingConstraintsNonQuads   bool `yaml:"repeatLosingConstraintsNonQuads"`
	RepeatLosingConstraintsAlign      bool `yaml:"repeatLosingConstraintsAlign"`
	HardParityConstraint              bool `yaml:"hardParityConstraint"`

	TimeLimit         float64   `yaml:"timeLimit"`
	GapLimit          float64   `yaml:"gapLimit"`
	MinimumGap        float64   `yaml:"minimumGap"`
	CallbackTimeLimit []float64 `yaml:"callbackTimeLimit"`
	CallbackGapLimit  []float64 `yaml:"callbackGapLimit"`

	Solver      Solver `yaml:"solver"`
	ClusterSize int    `yaml:"clusterSize"`
	Workers     int    `yaml:"workers"`
}

// DefaultParameters returns the stock configuration.
func DefaultParameters() Parameters {
	return Parameters{
		Alpha:                             0.02,
		ILPMethod:                         LeastSquares,
		Isometry:                          true,
		RegularityQuadrilaterals:          true,
		RegularityNonQuadrilaterals:       true,
		RegularityNonQuadrilateralsWeight: 0.9,
		AlignSingularities:                true,
		AlignSingularitiesWeight:          0.1,
		RepeatLosingConstraintsIterations: 1,
		RepeatLosingConstraintsAlign:      true,
		HardParityConstraint:              true,
		TimeLimit:                         200,
		GapLimit:                          0,
		MinimumGap:                        0.4,
		CallbackTimeLimit:                 []float64{3, 5, 10, 20, 30, 60, 90, 120},
		CallbackGapLimit:                  []float64{0.005, 0.02, 0.05, 0.10, 0.15, 0.20, 0.25, 0.3},
		Solver:                            SolverFlow,
		Workers:                           1,
	}
}

// Limit is TimeLimit as a duration.
func (p *Parameters) Limit() time.Duration {
	return time.Duration(p.TimeLimit * float64(time.Second))
}

// Checkpoints pairs the callback limits into solver stopping checkpoints.
func (p *Parameters) Checkpoints() []ilp.Checkpoint {
	n := len(p.CallbackTimeLimit)
	if len(p.CallbackGapLimit) < n {
		n = len(p.CallbackGapLimit)
	}
	out := make([]ilp.Checkpoint, n)
	for i := range out {
		out[i] = ilp.Checkpoint{
			After: time.Duration(p.CallbackTimeLimit[i] * float64(time.Second)),
			Gap:   p.CallbackGapLimit[i],
		}
	}

	return out
}

// RepeatsAny reports whether any losing-constraint flag is set.
func (p *Parameters) RepeatsAny() bool {
	return p.RepeatLosingConstraintsQuads || p.RepeatLosingConstraintsNonQuads || p.RepeatLosingConstraintsAlign
}

// Clone returns a deep copy.
func (p Parameters) Clone() Parameters {
	p.CallbackTimeLimit = append([]float64(nil), p.CallbackTimeLimit...)
	p.CallbackGapLimit = append([]float64(nil), p.CallbackGapLimit...)

	return p
}

// Validate checks enums and ranges.
func (p *Parameters) Validate() error {
	switch {
	case p.Alpha < 0 || p.Alpha > 1:
		return invalid("alpha", "%g not in [0, 1]", p.Alpha)
	case p.ILPMethod != LeastSquares && p.ILPMethod != Abs:
		return invalid("ilpMethod", "%q, want %q or %q", p.ILPMethod, LeastSquares, Abs)
	case p.RegularityNonQuadrilateralsWeight < 0:
		return invalid("regularityNonQuadrilateralsWeight", "%g is negative", p.RegularityNonQuadrilateralsWeight)
	case p.AlignSingularitiesWeight < 0:
		return invalid("alignSingularitiesWeight", "%g is negative", p.AlignSingularitiesWeight)
	case p.RepeatLosingConstraintsIterations < 0:
		return invalid("repeatLosingConstraintsIterations", "%d is negative", p.RepeatLosingConstraintsIterations)
	case p.TimeLimit <= 0:
		return invalid("timeLimit", "%g must be positive", p.TimeLimit)
	case p.GapLimit < 0:
		return invalid("gapLimit", "%g is negative", p.GapLimit)
	case p.MinimumGap < 0:
		return invalid("minimumGap", "%g is negative", p.MinimumGap)
	case len(p.CallbackTimeLimit) != len(p.CallbackGapLimit):
		return invalid("callbackGapLimit", "%d entries for %d time limits", len(p.CallbackGapLimit), len(p.CallbackTimeLimit))
	case p.Solver != SolverFlow && p.Solver != SolverILP && p.Solver != SolverGurobi:
		return invalid("solver", "%q, want %q, %q or %q", p.Solver, SolverFlow, SolverILP, SolverGurobi)
	case p.ClusterSize < 0:
		return invalid("clusterSize", "%d is negative", p.ClusterSize)
	case p.Workers < 1:
		return invalid("workers", "%d, want at least 1", p.Workers)
	}
	for i := range p.CallbackTimeLimit {
		if p.CallbackTimeLimit[i] < 0 || p.CallbackGapLimit[i] < 0 {
			return invalid("callbackTimeLimit", "entry %d is negative", i)
		}
	}

	return nil
}

// ReadParameters decodes a parameter document over the defaults.
func ReadParameters(r io.Reader) (*Parameters, error) {
	p := DefaultParameters()
	if err := decode(r, p.fields()); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// LoadParameters reads the parameter document at path.
func LoadParameters(path string) (*Parameters, error) {
	var p *Parameters
	err := withFile(path, func(r io.Reader) (err error) {
		p, err = ReadParameters(r)
		return err
	})

	return p, err
}

func (p *Parameters) fields() fieldSet {
	return fieldSet{
		"alpha":                             &p.Alpha,
		"ilpMethod":                         &p.ILPMethod,
		"isometry":                          &p.Isometry,
		"regularityQuadrilaterals":          &p.RegularityQuadrilaterals,
		"regularityNonQuadrilaterals":       &p.RegularityNonQuadrilaterals,
		"regularityNonQuadrilateralsWeight": &p.RegularityNonQuadrilateralsWeight,
		"alignSingularities":                &p.AlignSingularities,
		"alignSingularitiesWeight":          &p.AlignSingularitiesWeight,
		"repeatLosingConstraintsIterations": &p.RepeatLosingConstraintsIterations,
		"repeatLosingConstraintsQuads":      &p.RepeatLosingConstraintsQuads,
		"repeatLosingConstraintsNonQuads":   &p.RepeatLosingConstraintsNonQuads,
		"repeatLosingConstraintsAlign":      &p.RepeatLosingConstraintsAlign,
		"hardParityConstraint":              &p.HardParityConstraint,
		"timeLimit":                         &p.TimeLimit,
		"gapLimit":                          &p.GapLimit,
		"minimumGap":                        &p.MinimumGap,
		"callbackTimeLimit":                 &p.CallbackTimeLimit,
		"callbackGapLimit":                  &p.CallbackGapLimit,
		"solver":                            &p.Solver,
		"clusterSize":                       &p.ClusterSize,
		"workers":                           &p.Workers,
	}
}

package ilp

import (
	"math"
	"time"
)

// Unbounded is the upper bound of a variable with no upper limit.
var Unbounded = math.Inf(1)

// Var indexes a Model variable.
type Var int

// Term is one coefficient of a linear row.
type Term struct {
	Var  Var
	Coef float64
}

// Sense is the comparison of a linear row against its right-hand side.
type Sense int8

const (
	LE Sense = iota
	EQ
	GE
)

// Status classifies a Result.
type Status int8

const (
	// NoSolution: a limit stopped the search before any incumbent was found.
	NoSolution Status = iota
	// Optimal: the search tree was exhausted.
	Optimal
	// Feasible: a limit stopped the search with an incumbent.
	Feasible
	// Infeasible: the search tree was exhausted without an incumbent.
	Infeasible
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	}

	return "no-solution"
}

// Checkpoint stops the search once After has elapsed and the gap is at most Gap.
type Checkpoint struct {
	After time.Duration
	Gap   float64
}

// Options configures Solve.
//   - TimeLimit: wall-clock budget, 0 disables.
//   - GapLimit: stop when the relative gap is at most GapLimit.
//   - Schedule: additional (elapsed, gap) stopping checkpoints.
//   - MaxNodes: node budget, 0 disables.
//   - Hint: optional starting incumbent, used when feasible.
//   - Tol: simplex tolerance.
type Options struct {
	TimeLimit time.Duration
	GapLimit  float64
	Schedule  []Checkpoint
	MaxNodes  int
	Hint      []float64
	Tol       float64
}

// DefaultOptions returns an unlimited search with a 1e-10 simplex tolerance.
func DefaultOptions() Options {
	return Options{Tol: 1e-10}
}

// Result is the outcome of Solve.
type Result struct {
	X         []float64
	Objective float64
	Bound     float64
	Gap       float64
	Status    Status
	Nodes     int
	Elapsed   time.Duration
}

// HasSolution reports whether X holds an incumbent.
func (r *Result) HasSolution() bool {
	return r != nil && (r.Status == Optimal || r.Status == Feasible)
}

// Int returns the rounded value of v.
func (r *Result) Int(v Var) int {
	return int(math.Round(r.X[v]))
}

package ilp

import (
	"context"
	"math"
)

// Solve minimises the objective of m over its integer-feasible points.
//
// The returned Result carries an incumbent when Status is Optimal or
// Feasible. A ctx that is already done returns ctx.Err(). A ctx that ends
// during the search stops it like the limits in opts: the best incumbent is
// returned as Feasible, or the status is NoSolution.
func Solve(ctx context.Context, m *Model, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	if opts.Tol <= 0 {
		opts.Tol = DefaultOptions().Tol
	}
	e, root, err := newEngine(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return &Result{Status: Infeasible, Bound: math.Inf(1), Gap: math.Inf(1)}, nil
	}

	return e.run(root)
}

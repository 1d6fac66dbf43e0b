// Package ilp solves small mixed-integer programs whose objective is linear
// plus a sum of separable convex functions of integer variables.
//
// A Model holds bounded variables, linear rows (<=, =, >=) and, for integer
// variables, any number of Cost functions. Solve runs a best-bound branch and
// bound with plunging; every node is an LP relaxation solved with the simplex
// method of gonum.org/v1/gonum/optimize/convex/lp.
//
// # Convex costs
//
// A convex cost f on an integer variable x is replaced by its piecewise
// linear interpolant g through the integer points (k, f(k)). g is convex,
// agrees with f at every integer, and is the maximum of its chords
//
//	t >= f(k) + (f(k+1) - f(k)) * (x - k)
//
// so the relaxation minimises an epigraph variable t. Chords are generated
// lazily: a small window around Cost.Guess seeds the pool, and any relaxed
// point where t falls below g gets the chord of its own integer interval.
// Costs that are affine over the variable's range (Zero, AbsDeviation with a
// target at or below the lower bound) fold directly into the objective.
//
// # Limits
//
// Options carry a time limit, a relative gap limit, a node limit and a
// schedule of (elapsed, gap) checkpoints. When a limit stops the search the
// best incumbent is returned with Status Feasible and its gap; reaching a
// limit is not an error. Status Optimal means the search tree was exhausted.
//
// # Standard form
//
// gonum's Simplex expects min cᵀx s.t. Ax = b, x >= 0 with A of full row
// rank and no zero columns. The relaxation shifts every variable by its
// lower bound, gives each inequality (including finite upper bounds and
// chords) its own slack column, drops linearly dependent equality rows once
// at the root, and removes columns that appear in no row.
package ilp

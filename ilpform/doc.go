// Package ilpform quantizes a chart topology with a direct integer program.
//
// Each Unknown segment of an active chart is an integer variable of at least
// one. The objective mirrors the evaluator: a per-segment isometry cost
// (squared or absolute deviation from the scaled length), per-chart
// regularity hinges bounded by continuous auxiliaries, and absolute
// alignment terms for every singularity pair. Every active chart carries a
// parity row sum = 2k + p with k >= 2; p is pinned to zero under a hard
// parity constraint and penalised otherwise.
//
// Solve optionally repeats the program, dropping the regularity of charts
// and the alignment of pairs that the previous round could not satisfy.
package ilpform

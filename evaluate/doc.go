// Package evaluate scores a complete quantization.
//
// The evaluator is a pure function of the topology, the per-segment counts
// and the parameters. It recomputes the isometry, regularity and alignment
// terms the solvers optimise, without any constraint dropped by a re-solve,
// so results of different backends and ladder levels compare directly.
package evaluate

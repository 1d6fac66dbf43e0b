// Package quantize drives the quantization backends.
//
// A Backend turns a Problem into an Attempt. The flow backend runs
// flownet over the bimdf MIP solver; the ilp backend runs the direct
// ilpform program. A Ladder wraps one backend in the escalation sequence:
// accept a solution within the minimum gap, force hard parity after a
// wrong solution, relax the objective once, and otherwise fail with
// ErrNoFallback. Every accepted result is checked for side minimum and
// boundary parity before it leaves the ladder.
//
// Engine.Quantize partitions the topology into clusters when asked to,
// runs one ladder per cluster on a bounded worker group, merges the
// results and scores the merged quantization.
package quantize

// Package bimdf models bi-directed min-deviation flow networks and solves
// them as integer programs.
//
// Every edge joins two node ends, each of which is either a head or a tail.
// The flow x on an edge adds +x to the balance of a node at a head end and -x
// at a tail end; a self-loop contributes at both of its ends, so a tail-tail
// loop withdraws 2x. A flow is valid when every edge respects its
// [Lower, Upper] bounds and every node balances to zero. The objective is the
// sum of separable convex per-edge costs, typically the deviation of the flow
// from a target.
//
// # Solvers
//
// Solver abstracts the optimiser. MIPSolver maps each edge to an integer
// variable of package ilp and each node to an equality row, then runs the
// branch and bound with the given limits.
package bimdf

// Package flownet quantizes a chart topology by minimum-deviation flow.
//
// Every side of an active chart becomes a node, or two nodes when the side
// belongs to a singularity pair. Segments are edges between the side nodes
// of their two charts (through one or two intermediate nodes) whose flow is
// the segment count, with a quadratic deviation cost towards the scaled
// physical length. Inside a chart, zero-cost edges join each side with the
// sides that must balance it in a regular layout; absolute-cost emergency
// edges absorb irregularity at a price matching the integer-programming
// regularity term. Segments on the mesh boundary, or bordering charts outside
// the solve, close through one global boundary node.
//
// Solve runs the network through a bimdf.Solver, checks the result, and
// optionally re-solves once with unsatisfied charts unweighted and unaligned
// singularity pairs dropped.
package flownet

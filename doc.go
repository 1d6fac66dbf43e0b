// Package quadquant computes quadrangulation counts for patch layouts.
//
// A patch layout is a set of charts, each bounded by three to six sides that
// are chains of segments shared with neighbouring charts. Quantization picks
// a positive integer subdivision count for every segment so that each chart
// can be filled with quads: every side gets at least one edge and every
// chart boundary is even. Among the valid choices the engine trades off
// isometry (counts close to length over target edge length), regularity
// (opposite sides balanced) and alignment of paired singularities.
//
// Packages:
//
//	chart/       topology model, subdivision results, document codec
//	builder/     synthetic layouts (polygons, grids, chains)
//	singularity/ pairing of singular charts across quad corridors
//	evaluate/    cost report of a quantization
//	config/      parameters and flow configuration documents
//	bimdf/       bi-directed minimum-deviation flow networks and solver
//	flownet/     flow formulation with the two-round constraint loop
//	ilp/         small mixed-integer solver (simplex relaxation, branch and bound)
//	ilpform/     integer-program formulation with repeated constraint dropping
//	cluster/     chart partitioning into independently solved clusters
//	quantize/    backends, escalation ladder and the parallel engine
//	runlog/      sqlite log of solved runs
//
// The quadquant command in cmd/quadquant wraps the engine: solve, eval,
// pairs and runs.
package quadquant

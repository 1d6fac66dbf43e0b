// Package cluster splits a chart topology into independently solvable
// groups of charts.
//
// Partition grows clusters breadth-first from the lowest unassigned chart
// until each reaches the requested size, then dissolves clusters that came
// out too small into their neighbours. FixCrossSegments pins every segment
// between two clusters to an even count so the clusters decouple;
// SubProblem and Merge cut one cluster out of a result and write its
// solution back.
package cluster

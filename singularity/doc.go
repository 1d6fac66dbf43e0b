// Package singularity pairs irregular charts whose boundary alignment must
// agree through a chain of regular (valence-4) charts.
//
// Starting from every side of every active chart of valence 3, 5 or 6, Find
// follows the single segment on that side into the neighbouring chart. While
// the neighbour is a quad it continues through the opposite side, recording
// the quad as an intermediate link. The trace succeeds when it lands on
// another irregular chart whose ID is greater than the origin (each pair is
// therefore found once). It fails on the mesh boundary, on a side made of
// more than one segment, on a segment whose subdivision is already decided,
// or on an inactive chart.
//
// Traces that come back to their own origin chart are dropped and counted in
// Info.SelfPairs. They are not resolved by any other mechanism.
//
// Every side touched by a pair, at the endpoints and on both sides of every
// intermediate quad, is marked in Info.Paired. The flow network gives such
// sides two flow slots instead of one.
package singularity

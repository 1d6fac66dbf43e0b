package bimdf

import (
	"fmt"
	"math"

	"github.com/katalvlaran/quadquant/ilp"
)

// Unbounded is the Upper of an edge without capacity.
const Unbounded = math.MaxInt

// Node and Edge index a Network.
type (
	Node int
	Edge int
)

// EdgeSpec describes one bi-directed edge. A nil Cost is free.
type EdgeSpec struct {
	U, V         Node
	UHead, VHead bool
	Cost         ilp.Cost
	Lower, Upper int
}

// Solution holds the flow of every edge, indexed by Edge.
type Solution []int

// Network is a bi-directed flow network.
type Network struct {
	nodes int
	edges []EdgeSpec
}

// NewNetwork returns an empty network.
func NewNetwork() *Network { return &Network{} }

// AddNode appends a node.
func (n *Network) AddNode() Node {
	n.nodes++

	return Node(n.nodes - 1)
}

// AddEdge appends an edge. It panics on unknown nodes or Lower > Upper,
// which are construction bugs.
func (n *Network) AddEdge(s EdgeSpec) Edge {
	if s.U < 0 || int(s.U) >= n.nodes || s.V < 0 || int(s.V) >= n.nodes {
		panic(fmt.Sprintf("bimdf: edge %d-%d references unknown node", s.U, s.V))
	}
	if s.Lower < 0 || s.Lower > s.Upper {
		panic(fmt.Sprintf("bimdf: edge bounds [%d, %d]", s.Lower, s.Upper))
	}
	n.edges = append(n.edges, s)

	return Edge(len(n.edges) - 1)
}

// NumNodes returns the node count.
func (n *Network) NumNodes() int { return n.nodes }

// NumEdges returns the edge count.
func (n *Network) NumEdges() int { return len(n.edges) }

// Spec returns the description of e.
func (n *Network) Spec(e Edge) EdgeSpec { return n.edges[e] }

// sign is the balance contribution of one unit of flow at an end.
func sign(head bool) int {
	if head {
		return 1
	}

	return -1
}

// Balance returns the net inflow of every node under sol.
func (n *Network) Balance(sol Solution) []int {
	bal := make([]int, n.nodes)
	for i, s := range n.edges {
		bal[s.U] += sign(s.UHead) * sol[i]
		bal[s.V] += sign(s.VHead) * sol[i]
	}

	return bal
}

// IsValid checks bounds and balance. Violations are a *BoundError or a
// *BalanceError, both matching ErrInvalidFlow.
func (n *Network) IsValid(sol Solution) error {
	if len(sol) != len(n.edges) {
		return fmt.Errorf("%w: %d values for %d edges", ErrInvalidFlow, len(sol), len(n.edges))
	}
	for i, s := range n.edges {
		if sol[i] < s.Lower || sol[i] > s.Upper {
			return &BoundError{Edge: Edge(i), Value: sol[i], Lower: s.Lower, Upper: s.Upper}
		}
	}
	for v, b := range n.Balance(sol) {
		if b != 0 {
			return &BalanceError{Node: Node(v), Excess: b}
		}
	}

	return nil
}

// EdgeCost evaluates the cost of e at flow x.
func (n *Network) EdgeCost(e Edge, x int) float64 {
	if c := n.edges[e].Cost; c != nil {
		return c.Eval(float64(x))
	}

	return 0
}

// Cost is the total cost of sol.
func (n *Network) Cost(sol Solution) float64 {
	sum := 0.0
	for i := range n.edges {
		sum += n.EdgeCost(Edge(i), sol[i])
	}

	return sum
}

package ilp_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/quadquant/ilp"
)

// ExampleSolve packs three binary items into a knapsack of capacity five.
func ExampleSolve() {
	m := ilp.NewModel()
	values := []float64{5, 4, 3}
	weights := []float64{2, 3, 1}
	items := make([]ilp.Var, len(values))
	terms := make([]ilp.Term, len(values))
	for i := range values {
		items[i] = m.AddInt(0, 1)
		m.AddObjective(items[i], -values[i])
		terms[i] = ilp.Term{Var: items[i], Coef: weights[i]}
	}
	m.AddRow(terms, ilp.LE, 5)

	res, err := ilp.Solve(context.Background(), m, ilp.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s %.1f %d%d%d\n", res.Status, res.Objective, res.Int(items[0]), res.Int(items[1]), res.Int(items[2]))
	// Output: optimal -9.0 110
}

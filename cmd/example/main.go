package main

import (
	"context"
	"fmt"
	"log"

	"github.com/bartolsthoorn/learn2branch/branch"
	"github.com/bartolsthoorn/learn2branch/highs"
	"github.com/bartolsthoorn/learn2branch/observation"
	"github.com/bartolsthoorn/learn2branch/solver"
)

func main() {
	// Maximize: 10a + 13b + 7c + 8d
	// Subject to: 3a + 4b + 2c + 3d <= 7, a,b,c,d binary
	model := &highs.Model{
		Maximize: true,
		ColCosts: []float64{10, 13, 7, 8},
		ColLower: []float64{0, 0, 0, 0},
		ColUpper: []float64{1, 1, 1, 1},
		VarTypes: []highs.VariableType{highs.Integer, highs.Integer, highs.Integer, highs.Integer},
	}
	model.AddLeRow([]float64{3, 4, 2, 3}, 7)

	env, err := branch.New(model)
	if err != nil {
		log.Fatal(err)
	}

	obs := observation.NodeBipartite{}
	node := observation.FocusNode{}
	res, err := env.Run(context.Background(), func(s *solver.State) (int, error) {
		o := obs.Obtain(s)
		n := node.Obtain(s)
		col, err := branch.MostFractional(s)
		if err != nil {
			return 0, err
		}
		fmt.Printf("node %d depth %d bound %.2f: branch on x%d\n", n.Number, n.Depth, n.LowerBound, col)
		fmt.Printf("  column features (%dx%d), x%d: %.3f\n",
			o.ColumnFeatures.Rows, o.ColumnFeatures.Cols, col, o.ColumnFeatures.Row(col))
		return col, nil
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("status = %s, objective = %.2f, nodes = %d\n", res.Status, res.Objective, res.Nodes)
	fmt.Printf("solution = %v\n", res.Solution)
}

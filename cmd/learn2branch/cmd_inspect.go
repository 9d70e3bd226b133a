package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bartolsthoorn/learn2branch/branch"
	"github.com/bartolsthoorn/learn2branch/observation"
	"github.com/bartolsthoorn/learn2branch/solver"
	"github.com/bartolsthoorn/learn2branch/tensor"
)

func newInspectCmd(a *app) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "inspect MODEL",
		Short: "Print node observations at the first decision points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := a.cfg.Policy()
			if err != nil {
				return err
			}
			opts := append(a.cfg.BranchOptions(), branch.WithLogger(a.log))
			env, err := branch.FromFile(args[0], opts...)
			if err != nil {
				return err
			}

			obs := observation.Dict(map[string]observation.Function[any]{
				"node":      observation.Erase[*observation.FocusNodeObs](observation.FocusNode{}),
				"bipartite": observation.Erase[observation.NodeBipartiteObs](observation.NodeBipartite{}),
			})
			out := cmd.OutOrStdout()
			step := 0
			_, err = env.Run(cmd.Context(), func(s *solver.State) (int, error) {
				if step == 0 {
					obs.Reset(s)
				}
				o := obs.Obtain(s)
				col, err := policy(s)
				if err != nil {
					return 0, err
				}
				printObservation(out, step, o["node"].(*observation.FocusNodeObs), o["bipartite"].(observation.NodeBipartiteObs), col)
				step++
				if step >= steps {
					return col, errStop
				}
				return col, nil
			})
			if err != nil && !errors.Is(err, errStop) {
				return err
			}
			if step == 0 {
				fmt.Fprintln(out, "no decision point: the root relaxation is integral or infeasible")
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of decision points to print")
	return cmd
}

func printObservation(w io.Writer, step int, node *observation.FocusNodeObs, obs observation.NodeBipartiteObs, action int) {
	fmt.Fprintf(w, "== step %d", step)
	if node != nil {
		fmt.Fprintf(w, ": node %d, depth %d, lower bound %g, estimate %g", node.Number, node.Depth, node.LowerBound, node.Estimate)
	}
	fmt.Fprintf(w, ", action %d\n", action)

	fmt.Fprintln(w, "column features:")
	printDense(w, "col", observation.ColumnFeatureNames, obs.ColumnFeatures)
	fmt.Fprintln(w, "row features:")
	printDense(w, "row", observation.RowFeatureNames, obs.RowFeatures)
	fmt.Fprintf(w, "matrix: %dx%d, %d nonzeros\n", obs.Matrix.Rows, obs.Matrix.Cols, obs.Matrix.NNZ())
}

func printDense(w io.Writer, label string, names []string, d tensor.Dense) {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%s\t\n", label, strings.Join(names, "\t"))
	for i := range d.Rows {
		fmt.Fprintf(tw, "%d", i)
		for _, v := range d.Row(i) {
			fmt.Fprintf(tw, "\t%.4g", v)
		}
		fmt.Fprintln(tw, "\t")
	}
	tw.Flush()
}

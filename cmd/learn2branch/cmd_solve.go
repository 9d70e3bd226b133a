package main

import (
	"encoding/json"
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bartolsthoorn/learn2branch/branch"
)

type solveFlags struct {
	policy    string
	nodeLimit int64
	jsonOut   bool
}

func newSolveCmd(a *app) *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve MODEL",
		Short: "Run a branch-and-bound search with a built-in policy",
		Long: `Run a search on MODEL (any format HiGHS reads) and print the result.

Policies:
  first   - branch on the first fractional column
  most    - branch on the most fractional column
  random  - branch on a random fractional column (seeded)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.policy != "" {
				a.cfg.Branch.Policy = f.policy
			}
			if cmd.Flags().Changed("node-limit") {
				a.cfg.Branch.NodeLimit = f.nodeLimit
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			policy, err := a.cfg.Policy()
			if err != nil {
				return err
			}

			opts := append(a.cfg.BranchOptions(), branch.WithLogger(a.log))
			env, err := branch.FromFile(args[0], opts...)
			if err != nil {
				return err
			}
			res, err := env.Run(cmd.Context(), policy)
			if err != nil {
				return err
			}
			return printResult(cmd, res, f.jsonOut)
		},
	}
	cmd.Flags().StringVarP(&f.policy, "policy", "p", "", "branching policy (first, most, random)")
	cmd.Flags().Int64Var(&f.nodeLimit, "node-limit", 0, "stop after this many nodes (0 = no limit)")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "print the result as JSON")
	return cmd
}

type resultJSON struct {
	Episode      string    `json:"episode"`
	Status       string    `json:"status"`
	Objective    *float64  `json:"objective,omitempty"`
	Solution     []float64 `json:"solution,omitempty"`
	Nodes        int64     `json:"nodes"`
	LPs          int64     `json:"lps"`
	LPIterations int64     `json:"lp_iterations"`
	Decisions    int64     `json:"decisions"`
	Seconds      float64   `json:"seconds"`
}

func printResult(cmd *cobra.Command, res *branch.Result, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		r := resultJSON{
			Episode:      res.Episode.String(),
			Status:       res.Status.String(),
			Solution:     res.Solution,
			Nodes:        res.Nodes,
			LPs:          res.LPs,
			LPIterations: res.LPIterations,
			Decisions:    res.Decisions,
			Seconds:      res.Duration.Seconds(),
		}
		if !math.IsNaN(res.Objective) {
			r.Objective = &res.Objective
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "episode\t%s\n", res.Episode)
	fmt.Fprintf(tw, "status\t%s\n", res.Status)
	if res.HasSolution() {
		fmt.Fprintf(tw, "objective\t%g\n", res.Objective)
	}
	fmt.Fprintf(tw, "nodes\t%d\n", res.Nodes)
	fmt.Fprintf(tw, "lp iterations\t%d\n", res.LPIterations)
	fmt.Fprintf(tw, "decisions\t%d\n", res.Decisions)
	fmt.Fprintf(tw, "time\t%s\n", res.Duration)
	return tw.Flush()
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bartolsthoorn/learn2branch/reward"
)

type collectFlags struct {
	episodes    int
	parallelism int
	out         string
	codec       string
}

func newCollectCmd(a *app) *cobra.Command {
	f := &collectFlags{}
	cmd := &cobra.Command{
		Use:   "collect MODEL...",
		Short: "Record branching samples for imitation learning",
		Long: `Run the configured policy on every MODEL and write one dataset file per
episode. Each sample holds the bipartite observation, the focused node, the
candidate columns, the chosen column and the negated simplex iterations
spent until the next decision.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("episodes") {
				a.cfg.Collect.Episodes = f.episodes
			}
			if flags.Changed("parallelism") {
				a.cfg.Collect.Parallelism = f.parallelism
			}
			if flags.Changed("out") {
				a.cfg.Dataset.Dir = f.out
			}
			if flags.Changed("codec") {
				a.cfg.Dataset.Codec = f.codec
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			policy, err := a.cfg.Policy()
			if err != nil {
				return err
			}
			codec, err := a.cfg.Codec()
			if err != nil {
				return err
			}

			c := &collector{
				policy:  policy,
				reward:  &reward.NegLPIterations{},
				codec:   codec,
				outDir:  a.cfg.Dataset.Dir,
				options: a.cfg.BranchOptions(),
				log:     a.log,
			}
			stats, err := c.collect(cmd.Context(), args, a.cfg.Collect.Episodes, a.cfg.Collect.Parallelism)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tSTATUS\tSAMPLES\tNODES")
			total := 0
			for _, st := range stats {
				total += st.Samples
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", st.File, st.Result.Status, st.Samples, st.Result.Nodes)
			}
			fmt.Fprintf(tw, "total\t\t%d\t\n", total)
			if ferr := tw.Flush(); err == nil {
				err = ferr
			}
			return err
		},
	}
	cmd.Flags().IntVar(&f.episodes, "episodes", 1, "episodes per model")
	cmd.Flags().IntVarP(&f.parallelism, "parallelism", "j", 4, "searches running at once")
	cmd.Flags().StringVarP(&f.out, "out", "o", "samples", "output directory")
	cmd.Flags().StringVar(&f.codec, "codec", "zstd", "dataset codec (none, lz4, zstd)")
	return cmd
}

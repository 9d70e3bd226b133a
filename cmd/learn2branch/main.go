// Command learn2branch runs branch-and-bound searches with pluggable
// branching policies, inspects node observations and collects training
// samples.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartolsthoorn/learn2branch/config"
	"github.com/bartolsthoorn/learn2branch/internal/logging"
	"github.com/bartolsthoorn/learn2branch/internal/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs after flag parsing.
type app struct {
	configPath string
	logLevel   string

	cfg  config.Config
	log  *logging.Logger
	stop func(context.Context) error
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "learn2branch",
		Short: "Observe and control branching decisions of a MIP search",
		Long: `learn2branch solves mixed-integer programs by branch-and-bound over
HiGHS LP relaxations and hands every branching decision to a policy.

Subcommands:
  solve    - Run a search with a built-in policy
  inspect  - Print node observations at the first decision points
  collect  - Record (observation, action, reward) samples to disk

Examples:
  learn2branch solve model.mps --policy most
  learn2branch inspect model.mps --steps 2
  learn2branch collect a.mps b.mps --episodes 8 --out samples/`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (YAML or JSON)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newSolveCmd(a), newInspectCmd(a), newCollectCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Observability.LogLevel = a.logLevel
	}
	level, err := logging.ParseLevel(cfg.Observability.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = newLogger(cfg.Observability.LogFormat, level)

	a.stop, err = telemetry.Init(cmd.Context(), telemetry.Config{
		ServiceName:   "learn2branch",
		TraceExporter: cfg.Observability.TraceExporter,
		MetricsAddr:   cfg.Observability.MetricsAddr,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if a.stop == nil {
		return nil
	}
	return a.stop(context.WithoutCancel(cmd.Context()))
}

func newLogger(format string, level slog.Level) *logging.Logger {
	if format == "json" {
		return logging.NewJSON(os.Stderr, level)
	}
	return logging.NewText(os.Stderr, level)
}

// errStop ends a search early on purpose.
var errStop = errors.New("stop")

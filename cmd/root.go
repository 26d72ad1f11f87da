package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tandem-sim/tandem-sim/sim/trace"
)

var (
	logLevel   string // Log verbosity level
	configFile string // Optional parameter file (yaml, json, toml)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "tandem-sim",
	Short: "Discrete-event simulator for a two-stage queue fed by ON/OFF sources",
}

// newRunCommand builds the `run` command. Model parameters may come from
// flags, TANDEMSIM_* environment variables or --config; flags win.
func newRunCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Run one tandem simulation and print its results as JSON",
		Run: func(cmd *cobra.Command, args []string) {
			setupLogging(logLevel)

			params, err := newParams(cmd, configFile)
			if err != nil {
				logrus.Fatalf("Unable to read parameters: %v", err)
			}
			cfg, err := configFromParams(params)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			if err := cfg.Validate(); err != nil {
				logrus.Fatalf("%v", err)
			}

			traceLevel := params.GetString(flagTraceLevel)
			if !trace.IsValidTraceLevel(traceLevel) {
				logrus.Fatalf("Invalid trace level: %s", traceLevel)
			}

			logrus.Infof("Starting simulation: %+v", cfg)
			report, summary, err := runSimulation(cmd.Context(), cfg, trace.TraceConfig{Level: trace.TraceLevel(traceLevel)})
			if err != nil {
				logrus.Fatalf("Simulation failed: %v", err)
			}
			if summary != nil {
				logrus.Infof("Forwarding trace: %d decisions, %d forwarded, %d absorbed, per node %v",
					summary.TotalDecisions, summary.ForwardedCount, summary.AbsorbedCount, summary.NodeDistribution)
			}
			if err := writeReport(cmd.OutOrStdout(), report); err != nil {
				logrus.Fatalf("Unable to write results: %v", err)
			}
			logrus.Info("Simulation complete.")
		},
	}
	registerModelFlags(c)
	c.Flags().String(flagTraceLevel, string(trace.TraceLevelNone), "Forwarding trace level (none, decisions)")
	return c
}

// setupLogging applies the --log level; logs go to stderr so stdout carries only results.
func setupLogging(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", level)
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)
}

// Execute runs the CLI root command. An interrupt cancels the command's
// context, which stops a running simulation between events.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Parameter file; keys match the flag names")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newSweepCommand())
	rootCmd.AddCommand(newServeCommand())
}

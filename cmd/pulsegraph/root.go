package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/pulsegraph/internal/cli"
	"github.com/spf13/cobra"
)

var rootOpts cli.Options

var rootCmd = &cobra.Command{
	Use:   "pulsegraph",
	Short: "Pulsegraph simulates pulse propagation through module networks",
	Long: `Pulsegraph loads a network of flip-flops and conjunctions fed by a broadcaster,
presses its button and answers how many pulses flow and when a target module
first receives a low pulse.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(cmd *cobra.Command) (*cli.App, error) {
	return cli.NewApp(rootOpts, cmd.OutOrStdout())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.Input, "input", "i", "", "Graph file (.txt, .yaml, .json) or Loam directory")
	rootCmd.PersistentFlags().StringVar(&rootOpts.ConfigPath, "config", "", "Settings file (default pulsegraph.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootOpts.LogLevel, "log-level", "", "debug, info, warn or error (overrides the config)")
}

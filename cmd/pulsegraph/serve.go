package main

import (
	"strings"

	"github.com/aretw0/pulsegraph"
	"github.com/aretw0/pulsegraph/internal/cli"
	"github.com/aretw0/pulsegraph/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the queries and a live graph over a JSON API. Live state changes are
streamed on /events and Prometheus metrics are exposed on /metrics when enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		watch, _ := cmd.Flags().GetBool("watch")
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if cli.IsTerminal(cmd.OutOrStdout()) {
			tui.PrintBanner(cmd.OutOrStdout(), strings.TrimSpace(pulsegraph.Version))
		}
		return app.Serve(cmd.Context(), addr, watch)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default server.addr from the config)")
	serveCmd.Flags().Bool("watch", false, "Reload the graph when its definition changes")
}

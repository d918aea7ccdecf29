package main

import (
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the network as a Mermaid flowchart",
	Long:  `Prints a Mermaid flowchart of the network. With --target, the target and the conjunction feeding it are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("target")
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.Graph(cmd.Context(), target)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("target", "", "Module to highlight")
}

package main

import (
	"github.com/spf13/cobra"
)

var pressCmd = &cobra.Command{
	Use:   "press",
	Short: "Press the button and show the pulses and state after each press",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt64("count")
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.Press(cmd.Context(), n)
	},
}

func init() {
	rootCmd.AddCommand(pressCmd)
	pressCmd.Flags().Int64P("count", "n", 1, "Number of presses")
}

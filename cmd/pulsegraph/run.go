package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Count the low and high pulses sent over a number of presses",
	Long: `Presses the button the given number of times from the initial state and
prints the low and high pulse counts and their product. Once the network state
repeats, the rest is extrapolated, so very large press counts are cheap.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		presses, _ := cmd.Flags().GetInt64("presses")
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.RunBounded(cmd.Context(), presses)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int64P("presses", "n", 1000, "Number of button presses")
}

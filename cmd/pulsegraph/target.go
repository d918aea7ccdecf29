package main

import (
	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/spf13/cobra"
)

var targetCmd = &cobra.Command{
	Use:   "target [module]",
	Short: "Find the fewest presses before a module receives a low pulse",
	Long: `Finds the fewest button presses before the target module (rx by default)
receives a low pulse. The target must be fed by a single conjunction whose
inputs are driven by independent sub-networks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := domain.DefaultTarget
		if len(args) > 0 {
			target = args[0]
		}
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.RunTarget(cmd.Context(), target)
	},
}

func init() {
	rootCmd.AddCommand(targetCmd)
}

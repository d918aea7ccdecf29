package main

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the network for errors and warnings",
	Long: `Builds the network and reports its size, unreachable modules and conjunctions
without inputs. With --target, also checks that the target can be answered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("target")
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.Validate(cmd.Context(), target)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("target", "", "Module whose target query is checked")
}

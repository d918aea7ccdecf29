package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/pulsegraph"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pulsegraph",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pulsegraph version %s\n", strings.TrimSpace(pulsegraph.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

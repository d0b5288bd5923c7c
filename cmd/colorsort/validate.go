package main

import (
	"github.com/aretw0/colorsort/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config]",
	Short: "Check a simulation config",
	Long:  `Parses the config, validates the distribution against the palette and limits, and reports whether a perfect sort is feasible.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if len(args) > 0 {
			path = args[0]
		}
		return cli.Validate(cmd.OutOrStdout(), path)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/colorsort"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of colorsort",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "colorsort version %s\n", strings.TrimSpace(colorsort.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

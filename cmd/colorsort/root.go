package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "colorsort",
	Short: "colorsort simulates a distributed color-sorting protocol",
	Long: `colorsort runs a set of processes that exchange colored tokens over
point-to-point messages until each process holds a single color.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Simulation config file (YAML or JSON); defaults to the built-in scenario")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); logging is off when empty")
}

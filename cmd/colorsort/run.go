package main

import (
	"github.com/aretw0/colorsort/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [config]",
	Short: "Run a simulation to completion",
	Long:  `Loads the distribution, runs the protocol until it converges or is forced to complete, and prints the outcome.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if !cmd.Flags().Changed("config") && len(args) > 0 {
			configPath = args[0]
		}
		logLevel, _ := cmd.Flags().GetString("log-level")
		headless, _ := cmd.Flags().GetBool("headless")
		jsonMode, _ := cmd.Flags().GetBool("json")
		report, _ := cmd.Flags().GetBool("report")
		trace, _ := cmd.Flags().GetBool("trace")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Execute(sigCtx, cli.RunOptions{
			ConfigPath: configPath,
			Headless:   headless,
			JSON:       jsonMode,
			Report:     report,
			Trace:      trace,
			LogLevel:   logLevel,
			Output:     cmd.OutOrStdout(),
			Logs:       cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Print only the final status line")
	runCmd.Flags().Bool("json", false, "Print the analysis and final state as JSON")
	runCmd.Flags().Bool("report", false, "Print a markdown report of the run")
	runCmd.Flags().Bool("trace", false, "Print one line per recorded snapshot")

	// 'run' is the default command.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}

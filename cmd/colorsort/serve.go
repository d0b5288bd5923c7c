package main

import (
	"github.com/aretw0/colorsort/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes the simulation over HTTP: state, history and potential queries, start and reset, an SSE event stream and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		logLevel, _ := cmd.Flags().GetString("log-level")
		port, _ := cmd.Flags().GetString("port")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if logLevel == "" {
			logLevel = "info"
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Serve(sigCtx, cli.ServeOptions{
			ConfigPath: configPath,
			Addr:       ":" + port,
			LogLevel:   logLevel,
			JSONLogs:   jsonLogs,
			Logs:       cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("json-logs", false, "Write logs as JSON")
}

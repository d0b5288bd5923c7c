package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/colorsort"
	"github.com/aretw0/colorsort/internal/logging"
	"github.com/aretw0/colorsort/pkg/adapters/mcp"
	"github.com/aretw0/colorsort/pkg/config"
	"github.com/aretw0/colorsort/pkg/observability"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the simulation as an MCP Server.
This allows AI agents to start, reset and inspect runs as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		logLevel, _ := cmd.Flags().GetString("log-level")
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg := config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		// Logs never go to Stdout, which carries JSON-RPC in stdio mode.
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger := logging.New(level)
		log.SetOutput(os.Stderr)

		sim, err := cfg.New(
			colorsort.WithLogger(logger),
			colorsort.WithLifecycleHooks(observability.LoggingHooks(logger)),
		)
		if err != nil {
			return err
		}
		srv := mcp.NewServer(sim, logger)

		switch transport {
		case "stdio":
			logger.Info("Starting colorsort MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting colorsort MCP Server (SSE)", "port", port)
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && err != http.ErrServerClosed {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/colorsort"
	"github.com/aretw0/colorsort/internal/logging"
	"github.com/aretw0/colorsort/pkg/domain"
	"github.com/aretw0/colorsort/pkg/ports"
)

const stateURI = "colorsort://state"

// PotentialResponse is the result of get_potential.
type PotentialResponse struct {
	Potential int  `json:"potential" jsonschema_description:"Tokens not matching their holder's dominant color"`
	Complete  bool `json:"complete" jsonschema_description:"Whether the run has finished"`
}

// HistoryResponse is the result of get_history.
type HistoryResponse struct {
	Total     int                  `json:"total" jsonschema_description:"Number of snapshots recorded in the current run"`
	Snapshots []domain.SystemState `json:"snapshots" jsonschema_description:"The most recent snapshots, oldest first"`
}

// Server wraps a simulator and exposes it as an MCP Server.
type Server struct {
	sim       ports.Simulator
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(sim ports.Simulator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		sim:       sim,
		logger:    logger,
		mcpServer: server.NewMCPServer("colorsort-mcp", strings.TrimSpace(colorsort.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get a snapshot of every process, the pending messages and the run status."),
		mcp.WithOutputSchema[domain.SystemState](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	s.mcpServer.AddTool(mcp.NewTool("get_potential",
		mcp.WithDescription("Get the number of tokens not matching their holder's dominant color. Zero means fully sorted."),
		mcp.WithOutputSchema[PotentialResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetPotential))

	s.mcpServer.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("Get the snapshots recorded during the current run."),
		mcp.WithNumber("last", mcp.Description("Only return the most recent N snapshots (optional)")),
		mcp.WithOutputSchema[HistoryResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetHistory))

	s.mcpServer.AddTool(mcp.NewTool("start_run",
		mcp.WithDescription("Run the protocol until it converges or is forced to complete, then return the final state."),
		mcp.WithOutputSchema[domain.SystemState](),
	), mcp.NewStructuredToolHandler(s.handleStartRun))

	s.mcpServer.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Discard the current run. Optionally replace the initial distribution."),
		mcp.WithString("processes", mcp.Description(`JSON object mapping process IDs to color stacks, e.g. {"P1":["R","G"]} (optional)`)),
		mcp.WithOutputSchema[domain.SystemState](),
	), mcp.NewStructuredToolHandler(s.handleReset))
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.SystemState, error) {
	return s.sim.State(), nil
}

func (s *Server) handleGetPotential(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PotentialResponse, error) {
	return PotentialResponse{
		Potential: s.sim.Potential(),
		Complete:  s.sim.State().Complete,
	}, nil
}

func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (HistoryResponse, error) {
	history, err := s.sim.History(ctx)
	if err != nil {
		return HistoryResponse{}, fmt.Errorf("history failed: %w", err)
	}
	resp := HistoryResponse{Total: len(history), Snapshots: history}
	if last, ok := args["last"].(float64); ok && last > 0 && int(last) < len(history) {
		resp.Snapshots = history[len(history)-int(last):]
	}
	if resp.Snapshots == nil {
		resp.Snapshots = []domain.SystemState{}
	}
	return resp, nil
}

func (s *Server) handleStartRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.SystemState, error) {
	if err := s.sim.Start(ctx); err != nil {
		s.logger.Warn("MCP start_run failed", "error", err)
		return domain.SystemState{}, fmt.Errorf("start failed: %w", err)
	}
	return s.sim.State(), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.SystemState, error) {
	var dist domain.Distribution
	if raw, ok := args["processes"].(string); ok && raw != "" {
		var stacks map[string][]string
		if err := json.Unmarshal([]byte(raw), &stacks); err != nil {
			return domain.SystemState{}, fmt.Errorf("invalid processes: %w", err)
		}
		dist = make(domain.Distribution, len(stacks))
		for id, stack := range stacks {
			dist[domain.ProcessID(id)] = domain.ParseColors(stack)
		}
	}
	if err := s.sim.Reset(ctx, dist); err != nil {
		return domain.SystemState{}, fmt.Errorf("reset failed: %w", err)
	}
	return s.sim.State(), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(stateURI, "Current Simulation State",
		mcp.WithMIMEType("application/json"),
	), s.readState)
}

func (s *Server) readState(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.sim.State())
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      stateURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/colorsort"
	httpAdapter "github.com/aretw0/colorsort/pkg/adapters/http"
	"github.com/aretw0/colorsort/pkg/observability"
)

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	ConfigPath string
	Addr       string
	LogLevel   string
	JSONLogs   bool
	Logs       io.Writer
}

// NewServer wires a simulation, its metrics and its event stream into an http.Server.
func NewServer(opts ServeOptions) (*http.Server, *colorsort.Simulation, error) {
	logs := opts.Logs
	if logs == nil {
		logs = os.Stderr
	}
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := createLogger(logs, opts.LogLevel, opts.JSONLogs)
	if err != nil {
		return nil, nil, err
	}

	metrics := observability.NewMetrics()
	streams := httpAdapter.NewStreamManager()
	streams.SetLogger(logger)

	sim, err := cfg.New(
		colorsort.WithLogger(logger),
		colorsort.WithLifecycleHooks(observability.LoggingHooks(logger)),
		colorsort.WithLifecycleHooks(metrics.Hooks()),
		colorsort.WithLifecycleHooks(streams.Hooks()),
	)
	if err != nil {
		return nil, nil, err
	}

	handler := httpAdapter.NewHandler(sim,
		httpAdapter.WithStreams(streams),
		httpAdapter.WithMetrics(metrics.Handler()),
		httpAdapter.WithLogger(logger),
	)
	return &http.Server{Addr: opts.Addr, Handler: handler}, sim, nil
}

// Serve runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	srv, _, err := NewServer(opts)
	if err != nil {
		return err
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "Starting colorsort server on %s\n", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		fmt.Fprintln(os.Stderr, "colorsort server stopped gracefully")
		return nil
	}
}

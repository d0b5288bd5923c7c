package colorsort

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/colorsort/internal/logging"
	"github.com/aretw0/colorsort/internal/runtime"
	"github.com/aretw0/colorsort/pkg/domain"
	"github.com/aretw0/colorsort/pkg/ports"
)

// Limits holds the tuning values of the run loop and the termination oracle.
type Limits = runtime.Limits

// Analysis summarises the convergence prospects of a distribution.
type Analysis = runtime.Analysis

// DefaultLimits returns the stock tuning values.
func DefaultLimits() Limits {
	return runtime.DefaultLimits()
}

// Analyze reports feasibility and potential of a distribution without running it.
func Analyze(dist domain.Distribution) Analysis {
	return runtime.Analyze(dist)
}

// Simulation is the high-level entry point of the library.
// It wraps the internal runtime and implements ports.Simulator.
type Simulation struct {
	runtime *runtime.Engine
	hooks   []domain.LifecycleHooks
	logger  *slog.Logger
	limits  Limits
	palette domain.Palette
	store   ports.HistoryStore
	Name    string
}

var _ ports.Simulator = (*Simulation)(nil)

// Option defines a functional option for configuring the Simulation.
type Option func(*Simulation)

// WithLifecycleHooks registers observability hooks. It may be used several times.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulation) {
		s.hooks = append(s.hooks, hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithLimits overrides the tuning values. Zero fields keep their defaults.
func WithLimits(l Limits) Option {
	return func(s *Simulation) {
		s.limits = l
	}
}

// WithPalette fixes the palette order. Without it the palette is derived
// from the order in which colors first appear.
func WithPalette(colors ...domain.Color) Option {
	return func(s *Simulation) {
		s.palette = colors
	}
}

// WithHistoryStore sets where run snapshots are recorded.
func WithHistoryStore(store ports.HistoryStore) Option {
	return func(s *Simulation) {
		s.store = store
	}
}

// WithName labels the simulation in logs.
func WithName(name string) Option {
	return func(s *Simulation) {
		s.Name = name
	}
}

// New initializes an idle simulation over the given distribution.
func New(dist domain.Distribution, opts ...Option) (*Simulation, error) {
	s := &Simulation{}
	for _, opt := range opts {
		opt(s)
	}

	// Keep the runtime default from being overwritten by nil.
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.Name != "" {
		s.logger = s.logger.With("simulation", s.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(s.logger),
		runtime.WithLimits(s.limits),
		runtime.WithPalette(s.palette),
		runtime.WithHistoryStore(s.store),
	}
	for _, h := range s.hooks {
		runtimeOpts = append(runtimeOpts, runtime.WithLifecycleHooks(h))
	}

	eng, err := runtime.NewEngine(dist, runtimeOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize simulation: %w", err)
	}
	s.runtime = eng
	return s, nil
}

// Start runs the protocol until it converges or a safety valve ends it.
func (s *Simulation) Start(ctx context.Context) error {
	return s.runtime.Start(ctx)
}

// Reset discards the run. A nil distribution reuses the previous one.
func (s *Simulation) Reset(ctx context.Context, dist domain.Distribution) error {
	return s.runtime.Reset(ctx, dist)
}

// State returns a point-in-time snapshot.
func (s *Simulation) State() domain.SystemState {
	return s.runtime.State()
}

// History returns the snapshots recorded during the current run.
func (s *Simulation) History(ctx context.Context) ([]domain.SystemState, error) {
	return s.runtime.History(ctx)
}

// Potential returns the number of tokens not matching their holder's dominant color.
func (s *Simulation) Potential() int {
	return s.runtime.Potential()
}

// Distribution returns a copy of the configured initial distribution.
func (s *Simulation) Distribution() domain.Distribution {
	return s.runtime.Distribution()
}

// Limits returns the tuning values in use.
func (s *Simulation) Limits() Limits {
	return s.runtime.Limits()
}

// Analyze reports the prospects of the configured distribution.
func (s *Simulation) Analyze() Analysis {
	return runtime.Analyze(s.Distribution())
}

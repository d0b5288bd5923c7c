package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/colorsort/pkg/domain"
)

// LoggingHooks returns hooks that write every lifecycle event to logger.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnInitialized: func(ctx context.Context, e *domain.RunEvent) {
			logger.DebugContext(ctx, "run initialized", "run_id", e.RunID, "processes", e.Processes, "tokens", e.Tokens, "feasible", e.Feasible)
		},
		OnStarting: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run starting", "run_id", e.RunID, "processes", e.Processes, "tokens", e.Tokens, "feasible", e.Feasible)
		},
		OnIterationChecked: func(ctx context.Context, e *domain.IterationEvent) {
			logger.DebugContext(ctx, "checkpoint",
				"run_id", e.RunID,
				"iteration", e.Iteration,
				"potential", e.Potential,
				"best_potential", e.BestPotential,
				"stagnant_checks", e.StagnantChecks,
				"conflicts", e.Conflicts,
				"exchanges", e.Exchanges,
			)
		},
		OnCompleted: func(ctx context.Context, e *domain.CompletionEvent) {
			level := slog.LevelInfo
			if e.Forced {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "run completed",
				"run_id", e.RunID,
				"reason", e.Reason,
				"forced", e.Forced,
				"iteration", e.Iteration,
				"exchanges", e.Exchanges,
				"potential", e.Potential,
			)
		},
		OnWarning: func(ctx context.Context, e *domain.WarningEvent) {
			args := []any{"run_id", e.RunID}
			if e.Err != nil {
				args = append(args, "err", e.Err)
			}
			logger.WarnContext(ctx, e.Message, args...)
		},
		OnReset: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run reset", "run_id", e.RunID)
		},
	}
}

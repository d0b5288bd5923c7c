package observability_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/colorsort"
	"github.com/aretw0/colorsort/pkg/domain"
	"github.com/aretw0/colorsort/pkg/observability"
)

func stalledDist() domain.Distribution {
	return domain.Distribution{"P1": {"R", "G"}, "P2": {"R"}}
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	sim, err := colorsort.New(stalledDist(), colorsort.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sim.Start(ctx))
	require.NoError(t, sim.Reset(ctx, nil))

	n, err := testutil.GatherAndCount(m.Registry(), "colorsort_runs_completed_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `colorsort_runs_completed_total{forced="true",reason="stalled"} 1`)
	assert.Contains(t, string(body), "colorsort_resets_total 1")
	assert.Contains(t, string(body), "colorsort_potential 1")
	assert.Contains(t, string(body), "colorsort_run_iterations_count 1")
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sim, err := colorsort.New(stalledDist(), colorsort.WithLifecycleHooks(observability.LoggingHooks(logger)))
	require.NoError(t, err)
	require.NoError(t, sim.Start(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "run initialized")
	assert.Contains(t, out, "run starting")
	assert.Contains(t, out, "level=WARN msg=\"run completed\"")
	assert.Contains(t, out, "reason=stalled")
}

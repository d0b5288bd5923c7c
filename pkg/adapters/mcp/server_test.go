package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/colorsort"
	"github.com/aretw0/colorsort/pkg/domain"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	sim, err := colorsort.New(domain.Distribution{
		"P1": {"R", "G"},
		"P2": {"G", "R"},
	})
	require.NoError(t, err)
	return NewServer(sim, nil)
}

func TestTools_RunLifecycle(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	p, err := s.handleGetPotential(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Potential)
	assert.False(t, p.Complete)

	st, err := s.handleStartRun(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, st.Status)
	assert.Zero(t, st.Potential)

	h, err := s.handleGetHistory(ctx, req, map[string]interface{}{"last": float64(2)})
	require.NoError(t, err)
	assert.Equal(t, st.Iteration, h.Total)
	require.Len(t, h.Snapshots, 2)
	assert.Equal(t, st.Iteration, h.Snapshots[1].Iteration)

	got, err := s.handleGetState(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestTools_Reset(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	st, err := s.handleReset(ctx, req, map[string]interface{}{"processes": `{"P1":["B","B"],"P2":["Y"]}`})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, st.Status)
	p1, ok := st.Process("P1")
	require.True(t, ok)
	assert.Equal(t, []domain.Color{"B", "B"}, p1.Stack)

	_, err = s.handleReset(ctx, req, map[string]interface{}{"processes": `{"P1":[]}`})
	assert.ErrorIs(t, err, domain.ErrEmptyDistribution)

	_, err = s.handleReset(ctx, req, map[string]interface{}{"processes": `not json`})
	assert.Error(t, err)

	st, err = s.handleReset(ctx, req, map[string]interface{}{})
	require.NoError(t, err, "no processes reuses the distribution")
	assert.Len(t, st.Processes, 2)
}

func TestResource_State(t *testing.T) {
	s := newServer(t)
	contents, err := s.readState(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, stateURI, text.URI)

	var st domain.SystemState
	require.NoError(t, json.Unmarshal([]byte(text.Text), &st))
	assert.Len(t, st.Processes, 2)
	assert.Equal(t, domain.StatusIdle, st.Status)
}

func TestServer_ListsTools(t *testing.T) {
	s := newServer(t)
	resp := s.MCPServer().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"get_state", "get_potential", "get_history", "start_run", "reset"} {
		assert.Contains(t, string(raw), `"name":"`+name+`"`)
	}
}

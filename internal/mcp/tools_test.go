package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/testagent/api/testagentv1"
	"github.com/ashita-ai/testagent/internal/testutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := testutil.NewDriverService(t)
	return New(svc, []byte("syntax = \"proto3\";"), testutil.TestLogger(), "test")
}

func callTool(name string, args map[string]any) mcplib.CallToolRequest {
	return mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// parseToolText extracts the text from the first TextContent in a tool result.
func parseToolText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	for _, c := range result.Content {
		if tc, ok := c.(mcplib.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no TextContent found in tool result")
	return ""
}

func decodeResult(t *testing.T, result *mcplib.CallToolResult) map[string]any {
	t.Helper()
	require.False(t, result.IsError, "unexpected tool error: %s", parseToolText(t, result))
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, result)), &out))
	return out
}

func TestHandleDriverInfo(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleDriverInfo(context.Background(), callTool("testagent_driver_info", nil))
	require.NoError(t, err)
	out := decodeResult(t, result)

	assert.Equal(t, true, out["is_mock"])
	assert.Equal(t, "0.1.0-mock", out["version"])
	assert.Equal(t, "test-model-123", out["model_id"])
	assert.Equal(t, "INTEGRATION_STATE_IDLE", out["integration_state"])
}

func TestServiceLifecycle(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	args := map[string]any{"service_type": "trajectory"}

	result, err := s.handleServiceStatus(ctx, callTool("testagent_service_status", args))
	require.NoError(t, err)
	assert.Equal(t, "SERVICE_STATE_UNKNOWN", decodeResult(t, result)["state"])

	result, err = s.handleStartService(ctx, callTool("testagent_start_service", args))
	require.NoError(t, err)
	out := decodeResult(t, result)
	assert.Equal(t, "SERVICE_TYPE_TRAJECTORY", out["service_type"])
	assert.Equal(t, "SERVICE_STATE_RUNNING", out["state"])

	result, err = s.handleStopService(ctx, callTool("testagent_stop_service", args))
	require.NoError(t, err)
	assert.Equal(t, "SERVICE_STATE_STOPPED", decodeResult(t, result)["state"])

	// Other services are untouched.
	result, err = s.handleServiceStatus(ctx, callTool("testagent_service_status", map[string]any{"service_type": "SERVICE_TYPE_INFERENCE"}))
	require.NoError(t, err)
	assert.Equal(t, "SERVICE_STATE_UNKNOWN", decodeResult(t, result)["state"])
}

func TestServiceArgValidation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleStartService(ctx, callTool("testagent_start_service", map[string]any{}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, parseToolText(t, result), "service_type is required")

	result, err = s.handleStartService(ctx, callTool("testagent_start_service", map[string]any{"service_type": "warp_drive"}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, parseToolText(t, result), "invalid service type")
}

func TestServiceUnknownNumericType(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	args := map[string]any{"service_type": "42"}

	result, err := s.handleStartService(ctx, callTool("testagent_start_service", args))
	require.NoError(t, err)
	out := decodeResult(t, result)
	assert.EqualValues(t, 42, out["service_type"])
	assert.Equal(t, "SERVICE_STATE_RUNNING", out["state"])
}

func TestEngageDisengage(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleEngage(ctx, callTool("testagent_engage", nil))
	require.NoError(t, err)
	assert.Equal(t, "INTEGRATION_STATE_AV", decodeResult(t, result)["integration_state"])
	assert.Equal(t, testagentv1.IntegrationStateAV, s.svc.IntegrationStatus(ctx))

	result, err = s.handleDisengage(ctx, callTool("testagent_disengage", nil))
	require.NoError(t, err)
	assert.Equal(t, "INTEGRATION_STATE_IDLE", decodeResult(t, result)["integration_state"])
}

func TestHandleSampleTrace(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleSampleTrace(ctx, callTool("testagent_sample_trace", map[string]any{"count": 3}))
	require.NoError(t, err)
	require.False(t, result.IsError, parseToolText(t, result))

	var out struct {
		Count  int `json:"count"`
		Events []struct {
			TimestampNs uint64   `json:"timestamp_ns"`
			Groups      []string `json:"groups"`
			Severity    string   `json:"severity"`
			EventType   string   `json:"event_type"`
			Message     string   `json:"message"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, result)), &out))
	assert.Equal(t, 3, out.Count)
	require.Len(t, out.Events, 3)

	var last uint64
	for _, ev := range out.Events {
		assert.Greater(t, ev.TimestampNs, last)
		last = ev.TimestampNs
		assert.Contains(t, []string{"function_call", "log_message"}, ev.EventType)
		assert.Contains(t, []string{"debug", "info", "error"}, ev.Severity)
		assert.NotEmpty(t, ev.Message)
		for _, g := range ev.Groups {
			assert.Contains(t, []string{"trajectory", "navigation", "inference", "safety_critical"}, g)
		}
	}
}

func TestHandleSampleTraceClamped(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleSampleTrace(context.Background(), callTool("testagent_sample_trace", map[string]any{"count": 50}))
	require.NoError(t, err)
	assert.EqualValues(t, 10, decodeResult(t, result)["count"])
}

func TestHandleSampleTraceInvalidCount(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleSampleTrace(context.Background(), callTool("testagent_sample_trace", map[string]any{"count": 0}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

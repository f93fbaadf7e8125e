package mcp

import (
	"context"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/ashita-ai/testagent/api/testagentv1"
)

func (s *Server) registerPrompts() {
	// service-cycle: walks the agent through a start/check/stop round trip.
	s.mcpServer.AddPrompt(
		mcplib.NewPrompt("service-cycle",
			mcplib.WithPromptDescription("Exercise the start/status/stop cycle of one driver sub-service"),
			mcplib.WithArgument("service_type",
				mcplib.ArgumentDescription("Sub-service to cycle: trajectory, navigation, or inference"),
				mcplib.RequiredArgument(),
			),
		),
		s.handleServiceCyclePrompt,
	)

	// engagement-check: verifies the integration state toggles and trace feed.
	s.mcpServer.AddPrompt(
		mcplib.NewPrompt("engagement-check",
			mcplib.WithPromptDescription("Engage the driver, sample the trace feed, then disengage"),
		),
		s.handleEngagementCheckPrompt,
	)
}

func (s *Server) handleServiceCyclePrompt(_ context.Context, request mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) {
	raw := request.Params.Arguments["service_type"]
	if raw == "" {
		return nil, fmt.Errorf("service_type argument is required")
	}
	st, err := testagentv1.ParseServiceType(raw)
	if err != nil {
		return nil, err
	}

	return &mcplib.GetPromptResult{
		Description: fmt.Sprintf("Start/stop cycle for %s", st),
		Messages: []mcplib.PromptMessage{
			{
				Role: mcplib.RoleUser,
				Content: mcplib.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Exercise the %[1]s sub-service of the mock driver:

1. CALL testagent_service_status with service_type="%[1]s" and note the state.
   A service that was never touched reports SERVICE_STATE_UNKNOWN.

2. CALL testagent_start_service with service_type="%[1]s".

3. CALL testagent_service_status again. It must report SERVICE_STATE_RUNNING.

4. CALL testagent_stop_service with service_type="%[1]s".

5. CALL testagent_service_status a final time. It must report SERVICE_STATE_STOPPED.

Report any step whose observed state differs from the expected one.`, st),
				},
			},
		},
	}, nil
}

func (s *Server) handleEngagementCheckPrompt(_ context.Context, _ mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) {
	return &mcplib.GetPromptResult{
		Description: "Engage, sample trace, disengage",
		Messages: []mcplib.PromptMessage{
			{
				Role: mcplib.RoleUser,
				Content: mcplib.TextContent{
					Type: "text",
					Text: `Check the mock driver's engagement path:

1. CALL testagent_driver_info and confirm is_mock is true.

2. CALL testagent_engage. The returned integration_state must be INTEGRATION_STATE_AV.

3. CALL testagent_sample_trace with count=5 and confirm that timestamps increase
   and every groups value is a subset of trajectory, navigation, inference,
   and safety_critical.

4. CALL testagent_disengage. The returned integration_state must be INTEGRATION_STATE_IDLE.`,
				},
			},
		},
	}, nil
}

package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/ashita-ai/testagent/api/testagentv1"
)

const serviceTypeDescription = "Driver sub-service: trajectory, navigation, or inference. Full enum names (SERVICE_TYPE_TRAJECTORY) and integer values are also accepted."

func (s *Server) registerTools() {
	// testagent_driver_info: identity and integration state in one call.
	s.mcpServer.AddTool(
		mcplib.NewTool("testagent_driver_info",
			mcplib.WithDescription(`Report the mock driver's identity and full state.

WHAT YOU GET BACK:
- is_mock: always true for this server
- version: the driver version string
- model_id: the model identifier
- integration_state: INTEGRATION_STATE_IDLE or INTEGRATION_STATE_AV
- services: every sub-service with its current state`),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
		),
		s.handleDriverInfo,
	)

	// testagent_service_status: state of one sub-service.
	s.mcpServer.AddTool(
		mcplib.NewTool("testagent_service_status",
			mcplib.WithDescription(`Report the run state of one driver sub-service.

A service that was never started or stopped reports SERVICE_STATE_UNKNOWN.`),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("service_type",
				mcplib.Description(serviceTypeDescription),
				mcplib.Required(),
			),
		),
		s.handleServiceStatus,
	)

	// testagent_start_service: mark a sub-service running.
	s.mcpServer.AddTool(
		mcplib.NewTool("testagent_start_service",
			mcplib.WithDescription(`Start a driver sub-service. The service reports SERVICE_STATE_RUNNING afterwards.

Starting an already running service is a no-op.`),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("service_type",
				mcplib.Description(serviceTypeDescription),
				mcplib.Required(),
			),
		),
		s.handleStartService,
	)

	// testagent_stop_service: mark a sub-service stopped.
	s.mcpServer.AddTool(
		mcplib.NewTool("testagent_stop_service",
			mcplib.WithDescription(`Stop a driver sub-service. The service reports SERVICE_STATE_STOPPED afterwards.

Stopping a service that was never started is allowed.`),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("service_type",
				mcplib.Description(serviceTypeDescription),
				mcplib.Required(),
			),
		),
		s.handleStopService,
	)

	// testagent_engage: switch integration state to AV.
	s.mcpServer.AddTool(
		mcplib.NewTool("testagent_engage",
			mcplib.WithDescription("Engage the driver. The integration state becomes INTEGRATION_STATE_AV."),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
		),
		s.handleEngage,
	)

	// testagent_disengage: switch integration state to IDLE.
	s.mcpServer.AddTool(
		mcplib.NewTool("testagent_disengage",
			mcplib.WithDescription("Disengage the driver. The integration state becomes INTEGRATION_STATE_IDLE."),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
		),
		s.handleDisengage,
	)

	// testagent_sample_trace: a batch of trace events without pacing.
	s.mcpServer.AddTool(
		mcplib.NewTool("testagent_sample_trace",
			mcplib.WithDescription(`Generate a batch of synthetic trace events immediately.

The gRPC StreamTrace call paces events; this tool returns them in one batch
so an agent can inspect their shape. Timestamps increase strictly within a batch.`),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(false),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithNumber("count",
				mcplib.Description("Number of events to generate. Values above the stream cap are clamped to it."),
				mcplib.Min(1),
				mcplib.Max(100),
				mcplib.DefaultNumber(5),
			),
		),
		s.handleSampleTrace,
	)
}

func (s *Server) handleDriverInfo(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return jsonResult(s.svc.Snapshot(ctx)), nil
}

func (s *Server) handleServiceStatus(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	st, errRes := parseServiceArg(request)
	if errRes != nil {
		return errRes, nil
	}
	return serviceResult(st, s.svc.ServiceStatus(ctx, st)), nil
}

func (s *Server) handleStartService(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	st, errRes := parseServiceArg(request)
	if errRes != nil {
		return errRes, nil
	}
	s.svc.StartService(ctx, st)
	return serviceResult(st, s.svc.ServiceStatus(ctx, st)), nil
}

func (s *Server) handleStopService(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	st, errRes := parseServiceArg(request)
	if errRes != nil {
		return errRes, nil
	}
	s.svc.StopService(ctx, st)
	return serviceResult(st, s.svc.ServiceStatus(ctx, st)), nil
}

func (s *Server) handleEngage(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	s.svc.Engage(ctx)
	return jsonResult(map[string]any{"integration_state": s.svc.IntegrationStatus(ctx)}), nil
}

func (s *Server) handleDisengage(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	s.svc.Disengage(ctx)
	return jsonResult(map[string]any{"integration_state": s.svc.IntegrationStatus(ctx)}), nil
}

func (s *Server) handleSampleTrace(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	count := request.GetInt("count", 5)
	if count < 1 {
		return errorResult("count must be at least 1"), nil
	}
	events := s.svc.SampleTrace(count)
	s.logger.DebugContext(ctx, "mcp: sampled trace", "requested", count, "returned", len(events))
	return jsonResult(map[string]any{
		"count":  len(events),
		"events": compactEvents(events),
	}), nil
}

func parseServiceArg(request mcplib.CallToolRequest) (testagentv1.ServiceType, *mcplib.CallToolResult) {
	raw := request.GetString("service_type", "")
	if raw == "" {
		return 0, errorResult("service_type is required")
	}
	st, err := testagentv1.ParseServiceType(raw)
	if err != nil {
		return 0, errorResult(err.Error())
	}
	return st, nil
}

func serviceResult(st testagentv1.ServiceType, state testagentv1.ServiceState) *mcplib.CallToolResult {
	return jsonResult(map[string]any{
		"service_type": st,
		"state":        state,
	})
}

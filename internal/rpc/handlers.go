// Package rpc adapts the driver facade to gRPC.
package rpc

import (
	"context"

	"github.com/ashita-ai/testagent/api/testagentv1"
	"github.com/ashita-ai/testagent/internal/service/driver"
	"github.com/ashita-ai/testagent/internal/service/trace"
)

// Handlers implements testagentv1.TestAgentServiceServer over a driver.Service.
type Handlers struct {
	testagentv1.UnimplementedTestAgentServiceServer
	svc *driver.Service
}

// NewHandlers wraps svc.
func NewHandlers(svc *driver.Service) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) IsWayveDriverMock(ctx context.Context, _ *testagentv1.Empty) (*testagentv1.Boolean, error) {
	return &testagentv1.Boolean{Value: h.svc.IsMock(ctx)}, nil
}

func (h *Handlers) GetWayveDriverVersion(ctx context.Context, _ *testagentv1.Empty) (*testagentv1.WayveDriverVersionResponse, error) {
	return &testagentv1.WayveDriverVersionResponse{Version: h.svc.Version(ctx)}, nil
}

func (h *Handlers) GetIntegrationStatus(ctx context.Context, _ *testagentv1.Empty) (*testagentv1.IntegrationStatusResponse, error) {
	return &testagentv1.IntegrationStatusResponse{State: h.svc.IntegrationStatus(ctx)}, nil
}

func (h *Handlers) GetModelId(ctx context.Context, _ *testagentv1.Empty) (*testagentv1.ModelIdResponse, error) {
	return &testagentv1.ModelIdResponse{ModelId: h.svc.ModelID(ctx)}, nil
}

func (h *Handlers) GetServiceStatus(ctx context.Context, req *testagentv1.ServiceTypeRequest) (*testagentv1.ServiceStatusResponse, error) {
	return &testagentv1.ServiceStatusResponse{State: h.svc.ServiceStatus(ctx, req.GetServiceType())}, nil
}

func (h *Handlers) StartService(ctx context.Context, req *testagentv1.ServiceTypeRequest) (*testagentv1.Empty, error) {
	h.svc.StartService(ctx, req.GetServiceType())
	return &testagentv1.Empty{}, nil
}

func (h *Handlers) StopService(ctx context.Context, req *testagentv1.ServiceTypeRequest) (*testagentv1.Empty, error) {
	h.svc.StopService(ctx, req.GetServiceType())
	return &testagentv1.Empty{}, nil
}

func (h *Handlers) EngageWayveDriver(ctx context.Context, _ *testagentv1.Empty) (*testagentv1.Empty, error) {
	h.svc.Engage(ctx)
	return &testagentv1.Empty{}, nil
}

func (h *Handlers) DisengageWayveDriver(ctx context.Context, _ *testagentv1.Empty) (*testagentv1.Empty, error) {
	h.svc.Disengage(ctx)
	return &testagentv1.Empty{}, nil
}

// StreamTrace ends with OK whichever way the stream stops; a failed send
// means the consumer is already gone.
func (h *Handlers) StreamTrace(_ *testagentv1.Empty, stream testagentv1.TestAgentService_StreamTraceServer) error {
	h.svc.StreamTrace(stream.Context(), trace.SinkFunc(stream.Send))
	return nil
}

// Package driver implements the mock driver's control-plane operations over
// the state store and the trace streamer.
//
// Every unary operation is total: it never fails for business reasons.
// Unknown service types are accepted and report Unknown until set.
package driver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ashita-ai/testagent/api/testagentv1"
	"github.com/ashita-ai/testagent/internal/model"
	"github.com/ashita-ai/testagent/internal/service/trace"
	"github.com/ashita-ai/testagent/internal/state"
)

// Service is the facade the transports call into.
type Service struct {
	store    *state.Store
	streamer *trace.Streamer
	logger   *slog.Logger
	dispatch *dispatcher
	now      func() time.Time

	// writeMu orders each store write together with its change
	// notification, so hooks observe changes in store order. Reads never
	// take it.
	writeMu sync.Mutex
}

// New creates a Service. hooks may be nil.
func New(store *state.Store, streamer *trace.Streamer, logger *slog.Logger, hooks ...StateHook) *Service {
	return &Service{
		store:    store,
		streamer: streamer,
		logger:   logger,
		dispatch: newDispatcher(hooks, logger),
		now:      time.Now,
	}
}

// IsMock reports whether the driver is a mock. Always true for this service
// unless configured otherwise.
func (s *Service) IsMock(ctx context.Context) bool {
	v := s.store.MockMode()
	s.logger.DebugContext(ctx, "is mock", "value", v)
	return v
}

// Version returns the configured driver version string.
func (s *Service) Version(ctx context.Context) string {
	v := s.store.Version()
	s.logger.DebugContext(ctx, "driver version", "value", v)
	return v
}

// ModelID returns the configured model identifier.
func (s *Service) ModelID(ctx context.Context) string {
	v := s.store.ModelID()
	s.logger.DebugContext(ctx, "model id", "value", v)
	return v
}

// IntegrationStatus returns the current integration state.
func (s *Service) IntegrationStatus(ctx context.Context) testagentv1.IntegrationState {
	v := s.store.IntegrationState()
	s.logger.DebugContext(ctx, "integration status", "state", v)
	return v
}

// ServiceStatus returns the recorded state of t, Unknown if never set.
func (s *Service) ServiceStatus(ctx context.Context, t testagentv1.ServiceType) testagentv1.ServiceState {
	v := s.store.ServiceState(t)
	s.logger.DebugContext(ctx, "service status", "service_type", t, "state", v)
	return v
}

// StartService marks t Running. Repeated calls leave it Running.
func (s *Service) StartService(ctx context.Context, t testagentv1.ServiceType) {
	s.setServiceState(ctx, t, testagentv1.ServiceStateRunning)
}

// StopService marks t Stopped.
func (s *Service) StopService(ctx context.Context, t testagentv1.ServiceType) {
	s.setServiceState(ctx, t, testagentv1.ServiceStateStopped)
}

func (s *Service) setServiceState(ctx context.Context, t testagentv1.ServiceType, v testagentv1.ServiceState) {
	s.writeMu.Lock()
	s.store.SetServiceState(t, v)
	s.dispatch.enqueue(model.NewServiceChange(t, v, s.now().UTC()))
	s.writeMu.Unlock()
	s.logger.DebugContext(ctx, "service state set", "service_type", t, "state", v)
}

// Engage sets the integration state to AV.
func (s *Service) Engage(ctx context.Context) {
	s.SetIntegrationState(ctx, testagentv1.IntegrationStateAV)
}

// Disengage sets the integration state to Idle.
func (s *Service) Disengage(ctx context.Context) {
	s.SetIntegrationState(ctx, testagentv1.IntegrationStateIdle)
}

// SetIntegrationState overwrites the integration state with any value. It
// backs Engage and Disengage and is exposed for test setup.
func (s *Service) SetIntegrationState(ctx context.Context, v testagentv1.IntegrationState) {
	s.writeMu.Lock()
	s.store.SetIntegrationState(v)
	s.dispatch.enqueue(model.NewIntegrationChange(v, s.now().UTC()))
	s.writeMu.Unlock()
	s.logger.DebugContext(ctx, "integration state set", "state", v)
}

// Snapshot returns a consistent copy of the whole driver state.
func (s *Service) Snapshot(context.Context) model.DriverStatus {
	return s.store.Snapshot()
}

// StreamTrace streams synthetic trace events to sink until the cap, ctx
// cancellation, or the first failed send.
func (s *Service) StreamTrace(ctx context.Context, sink trace.Sink) trace.StreamResult {
	return s.streamer.Run(ctx, sink)
}

// SampleTrace returns up to the stream cap of generated events without
// pacing them.
func (s *Service) SampleTrace(n int) []*testagentv1.TraceEvent {
	return s.streamer.Sample(n)
}

package testagent

import (
	"context"
	"net/http"

	"github.com/ashita-ai/testagent/api/testagentv1"
)

// StateHook receives async notifications after driver state mutations.
// Multiple hooks may be registered via multiple WithStateHook calls.
// Hook methods run in goroutines and must not block indefinitely.
// Failures are logged but do not fail the originating RPC.
type StateHook interface {
	OnStateChange(ctx context.Context, change StateChange) error
}

// StateHookFunc adapts a plain function to StateHook.
type StateHookFunc func(ctx context.Context, change StateChange) error

// OnStateChange calls f.
func (f StateHookFunc) OnStateChange(ctx context.Context, change StateChange) error {
	return f(ctx, change)
}

// TraceGenerator produces the synthetic events sent on the trace feed.
// When provided via WithTraceGenerator, replaces the built-in random
// generator. Generate may be called from several streams at once.
// Timestamps are forced strictly increasing within each stream regardless
// of what Generate returns.
type TraceGenerator interface {
	Generate() *testagentv1.TraceEvent
}

// TraceGeneratorFunc adapts a plain function to TraceGenerator.
type TraceGeneratorFunc func() *testagentv1.TraceEvent

// Generate calls f.
func (f TraceGeneratorFunc) Generate() *testagentv1.TraceEvent { return f() }

// Middleware wraps the admin HTTP mux. Middlewares run inside the standard
// chain (request id, tracing, logging, recovery), in registration order.
type Middleware func(http.Handler) http.Handler

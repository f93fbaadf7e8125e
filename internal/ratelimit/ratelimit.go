// Package ratelimit provides a pluggable rate limiting interface and the
// transport adapters that enforce it on gRPC calls and admin HTTP requests.
//
// Keys are per client peer, so one noisy test harness cannot starve another.
package ratelimit

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ashita-ai/testagent/internal/telemetry"
)

// Limiter decides whether a request identified by key should be allowed.
// Implementations must be safe for concurrent use.
type Limiter interface {
	// Allow returns true if the request should proceed.
	// Returning an error signals a limiter malfunction; callers treat errors
	// as fail-open.
	Allow(ctx context.Context, key string) (bool, error)

	// Close releases resources (cleanup goroutines, connections).
	Close() error
}

// NoopLimiter permits every request. Used when rate limiting is disabled.
type NoopLimiter struct{}

// Allow always returns true.
func (NoopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

// Close is a no-op.
func (NoopLimiter) Close() error { return nil }

// New returns a MemoryLimiter when enabled, otherwise a NoopLimiter.
func New(enabled bool, rps float64, burst int) Limiter {
	if !enabled {
		return NoopLimiter{}
	}
	return NewMemoryLimiter(rps, burst)
}

var rejections = sync.OnceValue(func() metric.Int64Counter {
	c, _ := telemetry.Meter("testagent/ratelimit").Int64Counter("testagent.ratelimit.rejected",
		metric.WithDescription("Calls refused by the rate limiter, by transport"),
	)
	return c
})

func recordRejection(ctx context.Context, transport string) {
	rejections().Add(ctx, 1, metric.WithAttributes(attribute.String("transport", transport)))
}

// Package ctxutil provides shared context key accessors.
//
// The gRPC interceptors and the admin HTTP middleware both populate these
// values; rpc, server, and mcp read them without importing one another.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	keyRequestID contextKey = "request_id"
	keyCallMeta  contextKey = "call_meta"
)

// WithRequestID returns a new context carrying the given request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// RequestIDFromContext extracts the request id from the context.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(keyRequestID).(string); ok {
		return v
	}
	return ""
}

// NewRequestID generates a fresh request id.
func NewRequestID() string {
	return uuid.New().String()
}

// CallMeta describes the inbound call that a context belongs to.
type CallMeta struct {
	RequestID string
	Transport string // "grpc", "http", or "mcp"
	Method    string // full gRPC method, HTTP route, or MCP tool name
	Peer      string
}

// WithCallMeta returns a new context carrying meta. It also sets the request id.
func WithCallMeta(ctx context.Context, meta CallMeta) context.Context {
	ctx = context.WithValue(ctx, keyCallMeta, meta)
	if meta.RequestID != "" {
		ctx = WithRequestID(ctx, meta.RequestID)
	}
	return ctx
}

// CallMetaFromContext extracts the call metadata from the context.
func CallMetaFromContext(ctx context.Context) (CallMeta, bool) {
	v, ok := ctx.Value(keyCallMeta).(CallMeta)
	return v, ok
}

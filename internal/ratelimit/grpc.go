package ratelimit

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// healthMethodPrefix marks the standard health service, which health
// checkers may call as often as they like.
const healthMethodPrefix = "/grpc.health.v1.Health/"

// PeerKey keys a gRPC call on the caller's host. Calls without peer info
// share one bucket.
func PeerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	return hostOnly(p.Addr.String())
}

func allow(ctx context.Context, limiter Limiter, logger *slog.Logger, method string) error {
	if strings.HasPrefix(method, healthMethodPrefix) {
		return nil
	}
	key := PeerKey(ctx)
	ok, err := limiter.Allow(ctx, key)
	if err != nil {
		logger.Warn("rate limiter error, allowing call", "error", err, "key", key, "method", method)
		return nil
	}
	if !ok {
		recordRejection(ctx, "grpc")
		return status.Errorf(codes.ResourceExhausted, "rate limit exceeded for %s", key)
	}
	return nil
}

// UnaryServerInterceptor rejects unary calls over the limit with
// codes.ResourceExhausted.
func UnaryServerInterceptor(limiter Limiter, logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if err := allow(ctx, limiter, logger, info.FullMethod); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor charges one token when a stream opens.
func StreamServerInterceptor(limiter Limiter, logger *slog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if err := allow(ss.Context(), limiter, logger, info.FullMethod); err != nil {
			return err
		}
		return handler(srv, ss)
	}
}

package rpc

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/ashita-ai/testagent/internal/ctxutil"
	"github.com/ashita-ai/testagent/internal/telemetry"
)

// RequestIDHeader is the metadata key carrying the request id in both
// directions.
const RequestIDHeader = "x-request-id"

// wrappedStream lets stream interceptors replace the context.
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context { return w.ctx }

func withStreamContext(ss grpc.ServerStream, ctx context.Context) grpc.ServerStream {
	return &wrappedStream{ServerStream: ss, ctx: ctx}
}

// callContext assigns a request id (honoring an inbound x-request-id),
// echoes it in the response header, and records the call metadata.
func callContext(ctx context.Context, method string) context.Context {
	var reqID string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(RequestIDHeader); len(vals) > 0 {
			reqID = vals[0]
		}
	}
	if reqID == "" {
		reqID = ctxutil.NewRequestID()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, reqID))

	var peerAddr string
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		peerAddr = p.Addr.String()
	}
	return ctxutil.WithCallMeta(ctx, ctxutil.CallMeta{
		RequestID: reqID,
		Transport: "grpc",
		Method:    method,
		Peer:      peerAddr,
	})
}

func requestIDUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	return handler(callContext(ctx, info.FullMethod), req)
}

func requestIDStream(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	return handler(srv, withStreamContext(ss, callContext(ss.Context(), info.FullMethod)))
}

// recoveryUnary converts handler panics into codes.Internal.
func recoveryUnary(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if p := recover(); p != nil {
				logger.ErrorContext(ctx, "panic in grpc handler",
					"panic", p,
					"method", info.FullMethod,
					"request_id", ctxutil.RequestIDFromContext(ctx),
					"stack", string(debug.Stack()),
				)
				err = status.Error(grpccodes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

func recoveryStream(logger *slog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if p := recover(); p != nil {
				logger.ErrorContext(ss.Context(), "panic in grpc stream handler",
					"panic", p,
					"method", info.FullMethod,
					"request_id", ctxutil.RequestIDFromContext(ss.Context()),
					"stack", string(debug.Stack()),
				)
				err = status.Error(grpccodes.Internal, "internal server error")
			}
		}()
		return handler(srv, ss)
	}
}

// logCall logs one finished call at a level derived from its status code.
func logCall(ctx context.Context, logger *slog.Logger, method string, start time.Time, err error) {
	code := status.Code(err)
	attrs := []any{
		"method", method,
		"code", code.String(),
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", ctxutil.RequestIDFromContext(ctx),
	}
	if meta, ok := ctxutil.CallMetaFromContext(ctx); ok && meta.Peer != "" {
		attrs = append(attrs, "peer", meta.Peer)
	}
	if tid := telemetry.TraceID(ctx); tid != "" {
		attrs = append(attrs, "trace_id", tid)
	}

	level := slog.LevelInfo
	switch code {
	case grpccodes.OK, grpccodes.Canceled:
	case grpccodes.Internal, grpccodes.Unknown, grpccodes.DataLoss:
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	logger.Log(ctx, level, "grpc call", attrs...)
}

func loggingUnary(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logCall(ctx, logger, info.FullMethod, start, err)
		return resp, err
	}
}

func loggingStream(logger *slog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		logCall(ss.Context(), logger, info.FullMethod, start, err)
		return err
	}
}

type rpcInstruments struct {
	tracer   trace.Tracer
	count    otelmetric.Int64Counter
	duration otelmetric.Float64Histogram
}

func newRPCInstruments() *rpcInstruments {
	meter := telemetry.Meter("testagent/grpc")
	count, _ := meter.Int64Counter("rpc.server.request_count")
	duration, _ := meter.Float64Histogram("rpc.server.duration", otelmetric.WithUnit("ms"))
	return &rpcInstruments{
		tracer:   telemetry.Tracer("testagent/grpc"),
		count:    count,
		duration: duration,
	}
}

// start extracts inbound trace context from metadata and opens a server span.
func (in *rpcInstruments) start(ctx context.Context, method string) (context.Context, trace.Span) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		ctx = otel.GetTextMapPropagator().Extract(ctx, telemetry.MetadataCarrier(md))
	}
	return in.tracer.Start(ctx, method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("rpc.system", "grpc"),
			attribute.String("rpc.method", method),
			attribute.String("rpc.request_id", ctxutil.RequestIDFromContext(ctx)),
		),
	)
}

func (in *rpcInstruments) finish(ctx context.Context, span trace.Span, method string, start time.Time, err error) {
	code := status.Code(err)
	span.SetAttributes(attribute.String("rpc.grpc.status_code", code.String()))
	if err != nil && code != grpccodes.Canceled {
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	attrs := otelmetric.WithAttributes(
		attribute.String("rpc.method", method),
		attribute.String("rpc.grpc.status_code", code.String()),
	)
	in.count.Add(ctx, 1, attrs)
	in.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
}

func (in *rpcInstruments) unary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	ctx, span := in.start(ctx, info.FullMethod)
	resp, err := handler(ctx, req)
	in.finish(ctx, span, info.FullMethod, start, err)
	return resp, err
}

func (in *rpcInstruments) stream(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	start := time.Now()
	ctx, span := in.start(ss.Context(), info.FullMethod)
	err := handler(srv, withStreamContext(ss, ctx))
	in.finish(context.WithoutCancel(ctx), span, info.FullMethod, start, err)
	return err
}

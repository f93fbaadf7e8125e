package rpc

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ashita-ai/testagent/api/testagentv1"
	"github.com/ashita-ai/testagent/internal/ratelimit"
	"github.com/ashita-ai/testagent/internal/service/driver"
)

// DefaultMaxMessageBytes caps inbound and outbound message sizes.
const DefaultMaxMessageBytes = 4 * 1024 * 1024

// ServerConfig holds the dependencies of a gRPC Server.
type ServerConfig struct {
	Service         *driver.Service
	Logger          *slog.Logger
	Limiter         ratelimit.Limiter // nil disables rate limiting
	MaxMessageBytes int               // zero means DefaultMaxMessageBytes
}

// Server is a grpc.Server with TestAgentService and the standard health
// service registered.
type Server struct {
	*grpc.Server
	health *health.Server
}

// NewServer builds the gRPC server. Interceptors run in the order request
// id, recovery, tracing, logging, rate limit, so rejected and panicking
// calls are still traced and logged with their request id.
func NewServer(cfg ServerConfig) *Server {
	maxBytes := cfg.MaxMessageBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxMessageBytes
	}
	instruments := newRPCInstruments()

	unary := []grpc.UnaryServerInterceptor{
		requestIDUnary,
		recoveryUnary(cfg.Logger),
		instruments.unary,
		loggingUnary(cfg.Logger),
	}
	stream := []grpc.StreamServerInterceptor{
		requestIDStream,
		recoveryStream(cfg.Logger),
		instruments.stream,
		loggingStream(cfg.Logger),
	}
	if cfg.Limiter != nil {
		unary = append(unary, ratelimit.UnaryServerInterceptor(cfg.Limiter, cfg.Logger))
		stream = append(stream, ratelimit.StreamServerInterceptor(cfg.Limiter, cfg.Logger))
	}

	gs := grpc.NewServer(
		grpc.MaxRecvMsgSize(maxBytes),
		grpc.MaxSendMsgSize(maxBytes),
		grpc.ChainUnaryInterceptor(unary...),
		grpc.ChainStreamInterceptor(stream...),
	)
	testagentv1.RegisterTestAgentServiceServer(gs, NewHandlers(cfg.Service))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus(testagentv1.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &Server{Server: gs, health: hs}
}

// Serving reports whether the health service currently reports SERVING.
func (s *Server) Serving() bool {
	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{})
	return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
}

// SetNotServing flips every registered service to NOT_SERVING so load
// balancers and clients stop sending new work.
func (s *Server) SetNotServing() {
	s.health.Shutdown()
}

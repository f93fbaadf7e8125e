package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ashita-ai/testagent/internal/ratelimit"
	"github.com/ashita-ai/testagent/internal/service/driver"
)

// Server is the admin HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *slog.Logger
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServerConfig holds all dependencies and configuration for creating a Server.
// Optional fields (nil-safe): Broker, Limiter, MCPServer, GRPCServing,
// ProtoSpec, Middleware.
type ServerConfig struct {
	Service *driver.Service
	Logger  *slog.Logger

	Broker      *Broker
	Limiter     ratelimit.Limiter
	MCPServer   *mcpserver.MCPServer
	GRPCServing func() bool
	ProtoSpec   []byte
	Middleware  []func(http.Handler) http.Handler // applied innermost, in order

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Version      string
}

// New creates a new HTTP server with all routes configured.
func New(cfg ServerConfig) *Server {
	h := NewHandlers(HandlersDeps{
		Service:     cfg.Service,
		Broker:      cfg.Broker,
		GRPCServing: cfg.GRPCServing,
		Logger:      cfg.Logger,
		Version:     cfg.Version,
		ProtoSpec:   cfg.ProtoSpec,
	})

	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/status", h.HandleStatus)
	mux.HandleFunc("PUT /v1/integration-state", h.HandleSetIntegrationState)

	// Long-lived streams.
	mux.HandleFunc("GET /v1/trace", h.HandleTrace)
	mux.HandleFunc("GET /v1/subscribe", h.HandleSubscribe)

	if cfg.MCPServer != nil {
		mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(cfg.MCPServer))
	}

	mux.HandleFunc("GET /test_agent_service.proto", h.HandleProtoSpec)
	mux.HandleFunc("GET /health", h.HandleHealth)

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		handler = cfg.Middleware[i](handler)
	}

	// Middleware chain (outermost executes first):
	// request ID → security headers → tracing → logging → rate limit → recovery → handler.
	handler = recoveryMiddleware(cfg.Logger, handler)
	if cfg.Limiter != nil {
		handler = ratelimit.Middleware(cfg.Limiter, healthExemptKey, cfg.Logger)(handler)
	}
	handler = loggingMiddleware(cfg.Logger, handler)
	handler = tracingMiddleware(handler)
	handler = securityHeadersMiddleware(handler)
	handler = requestIDMiddleware(handler)

	// Request contexts derive from baseCtx, which is cancelled as soon as
	// Shutdown starts so open SSE streams end instead of holding the drain.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	httpServer := &http.Server{
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	httpServer.RegisterOnShutdown(cancelBase)

	return &Server{
		httpServer: httpServer,
		handler:    handler,
		logger:     cfg.Logger,
	}
}

// healthExemptKey rate limits by client IP, except for /health.
func healthExemptKey(r *http.Request) string {
	if r.URL.Path == "/health" {
		return ""
	}
	return ratelimit.IPKeyFunc(r)
}

// Serve accepts connections on lis until Shutdown is called. It returns nil
// after a clean shutdown.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("http server starting", "addr", lis.Addr().String())
	if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Package testagent is the public API for embedding the mock driver test agent.
//
// The test agent serves the TestAgentService gRPC contract backed by an
// in-memory mock driver, plus an optional admin HTTP surface (health, status,
// SSE feeds, MCP). Test harnesses import this package to run the agent
// in-process:
//
//	app, err := testagent.New(
//	    testagent.WithVersion(version),
//	    testagent.WithLogger(logger),
//	    testagent.WithStateHook(myHook),
//	)
//	if err != nil { ... }
//	if err := app.Run(ctx); err != nil { ... }
//
// The import graph enforces a strict no-cycle rule: testagent (root) imports
// internal/*, but internal/* never imports testagent (root). Public types
// (StateChange, StateHook) are standalone; conversion helpers live here
// because this is the only file that sees both sides of the boundary.
package testagent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/ashita-ai/testagent/api"
	"github.com/ashita-ai/testagent/internal/config"
	"github.com/ashita-ai/testagent/internal/mcp"
	"github.com/ashita-ai/testagent/internal/model"
	"github.com/ashita-ai/testagent/internal/ratelimit"
	"github.com/ashita-ai/testagent/internal/rpc"
	"github.com/ashita-ai/testagent/internal/server"
	"github.com/ashita-ai/testagent/internal/service/driver"
	"github.com/ashita-ai/testagent/internal/service/trace"
	"github.com/ashita-ai/testagent/internal/state"
	"github.com/ashita-ai/testagent/internal/telemetry"
)

// App is the test agent lifecycle. Construct with New(), run with Run().
// App has no public fields; use New() options to configure it.
type App struct {
	cfg          config.Config
	svc          *driver.Service
	grpcSrv      *rpc.Server
	grpcLis      net.Listener
	adminSrv     *server.Server // nil when the admin surface is disabled
	adminLis     net.Listener
	limiter      ratelimit.Limiter
	otelShutdown telemetry.Shutdown
	logger       *slog.Logger
	version      string

	shutdownOnce sync.Once
	shutdownErr  error
}

// New wires the driver, binds the gRPC listener (and the admin listener when
// enabled), and returns a ready-to-run App. It does NOT accept connections;
// call Run(). A bind failure is returned as an error.
func New(opts ...Option) (*App, error) {
	o := resolvedOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Configuration: explicit config wins over env, then option overrides.
	var cfg config.Config
	if o.cfg != nil {
		cfg = *o.cfg
	} else {
		var err error
		if cfg, err = config.Load(); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if o.address != "" {
		cfg.Address = o.address
	}
	if o.port != 0 {
		cfg.Port = o.port
	}
	if o.adminPortSet {
		cfg.AdminPort = o.adminPort
	}
	version := o.version
	if version == "" {
		version = "dev"
	}

	logger.Info("testagent starting", "version", version, "addr", cfg.ListenAddr(), "admin_port", cfg.AdminPort)

	otelShutdown, err := telemetry.Init(context.Background(), telemetry.Options{
		Endpoint:    cfg.OTELEndpoint,
		ServiceName: cfg.ServiceName,
		Version:     version,
		Insecure:    cfg.OTELInsecure,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	// Driver core.
	store := state.New(state.Identity{
		IsMock:  cfg.MockMode,
		Version: cfg.DriverVersion,
		ModelID: cfg.ModelID,
	})
	if o.integrationState != nil {
		store.SetIntegrationState(*o.integrationState)
	}

	var gen trace.Generator = trace.NewRandomGenerator()
	if o.generator != nil {
		gen = o.generator
	}
	streamer := trace.NewStreamer(gen, logger,
		trace.WithMaxEvents(cfg.StreamMaxEvents),
		trace.WithInterval(cfg.StreamInterval),
	)

	adminEnabled := cfg.AdminPort > 0 || o.adminListener != nil
	var broker *server.Broker
	var hooks []driver.StateHook
	if adminEnabled {
		broker = server.NewBroker(logger)
		hooks = append(hooks, broker)
	}
	for _, h := range o.stateHooks {
		hooks = append(hooks, &stateHookAdapter{hook: h})
	}
	svc := driver.New(store, streamer, logger, hooks...)

	// Rate limiter, shared by both transports.
	var limiter ratelimit.Limiter
	if cfg.RateLimitEnabled {
		limiter = ratelimit.New(true, cfg.RateLimitRPS, cfg.RateLimitBurst)
		logger.Info("rate limiting: memory (in-process token bucket)",
			"rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	} else {
		logger.Info("rate limiting: disabled")
	}

	grpcSrv := rpc.NewServer(rpc.ServerConfig{
		Service:         svc,
		Logger:          logger,
		Limiter:         limiter,
		MaxMessageBytes: cfg.MaxMessageBytes,
	})

	app := &App{
		cfg:          cfg,
		svc:          svc,
		grpcSrv:      grpcSrv,
		limiter:      limiter,
		otelShutdown: otelShutdown,
		logger:       logger,
		version:      version,
	}

	// cleanup releases whatever was acquired before a bind failure.
	cleanup := func() {
		if app.grpcLis != nil {
			_ = app.grpcLis.Close()
		}
		if limiter != nil {
			_ = limiter.Close()
		}
		_ = otelShutdown(context.Background())
	}

	app.grpcLis = o.listener
	if app.grpcLis == nil {
		if app.grpcLis, err = net.Listen("tcp", cfg.ListenAddr()); err != nil {
			cleanup()
			return nil, fmt.Errorf("grpc listen %s: %w", cfg.ListenAddr(), err)
		}
	}

	if adminEnabled {
		var mcpSrv *mcp.Server
		if cfg.MCPEnabled {
			mcpSrv = mcp.New(svc, api.ProtoSpec, logger, version)
		}

		var middlewares []func(http.Handler) http.Handler
		for _, mw := range o.middlewares {
			middlewares = append(middlewares, mw)
		}

		scfg := server.ServerConfig{
			Service:      svc,
			Logger:       logger,
			Broker:       broker,
			Limiter:      limiter,
			GRPCServing:  grpcSrv.Serving,
			ProtoSpec:    api.ProtoSpec,
			Middleware:   middlewares,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			Version:      version,
		}
		if mcpSrv != nil {
			scfg.MCPServer = mcpSrv.MCPServer()
		}
		app.adminSrv = server.New(scfg)

		app.adminLis = o.adminListener
		if app.adminLis == nil {
			addr := net.JoinHostPort(cfg.Address, strconv.Itoa(cfg.AdminPort))
			if app.adminLis, err = net.Listen("tcp", addr); err != nil {
				cleanup()
				return nil, fmt.Errorf("admin listen %s: %w", addr, err)
			}
		}
	}

	return app, nil
}

// Addr returns the address the gRPC server is bound to.
func (a *App) Addr() net.Addr { return a.grpcLis.Addr() }

// AdminAddr returns the admin HTTP address, or nil when the admin surface
// is disabled.
func (a *App) AdminAddr() net.Addr {
	if a.adminLis == nil {
		return nil
	}
	return a.adminLis.Addr()
}

// Run serves gRPC (and the admin surface, when enabled) until ctx is
// cancelled or a server fails, then shuts down gracefully. On return,
// Shutdown has been called; callers should not call it separately.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("grpc server starting", "addr", a.grpcLis.Addr().String())
		if err := a.grpcSrv.Serve(a.grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	if a.adminSrv != nil {
		g.Go(func() error {
			if err := a.adminSrv.Serve(a.adminLis); err != nil {
				return fmt.Errorf("admin serve: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return a.Shutdown(context.Background())
	})

	return g.Wait()
}

// Shutdown marks the gRPC health service NOT_SERVING, drains in-flight RPCs
// and open trace streams within ShutdownTimeout, then force-stops whatever
// remains. It then stops the admin server, waits for state hooks, and flushes
// telemetry. Safe to call more than once.
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownOnce.Do(func() {
		a.shutdownErr = a.shutdown(ctx)
	})
	return a.shutdownErr
}

func (a *App) shutdown(ctx context.Context) error {
	a.logger.Info("testagent shutting down")
	var errs []error

	a.grpcSrv.SetNotServing()

	drainCtx, cancel := contextWithOptionalTimeout(ctx, a.cfg.ShutdownTimeout)
	defer cancel()

	// Phase 1: gRPC drain.
	stopped := make(chan struct{})
	go func() {
		a.grpcSrv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-drainCtx.Done():
		a.logger.Warn("grpc graceful stop timed out, forcing stop", "timeout", a.cfg.ShutdownTimeout)
		a.grpcSrv.Stop()
		<-stopped
	}

	// Phase 2: admin HTTP drain.
	if a.adminSrv != nil {
		if err := a.adminSrv.Shutdown(drainCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			errs = append(errs, fmt.Errorf("admin shutdown: %w", err))
		}
	}

	// Cleanup. Listeners are already closed if Run was serving them.
	_ = a.grpcLis.Close()
	if a.adminLis != nil {
		_ = a.adminLis.Close()
	}
	a.svc.WaitHooks()
	if a.limiter != nil {
		_ = a.limiter.Close()
	}
	if err := a.otelShutdown(context.Background()); err != nil {
		a.logger.Warn("telemetry shutdown", "error", err)
	}

	a.logger.Info("testagent stopped")
	return errors.Join(errs...)
}

// ── Adapters (defined here because this file imports both sides) ───────────────

// stateHookAdapter wraps a testagent.StateHook to satisfy driver.StateHook.
type stateHookAdapter struct {
	hook StateHook
}

func (a *stateHookAdapter) OnStateChange(ctx context.Context, c model.StateChange) error {
	return a.hook.OnStateChange(ctx, toPublicStateChange(c))
}

func toPublicStateChange(c model.StateChange) StateChange {
	out := StateChange{Kind: StateChangeKind(c.Kind), At: c.At}
	if c.ServiceType != nil {
		out.ServiceType = *c.ServiceType
	}
	if c.ServiceState != nil {
		out.ServiceState = *c.ServiceState
	}
	if c.IntegrationState != nil {
		out.IntegrationState = *c.IntegrationState
	}
	return out
}

// contextWithOptionalTimeout returns parent unchanged (with a no-op cancel)
// when timeout is zero.
func contextWithOptionalTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

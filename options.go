package testagent

import (
	"log/slog"
	"net"

	"github.com/ashita-ai/testagent/api/testagentv1"
	"github.com/ashita-ai/testagent/internal/config"
)

// Option configures an App.
type Option func(*resolvedOptions)

// resolvedOptions holds all extension points after applying defaults.
// Unexported; callers use the With* functions.
type resolvedOptions struct {
	cfg              *config.Config
	address          string
	port             int
	adminPort        int
	adminPortSet     bool
	listener         net.Listener
	adminListener    net.Listener
	logger           *slog.Logger
	version          string
	generator        TraceGenerator
	stateHooks       []StateHook
	middlewares      []Middleware
	integrationState *testagentv1.IntegrationState
}

// WithConfig replaces environment loading with cfg. The config is used
// as given; individual With* overrides still apply on top of it.
func WithConfig(cfg config.Config) Option {
	return func(o *resolvedOptions) { o.cfg = &cfg }
}

// WithAddress overrides the gRPC bind host (TESTAGENT_ADDRESS env var).
func WithAddress(address string) Option {
	return func(o *resolvedOptions) { o.address = address }
}

// WithPort overrides the gRPC port (TESTAGENT_PORT env var).
func WithPort(port int) Option {
	return func(o *resolvedOptions) { o.port = port }
}

// WithAdminPort overrides the admin HTTP port (TESTAGENT_ADMIN_PORT env var).
// Zero disables the admin surface.
func WithAdminPort(port int) Option {
	return func(o *resolvedOptions) {
		o.adminPort = port
		o.adminPortSet = true
	}
}

// WithListener serves gRPC on lis instead of binding the configured address.
// The App takes ownership of lis.
func WithListener(lis net.Listener) Option {
	return func(o *resolvedOptions) { o.listener = lis }
}

// WithAdminListener serves the admin HTTP surface on lis regardless of the
// configured admin port. The App takes ownership of lis.
func WithAdminListener(lis net.Listener) Option {
	return func(o *resolvedOptions) { o.adminListener = lis }
}

// WithLogger sets the structured logger for the App.
// If not set, the default slog logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *resolvedOptions) { o.logger = logger }
}

// WithVersion sets the build version reported by /health, the MCP server,
// and telemetry resources. It does not change the driver version returned
// by GetWayveDriverVersion.
func WithVersion(version string) Option {
	return func(o *resolvedOptions) { o.version = version }
}

// WithTraceGenerator replaces the built-in random trace event generator.
// Only the last call wins.
func WithTraceGenerator(g TraceGenerator) Option {
	return func(o *resolvedOptions) { o.generator = g }
}

// WithStateHook registers a hook that is notified after each state mutation.
// Multiple hooks may be registered; all registered hooks receive every change.
func WithStateHook(hook StateHook) Option {
	return func(o *resolvedOptions) { o.stateHooks = append(o.stateHooks, hook) }
}

// WithMiddleware registers an admin HTTP middleware.
// Applied in registration order: the first-registered middleware is outermost.
func WithMiddleware(mw Middleware) Option {
	return func(o *resolvedOptions) { o.middlewares = append(o.middlewares, mw) }
}

// WithInitialIntegrationState sets the integration state the driver starts
// in. The default is IDLE.
func WithInitialIntegrationState(s testagentv1.IntegrationState) Option {
	return func(o *resolvedOptions) { o.integrationState = &s }
}

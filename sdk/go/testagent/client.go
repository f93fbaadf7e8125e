package testagent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ashita-ai/testagent/api/testagentv1"
)

// DefaultMaxMessageBytes matches the server's default message cap.
const DefaultMaxMessageBytes = 4 * 1024 * 1024

// Config holds the settings needed to construct a Client.
type Config struct {
	// Address is the host:port of the test agent (e.g. "localhost:50051").
	Address string

	// DialTimeout bounds the initial connection attempt. Zero connects
	// lazily on the first call.
	DialTimeout time.Duration

	// MaxMessageBytes caps inbound and outbound messages. Defaults to 4 MiB.
	MaxMessageBytes int

	// DialOptions are appended to the client's defaults.
	DialOptions []grpc.DialOption
}

// Client is a gRPC client for the TestAgentService API.
// All methods are safe for concurrent use.
type Client struct {
	conn   *grpc.ClientConn
	rpc    testagentv1.TestAgentServiceClient
	health healthpb.HealthClient
}

// NewClient creates a Client from the given configuration.
// Returns an error if Address is empty or, when DialTimeout is set, if the
// server cannot be reached in time.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("testagent: Address is required")
	}
	maxBytes := cfg.MaxMessageBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxMessageBytes
	}

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(maxBytes),
			grpc.MaxCallSendMsgSize(maxBytes),
		),
	}, cfg.DialOptions...)

	conn, err := grpc.NewClient(cfg.Address, opts...)
	if err != nil {
		return nil, fmt.Errorf("testagent: dial %s: %w", cfg.Address, err)
	}

	if cfg.DialTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
		defer cancel()
		if err := waitReady(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, &Error{Code: codes.Unavailable, Message: fmt.Sprintf("connect %s: %v", cfg.Address, err)}
		}
	}

	return &Client{
		conn:   conn,
		rpc:    testagentv1.NewTestAgentServiceClient(conn),
		health: healthpb.NewHealthClient(conn),
	}, nil
}

// waitReady drives conn out of IDLE and blocks until it is READY or ctx ends.
func waitReady(ctx context.Context, conn *grpc.ClientConn) error {
	conn.Connect()
	for {
		s := conn.GetState()
		if s == connectivity.Ready {
			return nil
		}
		if s == connectivity.Idle {
			conn.Connect()
		}
		if !conn.WaitForStateChange(ctx, s) {
			return ctx.Err()
		}
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// IsMock reports whether the driver is the mock implementation.
func (c *Client) IsMock(ctx context.Context) (bool, error) {
	resp, err := c.rpc.IsWayveDriverMock(ctx, &testagentv1.Empty{})
	if err != nil {
		return false, wrapError(err)
	}
	return resp.GetValue(), nil
}

// DriverVersion returns the driver version string.
func (c *Client) DriverVersion(ctx context.Context) (string, error) {
	resp, err := c.rpc.GetWayveDriverVersion(ctx, &testagentv1.Empty{})
	if err != nil {
		return "", wrapError(err)
	}
	return resp.GetVersion(), nil
}

// ModelID returns the driver's model identifier.
func (c *Client) ModelID(ctx context.Context) (string, error) {
	resp, err := c.rpc.GetModelId(ctx, &testagentv1.Empty{})
	if err != nil {
		return "", wrapError(err)
	}
	return resp.GetModelId(), nil
}

// IntegrationStatus returns the current integration state.
func (c *Client) IntegrationStatus(ctx context.Context) (IntegrationState, error) {
	resp, err := c.rpc.GetIntegrationStatus(ctx, &testagentv1.Empty{})
	if err != nil {
		return Idle, wrapError(err)
	}
	return resp.GetState(), nil
}

// ServiceStatus returns the run state of one sub-service.
func (c *Client) ServiceStatus(ctx context.Context, t ServiceType) (ServiceState, error) {
	resp, err := c.rpc.GetServiceStatus(ctx, &testagentv1.ServiceTypeRequest{ServiceType: t})
	if err != nil {
		return testagentv1.ServiceStateUnknown, wrapError(err)
	}
	return resp.GetState(), nil
}

// StartService marks a sub-service running.
func (c *Client) StartService(ctx context.Context, t ServiceType) error {
	_, err := c.rpc.StartService(ctx, &testagentv1.ServiceTypeRequest{ServiceType: t})
	return wrapError(err)
}

// StopService marks a sub-service stopped.
func (c *Client) StopService(ctx context.Context, t ServiceType) error {
	_, err := c.rpc.StopService(ctx, &testagentv1.ServiceTypeRequest{ServiceType: t})
	return wrapError(err)
}

// Engage switches the integration state to AV.
func (c *Client) Engage(ctx context.Context) error {
	_, err := c.rpc.EngageWayveDriver(ctx, &testagentv1.Empty{})
	return wrapError(err)
}

// Disengage switches the integration state to IDLE.
func (c *Client) Disengage(ctx context.Context) error {
	_, err := c.rpc.DisengageWayveDriver(ctx, &testagentv1.Empty{})
	return wrapError(err)
}

// StreamTrace consumes the trace feed, calling fn for each event in order.
// It stops after maxEvents events (zero means until the server ends the
// stream), when fn returns an error, or when ctx ends. It returns the number
// of events delivered to fn. A stream the server ends normally returns a
// nil error; ctx cancellation is reported through IsCanceled.
func (c *Client) StreamTrace(ctx context.Context, maxEvents int, fn func(*TraceEvent) error) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.rpc.StreamTrace(ctx, &testagentv1.Empty{})
	if err != nil {
		return 0, wrapError(err)
	}

	n := 0
	for maxEvents <= 0 || n < maxEvents {
		ev, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, wrapError(err)
		}
		n++
		if err := fn(ev); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Health reports whether the server's health service answers SERVING for
// TestAgentService.
func (c *Client) Health(ctx context.Context) (bool, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: testagentv1.ServiceName})
	if err != nil {
		return false, wrapError(err)
	}
	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING, nil
}

package testagent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/ashita-ai/testagent/internal/ratelimit"
	"github.com/ashita-ai/testagent/internal/rpc"
	"github.com/ashita-ai/testagent/internal/testutil"
)

// newTestClient serves a fresh driver over bufconn and returns a Client
// connected to it. Streams are capped at 5 events and unpaced unless opts
// say otherwise.
func newTestClient(t *testing.T, limiter ratelimit.Limiter, opts ...testutil.DriverOptions) *Client {
	t.Helper()
	o := testutil.DriverOptions{MaxEvents: 5}
	if len(opts) > 0 {
		o = opts[0]
	}
	svc := testutil.NewDriverService(t, o)
	srv := rpc.NewServer(rpc.ServerConfig{Service: svc, Logger: testutil.TestLogger(), Limiter: limiter})

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewClient(Config{
		Address:     "passthrough:///bufnet",
		DialTimeout: 5 * time.Second,
		DialOptions: []grpc.DialOption{
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
		},
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// ---------------------------------------------------------------------------
// Identity and state
// ---------------------------------------------------------------------------

func TestIdentity(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()

	mock, err := c.IsMock(ctx)
	if err != nil || !mock {
		t.Fatalf("IsMock = %v, %v; want true, nil", mock, err)
	}
	ver, err := c.DriverVersion(ctx)
	if err != nil || ver != "0.1.0-mock" {
		t.Fatalf("DriverVersion = %q, %v", ver, err)
	}
	model, err := c.ModelID(ctx)
	if err != nil || model != "test-model-123" {
		t.Fatalf("ModelID = %q, %v", model, err)
	}
	state, err := c.IntegrationStatus(ctx)
	if err != nil || state != Idle {
		t.Fatalf("IntegrationStatus = %v, %v; want IDLE", state, err)
	}
}

func TestServiceLifecycle(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()

	for _, step := range []struct {
		name string
		op   func(context.Context, ServiceType) error
		want ServiceState
	}{
		{"start", c.StartService, Running},
		{"stop", c.StopService, Stopped},
		{"restart", c.StartService, Running},
	} {
		if err := step.op(ctx, Trajectory); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		got, err := c.ServiceStatus(ctx, Trajectory)
		if err != nil {
			t.Fatalf("%s: ServiceStatus: %v", step.name, err)
		}
		if got != step.want {
			t.Fatalf("%s: state = %v, want %v", step.name, got, step.want)
		}
	}
}

func TestEngageDisengage(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()

	if err := c.Engage(ctx); err != nil {
		t.Fatal(err)
	}
	if s, _ := c.IntegrationStatus(ctx); s != AV {
		t.Fatalf("after Engage: %v", s)
	}
	if err := c.Disengage(ctx); err != nil {
		t.Fatal(err)
	}
	if s, _ := c.IntegrationStatus(ctx); s != Idle {
		t.Fatalf("after Disengage: %v", s)
	}
}

// ---------------------------------------------------------------------------
// Streaming
// ---------------------------------------------------------------------------

func TestStreamTraceUntilServerEnds(t *testing.T) {
	c := newTestClient(t, nil)

	var last uint64
	n, err := c.StreamTrace(context.Background(), 0, func(ev *TraceEvent) error {
		if ev.GetTimestampNs() <= last {
			return fmt.Errorf("timestamp %d not after %d", ev.GetTimestampNs(), last)
		}
		last = ev.GetTimestampNs()
		return nil
	})
	if err != nil {
		t.Fatalf("StreamTrace: %v", err)
	}
	if n != 5 {
		t.Fatalf("received %d events, want the server cap of 5", n)
	}
}

func TestStreamTraceMaxEvents(t *testing.T) {
	c := newTestClient(t, nil)

	n, err := c.StreamTrace(context.Background(), 2, func(*TraceEvent) error { return nil })
	if err != nil {
		t.Fatalf("StreamTrace: %v", err)
	}
	if n != 2 {
		t.Fatalf("received %d events, want 2", n)
	}
}

func TestStreamTraceCallbackError(t *testing.T) {
	c := newTestClient(t, nil)
	boom := errors.New("boom")

	n, err := c.StreamTrace(context.Background(), 0, func(*TraceEvent) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
}

func TestStreamTraceCancelled(t *testing.T) {
	c := newTestClient(t, nil, testutil.DriverOptions{Interval: 200 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	_, err := c.StreamTrace(ctx, 0, func(*TraceEvent) error {
		cancel()
		return nil
	})
	if !IsCanceled(err) {
		t.Fatalf("err = %v, want Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// Health and errors
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	c := newTestClient(t, nil)

	ok, err := c.Health(context.Background())
	if err != nil || !ok {
		t.Fatalf("Health = %v, %v; want true, nil", ok, err)
	}
}

func TestRateLimited(t *testing.T) {
	c := newTestClient(t, ratelimit.NewMemoryLimiter(0.001, 1))
	ctx := context.Background()

	if _, err := c.IsMock(ctx); err != nil {
		t.Fatalf("first call: %v", err)
	}
	_, err := c.IsMock(ctx)
	if !IsRateLimited(err) {
		t.Fatalf("second call err = %v, want ResourceExhausted", err)
	}
}

func TestNewClientRequiresAddress(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for empty Address")
	}
}

func TestNewClientDialTimeout(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := lis.Addr().String()
	_ = lis.Close()

	_, err = NewClient(Config{Address: addr, DialTimeout: 200 * time.Millisecond})
	if !IsUnavailable(err) {
		t.Fatalf("err = %v, want Unavailable", err)
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name  string
		in    error
		check func(error) bool
	}{
		{"unavailable", status.Error(codes.Unavailable, "down"), IsUnavailable},
		{"canceled status", status.Error(codes.Canceled, "bye"), IsCanceled},
		{"deadline status", status.Error(codes.DeadlineExceeded, "slow"), IsDeadlineExceeded},
		{"rate limited", status.Error(codes.ResourceExhausted, "slow down"), IsRateLimited},
		{"context canceled", context.Canceled, IsCanceled},
		{"context deadline", context.DeadlineExceeded, IsDeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapError(tt.in)
			if !tt.check(err) {
				t.Fatalf("wrapError(%v) = %v did not match", tt.in, err)
			}
		})
	}

	if wrapError(nil) != nil {
		t.Fatal("wrapError(nil) should be nil")
	}
	var e *Error
	if !errors.As(wrapError(status.Error(codes.Internal, "x")), &e) || e.Message != "x" {
		t.Fatalf("expected *Error with message, got %v", e)
	}
}

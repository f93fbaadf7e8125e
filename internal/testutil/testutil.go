// Package testutil provides shared test infrastructure: an in-memory gRPC
// transport and a ready-made driver service.
//
// Usage:
//
//	svc := testutil.NewDriverService(t)
//	srv := rpc.NewServer(rpc.ServerConfig{Service: svc, Logger: testutil.TestLogger()})
//	conn := testutil.DialBufconn(t, srv.Server)
package testutil

import (
	"context"
	"log/slog"
	"net"
	"os"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/ashita-ai/testagent/internal/config"
	"github.com/ashita-ai/testagent/internal/service/driver"
	"github.com/ashita-ai/testagent/internal/service/trace"
	"github.com/ashita-ai/testagent/internal/state"
)

const bufSize = 1 << 20

// DialBufconn serves srv on an in-memory listener and returns a client
// connection to it. Both are torn down when the test ends.
func DialBufconn(t testing.TB, srv *grpc.Server, opts ...grpc.DialOption) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(bufSize)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	opts = append([]grpc.DialOption{
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)
	conn, err := grpc.NewClient("passthrough:///bufnet", opts...)
	if err != nil {
		t.Fatalf("testutil: dial bufconn: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// DriverOptions tunes NewDriverService.
type DriverOptions struct {
	Interval  time.Duration // zero streams without pausing
	MaxEvents int           // zero means the default cap
	Generator trace.Generator
	Hooks     []driver.StateHook
}

// NewDriverService builds a driver.Service with the default identity.
func NewDriverService(t testing.TB, opts ...DriverOptions) *driver.Service {
	t.Helper()
	var o DriverOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	gen := o.Generator
	if gen == nil {
		gen = trace.NewRandomGenerator()
	}
	store := state.New(state.Identity{
		IsMock:  true,
		Version: config.DefaultDriverVersion,
		ModelID: config.DefaultModelID,
	})
	streamer := trace.NewStreamer(gen, TestLogger(),
		trace.WithInterval(o.Interval),
		trace.WithMaxEvents(o.MaxEvents),
	)
	return driver.New(store, streamer, TestLogger(), o.Hooks...)
}

// TestLogger returns a logger configured for test output (warns only).
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

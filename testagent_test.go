package testagent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/ashita-ai/testagent/api/testagentv1"
	"github.com/ashita-ai/testagent/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Address:         "127.0.0.1",
		MockMode:        true,
		DriverVersion:   config.DefaultDriverVersion,
		ModelID:         config.DefaultModelID,
		StreamMaxEvents: 10,
		StreamInterval:  0,
		MCPEnabled:      true,
		ServiceName:     "testagent-test",
		ShutdownTimeout: 2 * time.Second,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return lis
}

// startApp runs app in the background and returns a function that stops it
// and reports Run's error.
func startApp(t *testing.T, app *App) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	var once sync.Once
	var runErr error
	stop := func() error {
		once.Do(func() {
			cancel()
			select {
			case runErr = <-done:
			case <-time.After(5 * time.Second):
				runErr = errors.New("app did not stop")
			}
		})
		return runErr
	}
	t.Cleanup(func() { _ = stop() })
	return stop
}

func dial(t *testing.T, addr net.Addr) testagentv1.TestAgentServiceClient {
	t.Helper()
	conn, err := grpc.NewClient(addr.String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return testagentv1.NewTestAgentServiceClient(conn)
}

func TestAppServesGRPC(t *testing.T) {
	app, err := New(WithConfig(testConfig()), WithListener(listen(t)), WithLogger(discardLogger()))
	require.NoError(t, err)
	assert.Nil(t, app.AdminAddr())
	stop := startApp(t, app)

	client := dial(t, app.Addr())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mock, err := client.IsWayveDriverMock(ctx, &testagentv1.Empty{})
	require.NoError(t, err)
	assert.True(t, mock.GetValue())

	ver, err := client.GetWayveDriverVersion(ctx, &testagentv1.Empty{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDriverVersion, ver.GetVersion())

	_, err = client.StartService(ctx, &testagentv1.ServiceTypeRequest{ServiceType: testagentv1.ServiceTypeInference})
	require.NoError(t, err)
	status, err := client.GetServiceStatus(ctx, &testagentv1.ServiceTypeRequest{ServiceType: testagentv1.ServiceTypeInference})
	require.NoError(t, err)
	assert.Equal(t, testagentv1.ServiceStateRunning, status.GetState())

	require.NoError(t, stop())
}

func TestAppStateHook(t *testing.T) {
	changes := make(chan StateChange, 8)
	hook := StateHookFunc(func(_ context.Context, c StateChange) error {
		changes <- c
		return nil
	})

	app, err := New(WithConfig(testConfig()), WithListener(listen(t)), WithLogger(discardLogger()), WithStateHook(hook))
	require.NoError(t, err)
	startApp(t, app)

	client := dial(t, app.Addr())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = client.EngageWayveDriver(ctx, &testagentv1.Empty{})
	require.NoError(t, err)

	select {
	case c := <-changes:
		assert.Equal(t, IntegrationStateChanged, c.Kind)
		assert.Equal(t, testagentv1.IntegrationStateAV, c.IntegrationState)
		assert.False(t, c.At.IsZero())
	case <-time.After(5 * time.Second):
		t.Fatal("state hook was not called")
	}

	_, err = client.StopService(ctx, &testagentv1.ServiceTypeRequest{ServiceType: testagentv1.ServiceTypeNavigation})
	require.NoError(t, err)

	select {
	case c := <-changes:
		assert.Equal(t, ServiceStopped, c.Kind)
		assert.Equal(t, testagentv1.ServiceTypeNavigation, c.ServiceType)
		assert.Equal(t, testagentv1.ServiceStateStopped, c.ServiceState)
	case <-time.After(5 * time.Second):
		t.Fatal("state hook was not called")
	}
}

func TestAppInitialIntegrationState(t *testing.T) {
	app, err := New(
		WithConfig(testConfig()),
		WithListener(listen(t)),
		WithLogger(discardLogger()),
		WithInitialIntegrationState(testagentv1.IntegrationStateAV),
	)
	require.NoError(t, err)
	startApp(t, app)

	client := dial(t, app.Addr())
	resp, err := client.GetIntegrationStatus(context.Background(), &testagentv1.Empty{})
	require.NoError(t, err)
	assert.Equal(t, testagentv1.IntegrationStateAV, resp.GetState())
}

func TestAppTraceGenerator(t *testing.T) {
	cfg := testConfig()
	cfg.StreamMaxEvents = 3
	gen := TraceGeneratorFunc(func() *testagentv1.TraceEvent {
		return &testagentv1.TraceEvent{
			TimestampNs: 42,
			GroupsMask:  uint32(testagentv1.TraceGroupNavigation),
			Severity:    testagentv1.TraceSeverityInfo,
			EventType:   testagentv1.TraceEventTypeLogMessage,
			Message:     "fixed",
		}
	})

	app, err := New(WithConfig(cfg), WithListener(listen(t)), WithLogger(discardLogger()), WithTraceGenerator(gen))
	require.NoError(t, err)
	startApp(t, app)

	client := dial(t, app.Addr())
	stream, err := client.StreamTrace(context.Background(), &testagentv1.Empty{})
	require.NoError(t, err)

	var events []*testagentv1.TraceEvent
	for {
		ev, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		events = append(events, ev)
	}
	require.Len(t, events, 3)
	for i, ev := range events {
		assert.Equal(t, "fixed", ev.GetMessage())
		if i > 0 {
			assert.Greater(t, ev.GetTimestampNs(), events[i-1].GetTimestampNs())
		}
	}
}

func TestAppAdminSurface(t *testing.T) {
	var sawMiddleware atomic.Bool
	mw := Middleware(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawMiddleware.Store(true)
			next.ServeHTTP(w, r)
		})
	})

	app, err := New(
		WithConfig(testConfig()),
		WithListener(listen(t)),
		WithAdminListener(listen(t)),
		WithLogger(discardLogger()),
		WithVersion("1.2.3"),
		WithMiddleware(mw),
	)
	require.NoError(t, err)
	require.NotNil(t, app.AdminAddr())
	startApp(t, app)

	resp, err := http.Get("http://" + app.AdminAddr().String() + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data struct {
			Status  string `json:"status"`
			Version string `json:"version"`
			GRPC    string `json:"grpc"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	body := envelope.Data
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, "serving", body.GRPC)
	assert.True(t, sawMiddleware.Load())
}

func TestAppBindFailure(t *testing.T) {
	occupied := listen(t)
	defer func() { _ = occupied.Close() }()
	port := occupied.Addr().(*net.TCPAddr).Port

	_, err := New(
		WithConfig(testConfig()),
		WithAddress("127.0.0.1"),
		WithPort(port),
		WithLogger(discardLogger()),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grpc listen 127.0.0.1:"+strconv.Itoa(port))
}

func TestAppShutdownIdempotent(t *testing.T) {
	app, err := New(WithConfig(testConfig()), WithListener(listen(t)), WithLogger(discardLogger()))
	require.NoError(t, err)

	require.NoError(t, app.Shutdown(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))
}

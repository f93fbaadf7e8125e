package testagentv1

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type echoServer struct {
	UnimplementedTestAgentServiceServer
}

func (echoServer) GetServiceStatus(_ context.Context, req *ServiceTypeRequest) (*ServiceStatusResponse, error) {
	if req.GetServiceType() == ServiceTypeTrajectory {
		return &ServiceStatusResponse{State: ServiceStateRunning}, nil
	}
	return &ServiceStatusResponse{State: ServiceStateStopped}, nil
}

func (echoServer) StreamTrace(_ *Empty, stream TestAgentService_StreamTraceServer) error {
	for i := 1; i <= 3; i++ {
		if err := stream.Send(&TraceEvent{TimestampNs: uint64(i), Message: "ev"}); err != nil {
			return err
		}
	}
	return nil
}

func dialBufconn(t *testing.T, srv TestAgentServiceServer) TestAgentServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	RegisterTestAgentServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewTestAgentServiceClient(conn)
}

func TestServiceDescShape(t *testing.T) {
	assert.Equal(t, "wayve.driver.tests.protobuf.TestAgentService", TestAgentService_ServiceDesc.ServiceName)
	assert.Len(t, TestAgentService_ServiceDesc.Methods, 9)
	require.Len(t, TestAgentService_ServiceDesc.Streams, 1)
	assert.True(t, TestAgentService_ServiceDesc.Streams[0].ServerStreams)
	assert.False(t, TestAgentService_ServiceDesc.Streams[0].ClientStreams)
}

func TestClientUnary(t *testing.T) {
	client := dialBufconn(t, echoServer{})
	ctx := context.Background()

	resp, err := client.GetServiceStatus(ctx, &ServiceTypeRequest{ServiceType: ServiceTypeTrajectory})
	require.NoError(t, err)
	assert.Equal(t, ServiceStateRunning, resp.GetState())

	resp, err = client.GetServiceStatus(ctx, &ServiceTypeRequest{ServiceType: ServiceTypeInference})
	require.NoError(t, err)
	assert.Equal(t, ServiceStateStopped, resp.GetState())
}

func TestClientUnimplemented(t *testing.T) {
	client := dialBufconn(t, echoServer{})
	_, err := client.GetModelId(context.Background(), &Empty{})
	require.Error(t, err)
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestClientStream(t *testing.T) {
	client := dialBufconn(t, echoServer{})
	stream, err := client.StreamTrace(context.Background(), &Empty{})
	require.NoError(t, err)

	var got []uint64
	for {
		ev, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, ev.GetTimestampNs())
	}
	assert.Equal(t, []uint64{1, 2, 3}, got)
}

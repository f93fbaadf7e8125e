package testagentv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "wayve.driver.tests.protobuf.TestAgentService"

const (
	TestAgentService_IsWayveDriverMock_FullMethodName     = "/" + ServiceName + "/IsWayveDriverMock"
	TestAgentService_GetWayveDriverVersion_FullMethodName = "/" + ServiceName + "/GetWayveDriverVersion"
	TestAgentService_GetIntegrationStatus_FullMethodName  = "/" + ServiceName + "/GetIntegrationStatus"
	TestAgentService_GetModelId_FullMethodName            = "/" + ServiceName + "/GetModelId"
	TestAgentService_GetServiceStatus_FullMethodName      = "/" + ServiceName + "/GetServiceStatus"
	TestAgentService_StartService_FullMethodName          = "/" + ServiceName + "/StartService"
	TestAgentService_StopService_FullMethodName           = "/" + ServiceName + "/StopService"
	TestAgentService_EngageWayveDriver_FullMethodName     = "/" + ServiceName + "/EngageWayveDriver"
	TestAgentService_DisengageWayveDriver_FullMethodName  = "/" + ServiceName + "/DisengageWayveDriver"
	TestAgentService_StreamTrace_FullMethodName           = "/" + ServiceName + "/StreamTrace"
)

// TestAgentServiceClient is the client API for TestAgentService.
type TestAgentServiceClient interface {
	IsWayveDriverMock(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Boolean, error)
	GetWayveDriverVersion(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*WayveDriverVersionResponse, error)
	GetIntegrationStatus(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*IntegrationStatusResponse, error)
	GetModelId(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ModelIdResponse, error)
	GetServiceStatus(ctx context.Context, in *ServiceTypeRequest, opts ...grpc.CallOption) (*ServiceStatusResponse, error)
	StartService(ctx context.Context, in *ServiceTypeRequest, opts ...grpc.CallOption) (*Empty, error)
	StopService(ctx context.Context, in *ServiceTypeRequest, opts ...grpc.CallOption) (*Empty, error)
	EngageWayveDriver(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
	DisengageWayveDriver(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
	StreamTrace(ctx context.Context, in *Empty, opts ...grpc.CallOption) (TestAgentService_StreamTraceClient, error)
}

type testAgentServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTestAgentServiceClient binds a client to cc.
func NewTestAgentServiceClient(cc grpc.ClientConnInterface) TestAgentServiceClient {
	return &testAgentServiceClient{cc}
}

func (c *testAgentServiceClient) IsWayveDriverMock(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Boolean, error) {
	out := new(Boolean)
	if err := c.cc.Invoke(ctx, TestAgentService_IsWayveDriverMock_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *testAgentServiceClient) GetWayveDriverVersion(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*WayveDriverVersionResponse, error) {
	out := new(WayveDriverVersionResponse)
	if err := c.cc.Invoke(ctx, TestAgentService_GetWayveDriverVersion_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *testAgentServiceClient) GetIntegrationStatus(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*IntegrationStatusResponse, error) {
	out := new(IntegrationStatusResponse)
	if err := c.cc.Invoke(ctx, TestAgentService_GetIntegrationStatus_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *testAgentServiceClient) GetModelId(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ModelIdResponse, error) {
	out := new(ModelIdResponse)
	if err := c.cc.Invoke(ctx, TestAgentService_GetModelId_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *testAgentServiceClient) GetServiceStatus(ctx context.Context, in *ServiceTypeRequest, opts ...grpc.CallOption) (*ServiceStatusResponse, error) {
	out := new(ServiceStatusResponse)
	if err := c.cc.Invoke(ctx, TestAgentService_GetServiceStatus_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *testAgentServiceClient) StartService(ctx context.Context, in *ServiceTypeRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, TestAgentService_StartService_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *testAgentServiceClient) StopService(ctx context.Context, in *ServiceTypeRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, TestAgentService_StopService_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *testAgentServiceClient) EngageWayveDriver(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, TestAgentService_EngageWayveDriver_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *testAgentServiceClient) DisengageWayveDriver(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, TestAgentService_DisengageWayveDriver_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *testAgentServiceClient) StreamTrace(ctx context.Context, in *Empty, opts ...grpc.CallOption) (TestAgentService_StreamTraceClient, error) {
	stream, err := c.cc.NewStream(ctx, &TestAgentService_ServiceDesc.Streams[0], TestAgentService_StreamTrace_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &testAgentServiceStreamTraceClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// TestAgentService_StreamTraceClient receives the server-streamed trace feed.
type TestAgentService_StreamTraceClient interface {
	Recv() (*TraceEvent, error)
	grpc.ClientStream
}

type testAgentServiceStreamTraceClient struct {
	grpc.ClientStream
}

func (x *testAgentServiceStreamTraceClient) Recv() (*TraceEvent, error) {
	m := new(TraceEvent)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// TestAgentServiceServer is the server API for TestAgentService.
// Implementations must embed UnimplementedTestAgentServiceServer.
type TestAgentServiceServer interface {
	IsWayveDriverMock(context.Context, *Empty) (*Boolean, error)
	GetWayveDriverVersion(context.Context, *Empty) (*WayveDriverVersionResponse, error)
	GetIntegrationStatus(context.Context, *Empty) (*IntegrationStatusResponse, error)
	GetModelId(context.Context, *Empty) (*ModelIdResponse, error)
	GetServiceStatus(context.Context, *ServiceTypeRequest) (*ServiceStatusResponse, error)
	StartService(context.Context, *ServiceTypeRequest) (*Empty, error)
	StopService(context.Context, *ServiceTypeRequest) (*Empty, error)
	EngageWayveDriver(context.Context, *Empty) (*Empty, error)
	DisengageWayveDriver(context.Context, *Empty) (*Empty, error)
	StreamTrace(*Empty, TestAgentService_StreamTraceServer) error
	mustEmbedUnimplementedTestAgentServiceServer()
}

// UnimplementedTestAgentServiceServer answers every call with codes.Unimplemented.
type UnimplementedTestAgentServiceServer struct{}

func (UnimplementedTestAgentServiceServer) IsWayveDriverMock(context.Context, *Empty) (*Boolean, error) {
	return nil, status.Error(codes.Unimplemented, "method IsWayveDriverMock not implemented")
}
func (UnimplementedTestAgentServiceServer) GetWayveDriverVersion(context.Context, *Empty) (*WayveDriverVersionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetWayveDriverVersion not implemented")
}
func (UnimplementedTestAgentServiceServer) GetIntegrationStatus(context.Context, *Empty) (*IntegrationStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetIntegrationStatus not implemented")
}
func (UnimplementedTestAgentServiceServer) GetModelId(context.Context, *Empty) (*ModelIdResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetModelId not implemented")
}
func (UnimplementedTestAgentServiceServer) GetServiceStatus(context.Context, *ServiceTypeRequest) (*ServiceStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetServiceStatus not implemented")
}
func (UnimplementedTestAgentServiceServer) StartService(context.Context, *ServiceTypeRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method StartService not implemented")
}
func (UnimplementedTestAgentServiceServer) StopService(context.Context, *ServiceTypeRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method StopService not implemented")
}
func (UnimplementedTestAgentServiceServer) EngageWayveDriver(context.Context, *Empty) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method EngageWayveDriver not implemented")
}
func (UnimplementedTestAgentServiceServer) DisengageWayveDriver(context.Context, *Empty) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DisengageWayveDriver not implemented")
}
func (UnimplementedTestAgentServiceServer) StreamTrace(*Empty, TestAgentService_StreamTraceServer) error {
	return status.Error(codes.Unimplemented, "method StreamTrace not implemented")
}
func (UnimplementedTestAgentServiceServer) mustEmbedUnimplementedTestAgentServiceServer() {}

// RegisterTestAgentServiceServer registers srv on s.
func RegisterTestAgentServiceServer(s grpc.ServiceRegistrar, srv TestAgentServiceServer) {
	s.RegisterService(&TestAgentService_ServiceDesc, srv)
}

func _TestAgentService_IsWayveDriverMock_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TestAgentServiceServer).IsWayveDriverMock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TestAgentService_IsWayveDriverMock_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TestAgentServiceServer).IsWayveDriverMock(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _TestAgentService_GetWayveDriverVersion_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TestAgentServiceServer).GetWayveDriverVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TestAgentService_GetWayveDriverVersion_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TestAgentServiceServer).GetWayveDriverVersion(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _TestAgentService_GetIntegrationStatus_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TestAgentServiceServer).GetIntegrationStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TestAgentService_GetIntegrationStatus_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TestAgentServiceServer).GetIntegrationStatus(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _TestAgentService_GetModelId_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TestAgentServiceServer).GetModelId(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TestAgentService_GetModelId_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TestAgentServiceServer).GetModelId(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _TestAgentService_GetServiceStatus_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ServiceTypeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TestAgentServiceServer).GetServiceStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TestAgentService_GetServiceStatus_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TestAgentServiceServer).GetServiceStatus(ctx, req.(*ServiceTypeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TestAgentService_StartService_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ServiceTypeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TestAgentServiceServer).StartService(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TestAgentService_StartService_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TestAgentServiceServer).StartService(ctx, req.(*ServiceTypeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TestAgentService_StopService_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ServiceTypeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TestAgentServiceServer).StopService(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TestAgentService_StopService_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TestAgentServiceServer).StopService(ctx, req.(*ServiceTypeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _TestAgentService_EngageWayveDriver_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TestAgentServiceServer).EngageWayveDriver(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TestAgentService_EngageWayveDriver_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TestAgentServiceServer).EngageWayveDriver(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _TestAgentService_DisengageWayveDriver_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TestAgentServiceServer).DisengageWayveDriver(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TestAgentService_DisengageWayveDriver_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TestAgentServiceServer).DisengageWayveDriver(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _TestAgentService_StreamTrace_Handler(srv any, stream grpc.ServerStream) error {
	m := new(Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(TestAgentServiceServer).StreamTrace(m, &testAgentServiceStreamTraceServer{stream})
}

// TestAgentService_StreamTraceServer sends the trace feed to one caller.
type TestAgentService_StreamTraceServer interface {
	Send(*TraceEvent) error
	grpc.ServerStream
}

type testAgentServiceStreamTraceServer struct {
	grpc.ServerStream
}

func (x *testAgentServiceStreamTraceServer) Send(m *TraceEvent) error {
	return x.ServerStream.SendMsg(m)
}

// TestAgentService_ServiceDesc is the grpc.ServiceDesc for TestAgentService.
var TestAgentService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TestAgentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "IsWayveDriverMock", Handler: _TestAgentService_IsWayveDriverMock_Handler},
		{MethodName: "GetWayveDriverVersion", Handler: _TestAgentService_GetWayveDriverVersion_Handler},
		{MethodName: "GetIntegrationStatus", Handler: _TestAgentService_GetIntegrationStatus_Handler},
		{MethodName: "GetModelId", Handler: _TestAgentService_GetModelId_Handler},
		{MethodName: "GetServiceStatus", Handler: _TestAgentService_GetServiceStatus_Handler},
		{MethodName: "StartService", Handler: _TestAgentService_StartService_Handler},
		{MethodName: "StopService", Handler: _TestAgentService_StopService_Handler},
		{MethodName: "EngageWayveDriver", Handler: _TestAgentService_EngageWayveDriver_Handler},
		{MethodName: "DisengageWayveDriver", Handler: _TestAgentService_DisengageWayveDriver_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamTrace",
			Handler:       _TestAgentService_StreamTrace_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "test_agent_service.proto",
}

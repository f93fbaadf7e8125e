package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

const (
	statusURI = "testagent://driver/status"
	protoURI  = "testagent://proto"
)

func (s *Server) registerResources() {
	// testagent://driver/status: full driver snapshot.
	s.mcpServer.AddResource(
		mcplib.NewResource(
			statusURI,
			"Driver Status",
			mcplib.WithResourceDescription("Mock driver identity, integration state, and sub-service states"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleDriverStatus,
	)

	if len(s.protoSpec) == 0 {
		return
	}
	s.mcpServer.AddResource(
		mcplib.NewResource(
			protoURI,
			"Service Definition",
			mcplib.WithResourceDescription("Protocol Buffers definition of the TestAgentService gRPC API"),
			mcplib.WithMIMEType("text/plain"),
		),
		s.handleProtoSpec,
	)
}

func (s *Server) handleDriverStatus(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(s.svc.Snapshot(ctx), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mcp: encode driver status: %w", err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      statusURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleProtoSpec(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      protoURI,
			MIMEType: "text/plain",
			Text:     string(s.protoSpec),
		},
	}, nil
}

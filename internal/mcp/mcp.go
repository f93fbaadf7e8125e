// Package mcp implements the Model Context Protocol server for the test agent.
//
// The MCP server exposes the driver facade through MCP resources and tools,
// so an MCP-compatible agent can inspect and drive the mock without a gRPC
// client.
package mcp

import (
	"encoding/json"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ashita-ai/testagent/internal/service/driver"
)

// Server wraps the MCP server with the driver service.
type Server struct {
	mcpServer *mcpserver.MCPServer
	svc       *driver.Service
	protoSpec []byte
	logger    *slog.Logger
}

// New creates and configures a new MCP server with all resources, prompts,
// and tools. protoSpec may be nil, in which case the proto resource is not
// registered.
func New(svc *driver.Service, protoSpec []byte, logger *slog.Logger, version string) *Server {
	s := &Server{
		svc:       svc,
		protoSpec: protoSpec,
		logger:    logger,
	}

	s.mcpServer = mcpserver.NewMCPServer(
		"testagent",
		version,
		mcpserver.WithResourceCapabilities(true, true),
		mcpserver.WithPromptCapabilities(true),
		mcpserver.WithToolCapabilities(true),
	)

	s.registerResources()
	s.registerPrompts()
	s.registerTools()

	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}

func jsonResult(v any) *mcplib.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("failed to encode result: " + err.Error())
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: string(data)},
		},
	}
}

// Package testagentv1 is the Go wire contract of the TestAgentService.
//
// It mirrors api/test_agent_service.proto: enums, request/response messages,
// the gRPC service descriptor with its server and client bindings, and the
// protobuf codec the messages travel with. Importing the package registers
// that codec under the standard "proto" name, so stubs generated from the
// .proto file in any language talk to it unchanged.
//
// For the admin HTTP and MCP surfaces, enums marshal to JSON as their proto
// names and accept either the name or the integer on input, so values outside
// the declared set survive a round trip unchanged.
package testagentv1

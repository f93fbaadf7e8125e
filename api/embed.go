// Package api embeds the wire-contract description for serving at runtime.
package api

import _ "embed"

// ProtoSpec is the raw protobuf description of the TestAgentService contract.
// The Go wire types in api/testagentv1 follow it field for field.
//
//go:embed test_agent_service.proto
var ProtoSpec []byte

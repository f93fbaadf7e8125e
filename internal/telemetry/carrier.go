package telemetry

import (
	"google.golang.org/grpc/metadata"
)

// MetadataCarrier adapts gRPC metadata to propagation.TextMapCarrier so
// traceparent headers cross the gRPC boundary.
type MetadataCarrier metadata.MD

func (c MetadataCarrier) Get(key string) string {
	vals := metadata.MD(c).Get(key)
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func (c MetadataCarrier) Set(key, value string) {
	metadata.MD(c).Set(key, value)
}

func (c MetadataCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

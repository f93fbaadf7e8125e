package testagentv1

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	encproto "google.golang.org/grpc/encoding/proto"
	"google.golang.org/grpc/mem"
	"google.golang.org/protobuf/proto"
)

func init() {
	encoding.RegisterCodecV2(Codec{})
}

// wireMessage is implemented by every message in this package. The methods
// follow the proto3 binary encoding of api/test_agent_service.proto.
type wireMessage interface {
	appendWire(b []byte) []byte
	unmarshalWire(b []byte) error
}

// Codec is the gRPC "proto" codec. It encodes this package's messages with
// the protobuf wire format and hands any proto.Message (the health service,
// well-known types) to the protobuf runtime. It replaces the default codec
// on import, so plain application/grpc clients generated from the .proto
// interoperate with servers and clients built on this package.
type Codec struct{}

// Marshal implements encoding.CodecV2.
func (Codec) Marshal(v any) (mem.BufferSlice, error) {
	var (
		b   []byte
		err error
	)
	switch m := v.(type) {
	case wireMessage:
		b = m.appendWire(nil)
	case proto.Message:
		if b, err = proto.Marshal(m); err != nil {
			return nil, fmt.Errorf("testagentv1: marshal %T: %w", v, err)
		}
	default:
		return nil, fmt.Errorf("testagentv1: marshal: unsupported message type %T", v)
	}
	return mem.BufferSlice{mem.SliceBuffer(b)}, nil
}

// Unmarshal implements encoding.CodecV2. An empty payload leaves v at its
// zero value.
func (Codec) Unmarshal(data mem.BufferSlice, v any) error {
	b := data.Materialize()
	switch m := v.(type) {
	case wireMessage:
		if err := m.unmarshalWire(b); err != nil {
			return fmt.Errorf("testagentv1: unmarshal %T: %w", v, err)
		}
		return nil
	case proto.Message:
		if err := proto.Unmarshal(b, m); err != nil {
			return fmt.Errorf("testagentv1: unmarshal %T: %w", v, err)
		}
		return nil
	default:
		return fmt.Errorf("testagentv1: unmarshal: unsupported message type %T", v)
	}
}

// Name implements encoding.CodecV2.
func (Codec) Name() string { return encproto.Name }

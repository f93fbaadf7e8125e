package testagentv1

import (
	"errors"

	"google.golang.org/protobuf/encoding/protowire"
)

var errWrongWireType = errors.New("field has the wrong wire type")

// walkFields calls fn for every field of a proto3 message. Varint fields
// carry their value in v, length-delimited fields in raw. Fields of any other
// wire type are skipped, as are unknown field numbers, which fn ignores.
func walkFields(b []byte, fn func(num protowire.Number, typ protowire.Type, v uint64, raw []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		var v uint64
		var raw []byte
		switch typ {
		case protowire.VarintType:
			v, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			raw, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if err := fn(num, typ, v, raw); err != nil {
			return err
		}
	}
	return nil
}

func wantVarint(typ protowire.Type) error {
	if typ != protowire.VarintType {
		return errWrongWireType
	}
	return nil
}

func wantBytes(typ protowire.Type) error {
	if typ != protowire.BytesType {
		return errWrongWireType
	}
	return nil
}

// Default values are omitted, as proto3 does.

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// appendEnumField sign-extends negative values to ten bytes like int32.
func appendEnumField(b []byte, num protowire.Number, v int32) []byte {
	return appendVarintField(b, num, uint64(int64(v)))
}

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func (*Empty) appendWire(b []byte) []byte { return b }

func (x *Empty) unmarshalWire(b []byte) error {
	*x = Empty{}
	return walkFields(b, func(protowire.Number, protowire.Type, uint64, []byte) error { return nil })
}

func (x *Boolean) appendWire(b []byte) []byte {
	return appendVarintField(b, 1, protowire.EncodeBool(x.Value))
}

func (x *Boolean) unmarshalWire(b []byte) error {
	*x = Boolean{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, v uint64, _ []byte) error {
		if num != 1 {
			return nil
		}
		if err := wantVarint(typ); err != nil {
			return err
		}
		x.Value = protowire.DecodeBool(v)
		return nil
	})
}

func (x *WayveDriverVersionResponse) appendWire(b []byte) []byte {
	return appendStringField(b, 1, x.Version)
}

func (x *WayveDriverVersionResponse) unmarshalWire(b []byte) error {
	*x = WayveDriverVersionResponse{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, _ uint64, raw []byte) error {
		if num != 1 {
			return nil
		}
		if err := wantBytes(typ); err != nil {
			return err
		}
		x.Version = string(raw)
		return nil
	})
}

func (x *ModelIdResponse) appendWire(b []byte) []byte {
	return appendStringField(b, 1, x.ModelId)
}

func (x *ModelIdResponse) unmarshalWire(b []byte) error {
	*x = ModelIdResponse{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, _ uint64, raw []byte) error {
		if num != 1 {
			return nil
		}
		if err := wantBytes(typ); err != nil {
			return err
		}
		x.ModelId = string(raw)
		return nil
	})
}

func (x *IntegrationStatusResponse) appendWire(b []byte) []byte {
	return appendEnumField(b, 1, int32(x.State))
}

func (x *IntegrationStatusResponse) unmarshalWire(b []byte) error {
	*x = IntegrationStatusResponse{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, v uint64, _ []byte) error {
		if num != 1 {
			return nil
		}
		if err := wantVarint(typ); err != nil {
			return err
		}
		x.State = IntegrationState(int32(v))
		return nil
	})
}

func (x *ServiceTypeRequest) appendWire(b []byte) []byte {
	return appendEnumField(b, 1, int32(x.ServiceType))
}

func (x *ServiceTypeRequest) unmarshalWire(b []byte) error {
	*x = ServiceTypeRequest{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, v uint64, _ []byte) error {
		if num != 1 {
			return nil
		}
		if err := wantVarint(typ); err != nil {
			return err
		}
		x.ServiceType = ServiceType(int32(v))
		return nil
	})
}

func (x *ServiceStatusResponse) appendWire(b []byte) []byte {
	return appendEnumField(b, 1, int32(x.State))
}

func (x *ServiceStatusResponse) unmarshalWire(b []byte) error {
	*x = ServiceStatusResponse{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, v uint64, _ []byte) error {
		if num != 1 {
			return nil
		}
		if err := wantVarint(typ); err != nil {
			return err
		}
		x.State = ServiceState(int32(v))
		return nil
	})
}

func (x *TraceEvent) appendWire(b []byte) []byte {
	b = appendVarintField(b, 1, x.TimestampNs)
	b = appendVarintField(b, 2, uint64(x.GroupsMask))
	b = appendEnumField(b, 3, int32(x.Severity))
	b = appendEnumField(b, 4, int32(x.EventType))
	return appendStringField(b, 5, x.Message)
}

func (x *TraceEvent) unmarshalWire(b []byte) error {
	*x = TraceEvent{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, v uint64, raw []byte) error {
		switch num {
		case 1, 2, 3, 4:
			if err := wantVarint(typ); err != nil {
				return err
			}
		case 5:
			if err := wantBytes(typ); err != nil {
				return err
			}
		}
		switch num {
		case 1:
			x.TimestampNs = v
		case 2:
			x.GroupsMask = uint32(v)
		case 3:
			x.Severity = TraceSeverity(int32(v))
		case 4:
			x.EventType = TraceEventType(int32(v))
		case 5:
			x.Message = string(raw)
		}
		return nil
	})
}

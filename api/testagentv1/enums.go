package testagentv1

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ServiceType identifies a logical driver sub-service.
type ServiceType int32

const (
	ServiceTypeUnspecified ServiceType = 0
	ServiceTypeTrajectory  ServiceType = 1
	ServiceTypeNavigation  ServiceType = 2
	ServiceTypeInference   ServiceType = 3
)

var serviceTypeNames = map[int32]string{
	0: "SERVICE_TYPE_UNSPECIFIED",
	1: "SERVICE_TYPE_TRAJECTORY",
	2: "SERVICE_TYPE_NAVIGATION",
	3: "SERVICE_TYPE_INFERENCE",
}

var serviceTypeValues = invert(serviceTypeNames)

// KnownServiceTypes returns every service type the driver tracks, in
// declaration order.
func KnownServiceTypes() []ServiceType {
	return []ServiceType{ServiceTypeTrajectory, ServiceTypeNavigation, ServiceTypeInference}
}

func (t ServiceType) String() string { return enumString(serviceTypeNames, int32(t)) }

// MarshalJSON implements json.Marshaler.
func (t ServiceType) MarshalJSON() ([]byte, error) { return marshalEnum(serviceTypeNames, int32(t)) }

// UnmarshalJSON implements json.Unmarshaler.
func (t *ServiceType) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum("ServiceType", serviceTypeValues, data)
	if err != nil {
		return err
	}
	*t = ServiceType(v)
	return nil
}

// ParseServiceType accepts a short name ("trajectory"), a full enum name
// ("SERVICE_TYPE_TRAJECTORY"), or an integer. Matching is case-insensitive.
func ParseServiceType(s string) (ServiceType, error) {
	v, err := parseEnum("SERVICE_TYPE_", serviceTypeValues, s)
	if err != nil {
		return ServiceTypeUnspecified, fmt.Errorf("testagentv1: invalid service type %q", s)
	}
	return ServiceType(v), nil
}

// ServiceState is the coarse run state of a sub-service.
type ServiceState int32

const (
	ServiceStateUnknown ServiceState = 0
	ServiceStateRunning ServiceState = 1
	ServiceStateStopped ServiceState = 2
)

var serviceStateNames = map[int32]string{
	0: "SERVICE_STATE_UNKNOWN",
	1: "SERVICE_STATE_RUNNING",
	2: "SERVICE_STATE_STOPPED",
}

var serviceStateValues = invert(serviceStateNames)

func (s ServiceState) String() string { return enumString(serviceStateNames, int32(s)) }

// MarshalJSON implements json.Marshaler.
func (s ServiceState) MarshalJSON() ([]byte, error) { return marshalEnum(serviceStateNames, int32(s)) }

// UnmarshalJSON implements json.Unmarshaler.
func (s *ServiceState) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum("ServiceState", serviceStateValues, data)
	if err != nil {
		return err
	}
	*s = ServiceState(v)
	return nil
}

// IntegrationState reports whether the autonomy stack is engaged.
type IntegrationState int32

const (
	IntegrationStateIdle IntegrationState = 0
	// IntegrationStateAV means autonomy is engaged.
	IntegrationStateAV IntegrationState = 1
)

var integrationStateNames = map[int32]string{
	0: "INTEGRATION_STATE_IDLE",
	1: "INTEGRATION_STATE_AV",
}

var integrationStateValues = invert(integrationStateNames)

func (s IntegrationState) String() string { return enumString(integrationStateNames, int32(s)) }

// MarshalJSON implements json.Marshaler.
func (s IntegrationState) MarshalJSON() ([]byte, error) {
	return marshalEnum(integrationStateNames, int32(s))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *IntegrationState) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum("IntegrationState", integrationStateValues, data)
	if err != nil {
		return err
	}
	*s = IntegrationState(v)
	return nil
}

// ParseIntegrationState accepts "idle", "av", "engaged", a full enum name, or
// an integer.
func ParseIntegrationState(s string) (IntegrationState, error) {
	if strings.EqualFold(strings.TrimSpace(s), "engaged") {
		return IntegrationStateAV, nil
	}
	v, err := parseEnum("INTEGRATION_STATE_", integrationStateValues, s)
	if err != nil {
		return IntegrationStateIdle, fmt.Errorf("testagentv1: invalid integration state %q", s)
	}
	return IntegrationState(v), nil
}

// TraceGroup is a bitmask-compatible trace category.
type TraceGroup uint32

const (
	TraceGroupNone           TraceGroup = 0
	TraceGroupTrajectory     TraceGroup = 1 << 0
	TraceGroupNavigation     TraceGroup = 1 << 1
	TraceGroupInference      TraceGroup = 1 << 2
	TraceGroupSafetyCritical TraceGroup = 1 << 3
)

var traceGroupNames = map[int32]string{
	0: "TRACE_GROUP_NONE",
	1: "TRACE_GROUP_TRAJECTORY",
	2: "TRACE_GROUP_NAVIGATION",
	4: "TRACE_GROUP_INFERENCE",
	8: "TRACE_GROUP_SAFETY_CRITICAL",
}

func (g TraceGroup) String() string { return enumString(traceGroupNames, int32(g)) }

// TraceSeverity is the severity of a trace event.
type TraceSeverity int32

const (
	TraceSeverityUnspecified TraceSeverity = 0
	TraceSeverityDebug       TraceSeverity = 1
	TraceSeverityInfo        TraceSeverity = 2
	TraceSeverityError       TraceSeverity = 3
)

var traceSeverityNames = map[int32]string{
	0: "TRACE_SEVERITY_UNSPECIFIED",
	1: "TRACE_SEVERITY_DEBUG",
	2: "TRACE_SEVERITY_INFO",
	3: "TRACE_SEVERITY_ERROR",
}

var traceSeverityValues = invert(traceSeverityNames)

func (s TraceSeverity) String() string { return enumString(traceSeverityNames, int32(s)) }

// MarshalJSON implements json.Marshaler.
func (s TraceSeverity) MarshalJSON() ([]byte, error) {
	return marshalEnum(traceSeverityNames, int32(s))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *TraceSeverity) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum("TraceSeverity", traceSeverityValues, data)
	if err != nil {
		return err
	}
	*s = TraceSeverity(v)
	return nil
}

// TraceEventType is the kind of a trace event.
type TraceEventType int32

const (
	TraceEventTypeUnspecified  TraceEventType = 0
	TraceEventTypeFunctionCall TraceEventType = 1
	TraceEventTypeLogMessage   TraceEventType = 2
)

var traceEventTypeNames = map[int32]string{
	0: "TRACE_EVENT_TYPE_UNSPECIFIED",
	1: "TRACE_EVENT_TYPE_FUNCTION_CALL",
	2: "TRACE_EVENT_TYPE_LOG_MESSAGE",
}

var traceEventTypeValues = invert(traceEventTypeNames)

func (t TraceEventType) String() string { return enumString(traceEventTypeNames, int32(t)) }

// MarshalJSON implements json.Marshaler.
func (t TraceEventType) MarshalJSON() ([]byte, error) {
	return marshalEnum(traceEventTypeNames, int32(t))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TraceEventType) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum("TraceEventType", traceEventTypeValues, data)
	if err != nil {
		return err
	}
	*t = TraceEventType(v)
	return nil
}

func invert(names map[int32]string) map[string]int32 {
	values := make(map[string]int32, len(names))
	for v, n := range names {
		values[n] = v
	}
	return values
}

func enumString(names map[int32]string, v int32) string {
	if n, ok := names[v]; ok {
		return n
	}
	return strconv.Itoa(int(v))
}

func marshalEnum(names map[int32]string, v int32) ([]byte, error) {
	if n, ok := names[v]; ok {
		return json.Marshal(n)
	}
	return []byte(strconv.Itoa(int(v))), nil
}

func unmarshalEnum(kind string, values map[string]int32, data []byte) (int32, error) {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return 0, fmt.Errorf("testagentv1: invalid %s: %w", kind, err)
		}
		v, ok := values[name]
		if !ok {
			return 0, fmt.Errorf("testagentv1: unknown %s %q", kind, name)
		}
		return v, nil
	}
	var n int32
	if err := json.Unmarshal(data, &n); err != nil {
		return 0, fmt.Errorf("testagentv1: invalid %s: %w", kind, err)
	}
	return n, nil
}

// parseEnum resolves s against values, trying the bare name with prefix
// added, the full name, and finally an integer literal.
func parseEnum(prefix string, values map[string]int32, s string) (int32, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return 0, fmt.Errorf("empty")
	}
	if v, ok := values[prefix+name]; ok {
		return v, nil
	}
	if v, ok := values[name]; ok {
		return v, nil
	}
	n, err := strconv.ParseInt(name, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(n), nil
}

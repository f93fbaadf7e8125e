package testagentv1

// Empty is the request and response of calls that carry no payload.
type Empty struct{}

// Boolean wraps a single flag.
type Boolean struct {
	Value bool `json:"value"`
}

func (x *Boolean) GetValue() bool {
	if x != nil {
		return x.Value
	}
	return false
}

type WayveDriverVersionResponse struct {
	Version string `json:"version"`
}

func (x *WayveDriverVersionResponse) GetVersion() string {
	if x != nil {
		return x.Version
	}
	return ""
}

type ModelIdResponse struct {
	ModelId string `json:"modelId"`
}

func (x *ModelIdResponse) GetModelId() string {
	if x != nil {
		return x.ModelId
	}
	return ""
}

type IntegrationStatusResponse struct {
	State IntegrationState `json:"state"`
}

func (x *IntegrationStatusResponse) GetState() IntegrationState {
	if x != nil {
		return x.State
	}
	return IntegrationStateIdle
}

type ServiceTypeRequest struct {
	ServiceType ServiceType `json:"serviceType"`
}

func (x *ServiceTypeRequest) GetServiceType() ServiceType {
	if x != nil {
		return x.ServiceType
	}
	return ServiceTypeUnspecified
}

type ServiceStatusResponse struct {
	State ServiceState `json:"state"`
}

func (x *ServiceStatusResponse) GetState() ServiceState {
	if x != nil {
		return x.State
	}
	return ServiceStateUnknown
}

// TraceEvent is one synthetic diagnostic record on the trace feed.
// TimestampNs travels as a decimal string, as proto3 JSON does for uint64.
type TraceEvent struct {
	TimestampNs uint64         `json:"timestampNs,string"`
	GroupsMask  uint32         `json:"groupsMask"`
	Severity    TraceSeverity  `json:"severity"`
	EventType   TraceEventType `json:"eventType"`
	Message     string         `json:"message"`
}

func (x *TraceEvent) GetTimestampNs() uint64 {
	if x != nil {
		return x.TimestampNs
	}
	return 0
}

func (x *TraceEvent) GetGroupsMask() uint32 {
	if x != nil {
		return x.GroupsMask
	}
	return 0
}

func (x *TraceEvent) GetSeverity() TraceSeverity {
	if x != nil {
		return x.Severity
	}
	return TraceSeverityUnspecified
}

func (x *TraceEvent) GetEventType() TraceEventType {
	if x != nil {
		return x.EventType
	}
	return TraceEventTypeUnspecified
}

func (x *TraceEvent) GetMessage() string {
	if x != nil {
		return x.Message
	}
	return ""
}

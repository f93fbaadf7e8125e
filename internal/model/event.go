package model

import (
	"time"

	"github.com/ashita-ai/testagent/api/testagentv1"
)

// StateChangeKind names the mutation that produced a StateChange.
type StateChangeKind string

const (
	StateChangeServiceStarted   StateChangeKind = "service_started"
	StateChangeServiceStopped   StateChangeKind = "service_stopped"
	StateChangeIntegrationState StateChangeKind = "integration_state"
)

// StateChange is emitted after every successful driver state mutation.
// Only the fields relevant to Kind are set.
type StateChange struct {
	Kind             StateChangeKind               `json:"kind"`
	ServiceType      *testagentv1.ServiceType      `json:"service_type,omitempty"`
	ServiceState     *testagentv1.ServiceState     `json:"service_state,omitempty"`
	IntegrationState *testagentv1.IntegrationState `json:"integration_state,omitempty"`
	At               time.Time                     `json:"at"`
}

// NewServiceChange builds the StateChange for a Start/Stop call.
func NewServiceChange(t testagentv1.ServiceType, s testagentv1.ServiceState, at time.Time) StateChange {
	kind := StateChangeServiceStopped
	if s == testagentv1.ServiceStateRunning {
		kind = StateChangeServiceStarted
	}
	return StateChange{Kind: kind, ServiceType: &t, ServiceState: &s, At: at}
}

// NewIntegrationChange builds the StateChange for an integration state write.
func NewIntegrationChange(s testagentv1.IntegrationState, at time.Time) StateChange {
	return StateChange{Kind: StateChangeIntegrationState, IntegrationState: &s, At: at}
}

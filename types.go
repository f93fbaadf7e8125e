package testagent

import (
	"time"

	"github.com/ashita-ai/testagent/api/testagentv1"
)

// StateChangeKind names the driver mutation a StateChange reports.
type StateChangeKind string

const (
	ServiceStarted          StateChangeKind = "service_started"
	ServiceStopped          StateChangeKind = "service_stopped"
	IntegrationStateChanged StateChangeKind = "integration_state"
)

// StateChange is the public representation of a driver state mutation.
// It is a curated view of the internal event for use in StateHook.
// Only the fields relevant to Kind are meaningful: ServiceType and
// ServiceState for service changes, IntegrationState for integration changes.
type StateChange struct {
	Kind             StateChangeKind
	ServiceType      testagentv1.ServiceType
	ServiceState     testagentv1.ServiceState
	IntegrationState testagentv1.IntegrationState
	At               time.Time
}

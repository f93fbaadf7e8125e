package testagent

import "github.com/ashita-ai/testagent/api/testagentv1"

// Wire types re-exported so callers need only this package.
type (
	ServiceType      = testagentv1.ServiceType
	ServiceState     = testagentv1.ServiceState
	IntegrationState = testagentv1.IntegrationState
	TraceEvent       = testagentv1.TraceEvent
)

const (
	Trajectory = testagentv1.ServiceTypeTrajectory
	Navigation = testagentv1.ServiceTypeNavigation
	Inference  = testagentv1.ServiceTypeInference

	Running = testagentv1.ServiceStateRunning
	Stopped = testagentv1.ServiceStateStopped

	Idle = testagentv1.IntegrationStateIdle
	AV   = testagentv1.IntegrationStateAV
)

// ParseServiceType accepts "trajectory", "SERVICE_TYPE_TRAJECTORY", or an
// integer value.
func ParseServiceType(s string) (ServiceType, error) {
	return testagentv1.ParseServiceType(s)
}

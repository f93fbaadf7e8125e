package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/testagent/api/testagentv1"
)

func newTestStore() *Store {
	return New(Identity{IsMock: true, Version: "0.1.0-mock", ModelID: "test-model-123"})
}

func TestNewStoreDefaults(t *testing.T) {
	s := newTestStore()

	assert.True(t, s.MockMode())
	assert.Equal(t, "0.1.0-mock", s.Version())
	assert.Equal(t, "test-model-123", s.ModelID())
	assert.Equal(t, testagentv1.IntegrationStateIdle, s.IntegrationState())
	for _, st := range testagentv1.KnownServiceTypes() {
		assert.Equal(t, testagentv1.ServiceStateUnknown, s.ServiceState(st), st.String())
	}
}

func TestServiceStateOverwrite(t *testing.T) {
	s := newTestStore()

	s.SetServiceState(testagentv1.ServiceTypeTrajectory, testagentv1.ServiceStateRunning)
	assert.Equal(t, testagentv1.ServiceStateRunning, s.ServiceState(testagentv1.ServiceTypeTrajectory))

	s.SetServiceState(testagentv1.ServiceTypeTrajectory, testagentv1.ServiceStateRunning)
	assert.Equal(t, testagentv1.ServiceStateRunning, s.ServiceState(testagentv1.ServiceTypeTrajectory))

	s.SetServiceState(testagentv1.ServiceTypeTrajectory, testagentv1.ServiceStateStopped)
	assert.Equal(t, testagentv1.ServiceStateStopped, s.ServiceState(testagentv1.ServiceTypeTrajectory))

	assert.Equal(t, testagentv1.ServiceStateUnknown, s.ServiceState(testagentv1.ServiceTypeNavigation))
}

func TestUnknownServiceType(t *testing.T) {
	s := newTestStore()
	unknown := testagentv1.ServiceType(99)

	assert.Equal(t, testagentv1.ServiceStateUnknown, s.ServiceState(unknown))
	s.SetServiceState(unknown, testagentv1.ServiceStateRunning)
	assert.Equal(t, testagentv1.ServiceStateRunning, s.ServiceState(unknown))
}

func TestIntegrationState(t *testing.T) {
	s := newTestStore()
	s.SetIntegrationState(testagentv1.IntegrationStateAV)
	assert.Equal(t, testagentv1.IntegrationStateAV, s.IntegrationState())
	s.SetIntegrationState(testagentv1.IntegrationStateIdle)
	assert.Equal(t, testagentv1.IntegrationStateIdle, s.IntegrationState())
}

func TestSnapshot(t *testing.T) {
	s := newTestStore()
	s.SetServiceState(testagentv1.ServiceTypeInference, testagentv1.ServiceStateRunning)
	s.SetIntegrationState(testagentv1.IntegrationStateAV)

	snap := s.Snapshot()
	assert.True(t, snap.IsMock)
	assert.Equal(t, testagentv1.IntegrationStateAV, snap.IntegrationState)
	require.Len(t, snap.Services, 3)
	assert.Equal(t, testagentv1.ServiceTypeTrajectory, snap.Services[0].ServiceType)
	assert.Equal(t, testagentv1.ServiceTypeInference, snap.Services[2].ServiceType)
	assert.Equal(t, testagentv1.ServiceStateRunning, snap.Services[2].State)

	// The snapshot is a copy.
	s.SetServiceState(testagentv1.ServiceTypeInference, testagentv1.ServiceStateStopped)
	assert.Equal(t, testagentv1.ServiceStateRunning, snap.Services[2].State)
}

func TestConcurrentStartStop(t *testing.T) {
	s := newTestStore()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetServiceState(testagentv1.ServiceTypeNavigation, testagentv1.ServiceStateRunning)
		}()
		go func() {
			defer wg.Done()
			s.SetServiceState(testagentv1.ServiceTypeNavigation, testagentv1.ServiceStateStopped)
		}()
	}
	wg.Wait()

	got := s.ServiceState(testagentv1.ServiceTypeNavigation)
	assert.Contains(t, []testagentv1.ServiceState{testagentv1.ServiceStateRunning, testagentv1.ServiceStateStopped}, got)
	assert.Len(t, s.Snapshot().Services, 3)
}

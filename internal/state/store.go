// Package state holds the mock driver's mutable state behind a single lock.
package state

import (
	"slices"
	"sync"

	"github.com/ashita-ai/testagent/api/testagentv1"
	"github.com/ashita-ai/testagent/internal/model"
)

// Identity is the fixed self-description of the driver.
type Identity struct {
	IsMock  bool
	Version string
	ModelID string
}

// Store is the only shared mutable state in the process. One mutex guards
// every field and every method holds it for its whole duration, so callers
// observe a linearizable history of reads and writes.
type Store struct {
	mu          sync.Mutex
	identity    Identity
	integration testagentv1.IntegrationState
	services    map[testagentv1.ServiceType]testagentv1.ServiceState
}

// New creates a Store with the given identity, integration state Idle, and
// every known service type registered as Unknown.
func New(identity Identity) *Store {
	services := make(map[testagentv1.ServiceType]testagentv1.ServiceState)
	for _, t := range testagentv1.KnownServiceTypes() {
		services[t] = testagentv1.ServiceStateUnknown
	}
	return &Store{
		identity:    identity,
		integration: testagentv1.IntegrationStateIdle,
		services:    services,
	}
}

// MockMode reports whether the driver identifies itself as a mock.
func (s *Store) MockMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.IsMock
}

// Version returns the configured driver version.
func (s *Store) Version() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.Version
}

// ModelID returns the configured model identifier.
func (s *Store) ModelID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.ModelID
}

// IntegrationState returns the current integration state.
func (s *Store) IntegrationState() testagentv1.IntegrationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.integration
}

// SetIntegrationState overwrites the integration state. Any value is accepted.
func (s *Store) SetIntegrationState(v testagentv1.IntegrationState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.integration = v
}

// ServiceState returns the recorded state of t, or Unknown if t was never
// recorded.
func (s *Store) ServiceState(t testagentv1.ServiceType) testagentv1.ServiceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.services[t]; ok {
		return v
	}
	return testagentv1.ServiceStateUnknown
}

// SetServiceState records v for t. Types outside the known set are accepted
// and tracked like any other.
func (s *Store) SetServiceState(t testagentv1.ServiceType, v testagentv1.ServiceState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[t] = v
}

// Snapshot copies every field under one acquisition of the lock. Services
// are ordered by type.
func (s *Store) Snapshot() model.DriverStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	services := make([]model.ServiceStatus, 0, len(s.services))
	for t, v := range s.services {
		services = append(services, model.ServiceStatus{ServiceType: t, State: v})
	}
	slices.SortFunc(services, func(a, b model.ServiceStatus) int {
		return int(a.ServiceType) - int(b.ServiceType)
	})
	return model.DriverStatus{
		IsMock:           s.identity.IsMock,
		Version:          s.identity.Version,
		ModelID:          s.identity.ModelID,
		IntegrationState: s.integration,
		Services:         services,
	}
}

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/testagent/api/testagentv1"
)

func TestNewServiceChangeKind(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	started := NewServiceChange(testagentv1.ServiceTypeNavigation, testagentv1.ServiceStateRunning, at)
	assert.Equal(t, StateChangeServiceStarted, started.Kind)

	stopped := NewServiceChange(testagentv1.ServiceTypeNavigation, testagentv1.ServiceStateStopped, at)
	assert.Equal(t, StateChangeServiceStopped, stopped.Kind)
	assert.Nil(t, stopped.IntegrationState)
}

func TestStateChangeJSONOmitsUnsetFields(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b, err := json.Marshal(NewIntegrationChange(testagentv1.IntegrationStateAV, at))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "integration_state",
		"integration_state": "INTEGRATION_STATE_AV",
		"at": "2026-01-02T03:04:05Z"
	}`, string(b))
}

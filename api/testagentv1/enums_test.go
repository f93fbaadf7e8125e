package testagentv1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceTypeJSON(t *testing.T) {
	b, err := json.Marshal(ServiceTypeNavigation)
	require.NoError(t, err)
	assert.Equal(t, `"SERVICE_TYPE_NAVIGATION"`, string(b))

	var st ServiceType
	require.NoError(t, json.Unmarshal([]byte(`"SERVICE_TYPE_INFERENCE"`), &st))
	assert.Equal(t, ServiceTypeInference, st)

	require.NoError(t, json.Unmarshal([]byte(`1`), &st))
	assert.Equal(t, ServiceTypeTrajectory, st)
}

func TestUnknownEnumValueRoundTripsAsNumber(t *testing.T) {
	b, err := json.Marshal(ServiceType(99))
	require.NoError(t, err)
	assert.Equal(t, "99", string(b))

	var st ServiceType
	require.NoError(t, json.Unmarshal(b, &st))
	assert.Equal(t, ServiceType(99), st)
	assert.Equal(t, "99", st.String())
}

func TestUnmarshalUnknownName(t *testing.T) {
	var st ServiceState
	err := json.Unmarshal([]byte(`"SERVICE_STATE_PAUSED"`), &st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ServiceState")
}

func TestParseServiceType(t *testing.T) {
	cases := []struct {
		in   string
		want ServiceType
	}{
		{"trajectory", ServiceTypeTrajectory},
		{" Navigation ", ServiceTypeNavigation},
		{"SERVICE_TYPE_INFERENCE", ServiceTypeInference},
		{"3", ServiceTypeInference},
		{"42", ServiceType(42)},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseServiceType(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseServiceType("warp-drive")
	assert.Error(t, err)
	_, err = ParseServiceType("")
	assert.Error(t, err)
}

func TestParseIntegrationState(t *testing.T) {
	for in, want := range map[string]IntegrationState{
		"idle":                 IntegrationStateIdle,
		"AV":                   IntegrationStateAV,
		"engaged":              IntegrationStateAV,
		"INTEGRATION_STATE_AV": IntegrationStateAV,
		"0":                    IntegrationStateIdle,
	} {
		got, err := ParseIntegrationState(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseIntegrationState("manual")
	assert.Error(t, err)
}

func TestTraceGroupString(t *testing.T) {
	assert.Equal(t, "TRACE_GROUP_SAFETY_CRITICAL", TraceGroupSafetyCritical.String())
	assert.Equal(t, "3", (TraceGroupTrajectory | TraceGroupNavigation).String())
}

func TestKnownServiceTypes(t *testing.T) {
	assert.Equal(t, []ServiceType{ServiceTypeTrajectory, ServiceTypeNavigation, ServiceTypeInference}, KnownServiceTypes())
}

package model

import (
	"time"

	"github.com/ashita-ai/testagent/api/testagentv1"
)

// APIResponse is the standard response envelope for all HTTP API responses.
type APIResponse struct {
	Data any          `json:"data,omitempty"`
	Meta ResponseMeta `json:"meta"`
}

// APIError is the standard error response envelope.
type APIError struct {
	Error ErrorDetail  `json:"error"`
	Meta  ResponseMeta `json:"meta"`
}

// ResponseMeta contains request metadata included in every response.
type ResponseMeta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorDetail describes an API error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorCode constants for standard API error codes.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeUnavailable   = "UNAVAILABLE"
)

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	GRPC           string `json:"grpc"`
	SSESubscribers int    `json:"sse_subscribers"`
	Uptime         int64  `json:"uptime_seconds"`
}

// ServiceStatus is one entry of the service registry.
type ServiceStatus struct {
	ServiceType testagentv1.ServiceType  `json:"service_type"`
	State       testagentv1.ServiceState `json:"state"`
}

// DriverStatus is a consistent view of the whole driver state.
type DriverStatus struct {
	IsMock           bool                         `json:"is_mock"`
	Version          string                       `json:"version"`
	ModelID          string                       `json:"model_id"`
	IntegrationState testagentv1.IntegrationState `json:"integration_state"`
	Services         []ServiceStatus              `json:"services"`
}

// SetIntegrationStateRequest is the body of PUT /v1/integration-state.
// State accepts "idle", "av", "engaged", a full enum name, or an integer.
type SetIntegrationStateRequest struct {
	State string `json:"state"`
}

package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashita-ai/testagent/api/testagentv1"
	"github.com/ashita-ai/testagent/internal/model"
	"github.com/ashita-ai/testagent/internal/service/driver"
	"github.com/ashita-ai/testagent/internal/service/trace"
)

const (
	eventTrace     = "trace"
	eventStreamEnd = "end"
	keepalivePing  = 15 * time.Second
)

// Handlers holds the dependencies of the admin HTTP handlers.
type Handlers struct {
	svc         *driver.Service
	broker      *Broker
	grpcServing func() bool
	logger      *slog.Logger
	startedAt   time.Time
	version     string
	protoSpec   []byte
}

// HandlersDeps holds all dependencies for constructing Handlers.
// Optional (nil-safe): Broker, GRPCServing, ProtoSpec.
type HandlersDeps struct {
	Service     *driver.Service
	Broker      *Broker
	GRPCServing func() bool
	Logger      *slog.Logger
	Version     string
	ProtoSpec   []byte
}

// NewHandlers creates a new Handlers with all dependencies.
func NewHandlers(deps HandlersDeps) *Handlers {
	return &Handlers{
		svc:         deps.Service,
		broker:      deps.Broker,
		grpcServing: deps.GRPCServing,
		logger:      deps.Logger,
		startedAt:   time.Now(),
		version:     deps.Version,
		protoSpec:   deps.ProtoSpec,
	}
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	grpcStatus := "serving"
	httpStatus := http.StatusOK
	if h.grpcServing != nil && !h.grpcServing() {
		status = "unhealthy"
		grpcStatus = "not_serving"
		httpStatus = http.StatusServiceUnavailable
	}

	resp := model.HealthResponse{
		Status:  status,
		Version: h.version,
		GRPC:    grpcStatus,
		Uptime:  int64(time.Since(h.startedAt).Seconds()),
	}
	if h.broker != nil {
		resp.SSESubscribers = h.broker.SubscriberCount()
	}
	writeJSON(w, r, httpStatus, resp)
}

// HandleStatus handles GET /v1/status.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.svc.Snapshot(r.Context()))
}

// HandleSetIntegrationState handles PUT /v1/integration-state. It forces any
// integration state, for test setup.
func (h *Handlers) HandleSetIntegrationState(w http.ResponseWriter, r *http.Request) {
	var req model.SetIntegrationStateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body: "+err.Error())
		return
	}
	state, err := testagentv1.ParseIntegrationState(req.State)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}
	h.svc.SetIntegrationState(r.Context(), state)
	writeJSON(w, r, http.StatusOK, h.svc.Snapshot(r.Context()))
}

// HandleTrace handles GET /v1/trace: the trace stream as Server-Sent Events.
// Each event is "event: trace"; a final "event: end" carries the stop reason.
func (h *Handlers) HandleTrace(w http.ResponseWriter, r *http.Request) {
	flusher, ok := startSSE(w, r)
	if !ok {
		return
	}

	sink := trace.SinkFunc(func(ev *testagentv1.TraceEvent) error {
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := w.Write(formatSSE(eventTrace, string(payload))); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	res := h.svc.StreamTrace(r.Context(), sink)

	if res.Reason == trace.StopCap {
		end, _ := json.Marshal(map[string]any{"stream_id": res.StreamID, "sent": res.Sent, "reason": res.Reason})
		_, _ = w.Write(formatSSE(eventStreamEnd, string(end)))
		flusher.Flush()
	}
}

// HandleSubscribe handles GET /v1/subscribe: driver state changes as
// Server-Sent Events.
func (h *Handlers) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	if h.broker == nil {
		writeError(w, r, http.StatusServiceUnavailable, model.ErrCodeUnavailable, "state change feed not available")
		return
	}
	flusher, ok := startSSE(w, r)
	if !ok {
		return
	}

	ch := h.broker.Subscribe()
	defer h.broker.Unsubscribe(ch)

	keepalive := time.NewTicker(keepalivePing)
	defer keepalive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-keepalive.C:
			if _, err := w.Write([]byte(":keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case event, ok := <-ch:
			if !ok {
				return
			}
			if _, err := w.Write(event); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// HandleProtoSpec handles GET /test_agent_service.proto.
func (h *Handlers) HandleProtoSpec(w http.ResponseWriter, r *http.Request) {
	if len(h.protoSpec) == 0 {
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "proto definition not embedded")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(h.protoSpec)
}

// startSSE writes the event-stream headers and clears the write deadline
// for the long-lived response.
func startSSE(w http.ResponseWriter, r *http.Request) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "streaming not supported")
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})
	return flusher, true
}

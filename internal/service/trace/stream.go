package trace

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ashita-ai/testagent/api/testagentv1"
	"github.com/ashita-ai/testagent/internal/telemetry"
)

// Defaults for the trace stream.
const (
	DefaultMaxEvents = 10
	DefaultInterval  = 500 * time.Millisecond
)

// StopReason names the condition that ended a stream.
type StopReason string

const (
	StopCap        StopReason = "cap"
	StopCancelled  StopReason = "cancelled"
	StopSinkFailed StopReason = "sink_failed"
)

// Sink receives streamed events. A non-nil error from Send ends the stream.
type Sink interface {
	Send(*testagentv1.TraceEvent) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(*testagentv1.TraceEvent) error

// Send implements Sink.
func (f SinkFunc) Send(ev *testagentv1.TraceEvent) error { return f(ev) }

// StreamResult reports how a stream ended.
type StreamResult struct {
	StreamID string
	Sent     int
	Reason   StopReason
	Err      error // the sink error when Reason is StopSinkFailed
}

// Streamer drives a Generator into a Sink until the event cap is reached,
// the context is cancelled, or a send fails. It reads no shared state.
type Streamer struct {
	gen       Generator
	logger    *slog.Logger
	maxEvents int
	interval  time.Duration

	active atomic.Int64

	eventsSent    metric.Int64Counter
	streamsClosed metric.Int64Counter
}

// StreamerOption configures a Streamer.
type StreamerOption func(*Streamer)

// WithMaxEvents sets the per-stream event cap. Values below 1 are ignored.
func WithMaxEvents(n int) StreamerOption {
	return func(s *Streamer) {
		if n > 0 {
			s.maxEvents = n
		}
	}
}

// WithInterval sets the pause between events. Zero disables the pause.
func WithInterval(d time.Duration) StreamerOption {
	return func(s *Streamer) {
		if d >= 0 {
			s.interval = d
		}
	}
}

// NewStreamer creates a Streamer and registers its OTEL instruments.
func NewStreamer(gen Generator, logger *slog.Logger, opts ...StreamerOption) *Streamer {
	s := &Streamer{
		gen:       gen,
		logger:    logger,
		maxEvents: DefaultMaxEvents,
		interval:  DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerMetrics()
	return s
}

// MaxEvents returns the per-stream event cap.
func (s *Streamer) MaxEvents() int { return s.maxEvents }

// Sample returns n events from the streamer's generator, clamped to
// [1, MaxEvents], with strictly increasing timestamps.
func (s *Streamer) Sample(n int) []*testagentv1.TraceEvent {
	return Sample(s.gen, max(1, min(n, s.maxEvents)))
}

// Active returns the number of streams currently running.
func (s *Streamer) Active() int64 { return s.active.Load() }

// Run streams events to sink. Cancellation is checked before every event and
// aborts the pause between events. Timestamps within one stream are strictly
// increasing. Run never returns an error; the result says why it stopped.
func (s *Streamer) Run(ctx context.Context, sink Sink) StreamResult {
	res := StreamResult{StreamID: uuid.NewString()}
	s.active.Add(1)
	defer s.active.Add(-1)

	log := s.logger.With("stream_id", res.StreamID)
	log.Debug("trace stream started", "max_events", s.maxEvents, "interval", s.interval)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	var last uint64
	res.Reason = StopCap
loop:
	for res.Sent < s.maxEvents {
		if ctx.Err() != nil {
			res.Reason = StopCancelled
			break
		}

		ev := s.gen.Generate()
		last = monotonic(ev, last)
		if err := sink.Send(ev); err != nil {
			res.Reason = StopSinkFailed
			res.Err = err
			break
		}
		res.Sent++
		s.eventsSent.Add(ctx, 1)

		if res.Sent == s.maxEvents || s.interval == 0 {
			continue
		}
		if timer == nil {
			timer = time.NewTimer(s.interval)
		} else {
			timer.Reset(s.interval)
		}
		select {
		case <-ctx.Done():
			res.Reason = StopCancelled
			break loop
		case <-timer.C:
		}
	}

	s.streamsClosed.Add(context.WithoutCancel(ctx), 1,
		metric.WithAttributes(attribute.String("reason", string(res.Reason))))
	log.Debug("trace stream stopped", "sent", res.Sent, "reason", res.Reason, "error", res.Err)
	return res
}

func (s *Streamer) registerMetrics() {
	meter := telemetry.Meter("testagent/trace")

	s.eventsSent, _ = meter.Int64Counter("testagent.trace.events_sent",
		metric.WithDescription("Trace events delivered to stream consumers"),
	)
	s.streamsClosed, _ = meter.Int64Counter("testagent.trace.streams_closed",
		metric.WithDescription("Trace streams ended, by stop reason"),
	)
	_, _ = meter.Int64ObservableGauge("testagent.trace.streams_active",
		metric.WithDescription("Trace streams currently running"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(s.active.Load())
			return nil
		}),
	)
}

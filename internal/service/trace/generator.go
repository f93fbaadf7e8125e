// Package trace generates synthetic trace events and streams them to a sink.
package trace

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ashita-ai/testagent/api/testagentv1"
)

// DefaultMessage is the placeholder carried by every generated event.
const DefaultMessage = "Mock trace event from TestAgentService"

var (
	traceGroups = []testagentv1.TraceGroup{
		testagentv1.TraceGroupTrajectory,
		testagentv1.TraceGroupNavigation,
		testagentv1.TraceGroupInference,
		testagentv1.TraceGroupSafetyCritical,
	}
	traceSeverities = []testagentv1.TraceSeverity{
		testagentv1.TraceSeverityDebug,
		testagentv1.TraceSeverityInfo,
		testagentv1.TraceSeverityError,
	}
	traceEventTypes = []testagentv1.TraceEventType{
		testagentv1.TraceEventTypeFunctionCall,
		testagentv1.TraceEventTypeLogMessage,
	}
)

// Generator produces one trace event per call. Implementations must be safe
// for concurrent use.
type Generator interface {
	Generate() *testagentv1.TraceEvent
}

// RandomGenerator draws group, severity, and event type uniformly from their
// fixed sets and stamps the wall clock.
type RandomGenerator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	now     func() time.Time
	message string
}

// GeneratorOption configures a RandomGenerator.
type GeneratorOption func(*RandomGenerator)

// WithRand replaces the random source.
func WithRand(r *rand.Rand) GeneratorOption {
	return func(g *RandomGenerator) { g.rng = r }
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *RandomGenerator) { g.now = now }
}

// WithMessage replaces the placeholder message.
func WithMessage(msg string) GeneratorOption {
	return func(g *RandomGenerator) { g.message = msg }
}

// NewRandomGenerator returns a generator seeded from the runtime's random
// source unless WithRand is given.
func NewRandomGenerator(opts ...GeneratorOption) *RandomGenerator {
	g := &RandomGenerator{
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:     time.Now,
		message: DefaultMessage,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate implements Generator.
func (g *RandomGenerator) Generate() *testagentv1.TraceEvent {
	g.mu.Lock()
	group := traceGroups[g.rng.IntN(len(traceGroups))]
	severity := traceSeverities[g.rng.IntN(len(traceSeverities))]
	eventType := traceEventTypes[g.rng.IntN(len(traceEventTypes))]
	g.mu.Unlock()

	return &testagentv1.TraceEvent{
		TimestampNs: uint64(g.now().UnixNano()),
		GroupsMask:  uint32(group),
		Severity:    severity,
		EventType:   eventType,
		Message:     g.message,
	}
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func() *testagentv1.TraceEvent

// Generate implements Generator.
func (f GeneratorFunc) Generate() *testagentv1.TraceEvent { return f() }

// Sample returns n freshly generated events without streaming them.
func Sample(g Generator, n int) []*testagentv1.TraceEvent {
	events := make([]*testagentv1.TraceEvent, 0, n)
	var last uint64
	for i := 0; i < n; i++ {
		ev := g.Generate()
		last = monotonic(ev, last)
		events = append(events, ev)
	}
	return events
}

// monotonic bumps ev's timestamp past last when the clock did not advance
// and returns the timestamp now carried by ev.
func monotonic(ev *testagentv1.TraceEvent, last uint64) uint64 {
	if ev.TimestampNs <= last {
		ev.TimestampNs = last + 1
	}
	return ev.TimestampNs
}

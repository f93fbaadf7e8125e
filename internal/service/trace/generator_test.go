package trace

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/testagent/api/testagentv1"
)

func TestRandomGeneratorDrawsFromDefinedSets(t *testing.T) {
	g := NewRandomGenerator(WithRand(rand.New(rand.NewPCG(1, 2))))

	seenGroups := map[uint32]bool{}
	for i := 0; i < 500; i++ {
		ev := g.Generate()
		assert.Contains(t, traceGroups, testagentv1.TraceGroup(ev.GroupsMask))
		assert.Contains(t, traceSeverities, ev.Severity)
		assert.Contains(t, traceEventTypes, ev.EventType)
		assert.Equal(t, DefaultMessage, ev.Message)
		seenGroups[ev.GroupsMask] = true
	}
	assert.Len(t, seenGroups, len(traceGroups), "every group should appear over 500 draws")
}

func TestRandomGeneratorDeterministicWithSeed(t *testing.T) {
	clock := func() time.Time { return time.Unix(0, 42) }
	a := NewRandomGenerator(WithRand(rand.New(rand.NewPCG(7, 7))), WithClock(clock))
	b := NewRandomGenerator(WithRand(rand.New(rand.NewPCG(7, 7))), WithClock(clock))

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}

func TestRandomGeneratorStampsClock(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC)
	g := NewRandomGenerator(WithClock(func() time.Time { return at }), WithMessage("hi"))

	ev := g.Generate()
	assert.Equal(t, uint64(at.UnixNano()), ev.TimestampNs)
	assert.Equal(t, "hi", ev.Message)
}

func TestRandomGeneratorConcurrentUse(t *testing.T) {
	g := NewRandomGenerator()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				require.NotNil(t, g.Generate())
			}
		}()
	}
	wg.Wait()
}

func TestSampleTimestampsStrictlyIncrease(t *testing.T) {
	frozen := NewRandomGenerator(WithClock(func() time.Time { return time.Unix(100, 0) }))

	events := Sample(frozen, 5)
	require.Len(t, events, 5)
	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i].TimestampNs, events[i-1].TimestampNs)
	}
}

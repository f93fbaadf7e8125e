package driver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ashita-ai/testagent/internal/model"
)

const hookTimeout = 10 * time.Second

// StateHook receives a StateChange after every successful mutation.
//
// Changes are delivered off the caller's goroutine, one at a time, in the
// order the mutations were applied to the store. Each change reaches the
// hooks in registration order. Implementations must not block indefinitely:
// a slow hook delays every later change. Failures are logged and do not fail
// the originating call.
type StateHook interface {
	OnStateChange(ctx context.Context, change model.StateChange) error
}

// StateHookFunc adapts a function to the StateHook interface.
type StateHookFunc func(ctx context.Context, change model.StateChange) error

// OnStateChange implements StateHook.
func (f StateHookFunc) OnStateChange(ctx context.Context, change model.StateChange) error {
	return f(ctx, change)
}

// dispatcher is an unbounded FIFO of state changes drained by at most one
// goroutine at a time. The drainer exits when the queue is empty, so an idle
// Service holds no goroutine.
type dispatcher struct {
	hooks  []StateHook
	logger *slog.Logger

	mu      sync.Mutex
	idle    *sync.Cond
	queue   []model.StateChange
	running bool
}

func newDispatcher(hooks []StateHook, logger *slog.Logger) *dispatcher {
	d := &dispatcher{hooks: hooks, logger: logger}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// enqueue never blocks on hooks.
func (d *dispatcher) enqueue(change model.StateChange) {
	if len(d.hooks) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, change)
	if !d.running {
		d.running = true
		go d.drain()
	}
}

func (d *dispatcher) drain() {
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.queue = nil
			d.running = false
			d.idle.Broadcast()
			d.mu.Unlock()
			return
		}
		change := d.queue[0]
		d.queue[0] = model.StateChange{}
		d.queue = d.queue[1:]
		d.mu.Unlock()

		d.deliver(change)
	}
}

func (d *dispatcher) deliver(change model.StateChange) {
	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()
	for _, h := range d.hooks {
		if err := h.OnStateChange(ctx, change); err != nil {
			d.logger.Warn("state hook failed", "error", err, "kind", change.Kind)
		}
	}
}

// wait blocks until every queued change has been delivered.
func (d *dispatcher) wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.running {
		d.idle.Wait()
	}
}

// WaitHooks blocks until every change recorded so far has reached every hook.
func (s *Service) WaitHooks() {
	s.dispatch.wait()
}

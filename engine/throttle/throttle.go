// Package throttle implements a throttled timer: a callback invoked at most once per delay while enabled,
// never with more than one fire pending.
package throttle

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/loop"
)

// Scheduler arranges for f to run once after d and returns a function that stops the pending run.
// The default scheduler is time.AfterFunc.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

// Throttle runs its callback at most once per delay while enabled.
// It is re-armed only after the previous fire has run the callback and cleared the pending flag.
type Throttle struct {
	mu       sync.Mutex
	callback func()
	enabled  bool
	delay    time.Duration
	pending  bool
	armed    uint64
	closed   bool
	stop     func() bool

	queue    *loop.Queue
	schedule Scheduler
}

// New creates a Throttle. It is disabled until enabled by an option or Set.
//
// Parameters:
//   - callback: the function to run on each fire
//   - options: functional options for enabled state, delay, queue, and scheduler
//
// Returns:
//   - *Throttle: the throttle; call Evaluate to arm it
func New(callback func(), options ...ThrottleBuilderOption) *Throttle {
	t := &Throttle{
		callback: callback,
		delay:    10 * time.Millisecond,
		schedule: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
	}
	for _, option := range options {
		option(t)
	}
	if t.delay < 0 {
		t.delay = 0
	}
	return t
}

// Evaluate arms one fire after the delay when the throttle is enabled and nothing is pending.
//
// Returns:
//   - bool: true if a fire was armed by this call
func (t *Throttle) Evaluate() bool {
	t.mu.Lock()
	if !t.enabled || t.pending || t.closed {
		t.mu.Unlock()
		return false
	}
	t.pending = true
	t.armed++
	armed := t.armed
	delay := t.delay
	t.mu.Unlock()

	stop := t.schedule(delay, t.deliver)

	t.mu.Lock()
	if t.pending && t.armed == armed {
		t.stop = stop
	}
	t.mu.Unlock()
	return true
}

// deliver hands the fire to the owner's queue when one is configured.
func (t *Throttle) deliver() {
	if t.queue == nil {
		t.fire()
		return
	}
	if !t.queue.Post(t.fire) {
		t.mu.Lock()
		t.pending = false
		t.stop = nil
		t.mu.Unlock()
	}
}

// fire runs the callback, clears the pending flag and re-evaluates.
// A fire that was already scheduled still runs after the throttle is disabled; only Close suppresses it.
func (t *Throttle) fire() {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()

	if !closed && t.callback != nil {
		t.callback()
	}

	t.mu.Lock()
	t.pending = false
	t.stop = nil
	t.mu.Unlock()

	t.Evaluate()
}

// Set updates the enabled state and delay, then re-evaluates.
// Disabling does not cancel a pending fire; no new fire is armed after it.
//
// Parameters:
//   - enabled: whether the throttle may arm new fires
//   - delay: the delay before each fire; negative values are treated as 0
func (t *Throttle) Set(enabled bool, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	t.mu.Lock()
	t.enabled = enabled
	t.delay = delay
	t.mu.Unlock()
	t.Evaluate()
}

// Pending reports whether a fire is armed and has not completed.
func (t *Throttle) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Enabled reports whether the throttle may arm new fires.
func (t *Throttle) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Delay returns the configured delay.
func (t *Throttle) Delay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delay
}

// Close disables the throttle for good and stops a pending fire if its timer has not expired yet.
// Used when the owner is torn down. Idempotent.
func (t *Throttle) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.enabled = false
	if t.stop != nil && t.stop() {
		t.pending = false
	}
	t.stop = nil
}

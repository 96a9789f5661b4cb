package throttle

import (
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/loop"
)

// ThrottleBuilderOption is a functional option for configuring a Throttle.
type ThrottleBuilderOption func(*Throttle)

// WithEnabled sets the initial enabled state.
//
// Parameters:
//   - enabled: whether the throttle may arm fires
//
// Returns:
//   - ThrottleBuilderOption: option function to apply
func WithEnabled(enabled bool) ThrottleBuilderOption {
	return func(t *Throttle) {
		t.enabled = enabled
	}
}

// WithDelay sets the delay between fires (default 10ms).
//
// Parameters:
//   - delay: the delay before each fire
//
// Returns:
//   - ThrottleBuilderOption: option function to apply
func WithDelay(delay time.Duration) ThrottleBuilderOption {
	return func(t *Throttle) {
		t.delay = delay
	}
}

// WithQueue routes every fire through q so the callback runs on the goroutine draining q.
//
// Parameters:
//   - q: the owner's task queue
//
// Returns:
//   - ThrottleBuilderOption: option function to apply
func WithQueue(q *loop.Queue) ThrottleBuilderOption {
	return func(t *Throttle) {
		t.queue = q
	}
}

// WithScheduler replaces time.AfterFunc as the source of delayed runs.
//
// Parameters:
//   - s: the scheduler to use
//
// Returns:
//   - ThrottleBuilderOption: option function to apply
func WithScheduler(s Scheduler) ThrottleBuilderOption {
	return func(t *Throttle) {
		if s != nil {
			t.schedule = s
		}
	}
}

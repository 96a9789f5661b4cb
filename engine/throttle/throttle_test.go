package throttle

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock records scheduled runs so tests fire them explicitly.
type fakeClock struct {
	delays  []time.Duration
	pending []func()
	stopped int
}

func (c *fakeClock) schedule(d time.Duration, f func()) func() bool {
	c.delays = append(c.delays, d)
	c.pending = append(c.pending, f)
	idx := len(c.pending) - 1
	return func() bool {
		if c.pending[idx] == nil {
			return false
		}
		c.pending[idx] = nil
		c.stopped++
		return true
	}
}

func (c *fakeClock) outstanding() int {
	n := 0
	for _, f := range c.pending {
		if f != nil {
			n++
		}
	}
	return n
}

// advance runs the oldest outstanding fire.
func (c *fakeClock) advance(t *testing.T) {
	t.Helper()
	for i, f := range c.pending {
		if f != nil {
			c.pending[i] = nil
			f()
			return
		}
	}
	t.Fatal("nothing scheduled")
}

func TestDisabledNeverFires(t *testing.T) {
	clock := &fakeClock{}
	calls := 0
	th := New(func() { calls++ }, WithScheduler(clock.schedule))

	assert.False(t, th.Evaluate())
	assert.False(t, th.Pending())
	assert.Zero(t, clock.outstanding())
	assert.Zero(t, calls)
}

func TestAtMostOnePending(t *testing.T) {
	clock := &fakeClock{}
	calls := 0
	th := New(func() { calls++ }, WithEnabled(true), WithDelay(10*time.Millisecond), WithScheduler(clock.schedule))

	require.True(t, th.Evaluate())
	assert.False(t, th.Evaluate())
	assert.False(t, th.Evaluate())
	assert.Equal(t, 1, clock.outstanding())
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, clock.delays)
	assert.True(t, th.Pending())

	clock.advance(t)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, clock.outstanding(), "fire re-arms while enabled")

	clock.advance(t)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, clock.outstanding())
}

func TestCallbackRunsBeforePendingClears(t *testing.T) {
	clock := &fakeClock{}
	var th *Throttle
	pendingDuringCallback := false
	th = New(func() { pendingDuringCallback = th.Pending() }, WithEnabled(true), WithScheduler(clock.schedule))

	th.Evaluate()
	clock.advance(t)
	assert.True(t, pendingDuringCallback)
}

func TestDisableDoesNotCancelInFlight(t *testing.T) {
	clock := &fakeClock{}
	calls := 0
	th := New(func() { calls++ }, WithEnabled(true), WithScheduler(clock.schedule))

	th.Evaluate()
	th.Set(false, 10*time.Millisecond)
	assert.True(t, th.Pending())
	assert.False(t, th.Enabled())

	clock.advance(t)
	assert.Equal(t, 1, calls)
	assert.False(t, th.Pending())
	assert.Zero(t, clock.outstanding())
}

func TestSetEnablesAndArms(t *testing.T) {
	clock := &fakeClock{}
	th := New(func() {}, WithScheduler(clock.schedule))

	th.Set(true, -5*time.Millisecond)
	assert.Equal(t, time.Duration(0), th.Delay())
	assert.Equal(t, []time.Duration{0}, clock.delays)
	assert.True(t, th.Pending())
}

func TestCloseStopsPendingFire(t *testing.T) {
	clock := &fakeClock{}
	calls := 0
	th := New(func() { calls++ }, WithEnabled(true), WithScheduler(clock.schedule))

	th.Evaluate()
	th.Close()
	th.Close()
	assert.Equal(t, 1, clock.stopped)
	assert.False(t, th.Pending())
	assert.False(t, th.Evaluate())
	assert.Zero(t, calls)
}

func TestFiresRunOnQueue(t *testing.T) {
	clock := &fakeClock{}
	q := loop.NewQueue(1)
	calls := 0
	th := New(func() { calls++ }, WithEnabled(true), WithQueue(q), WithScheduler(clock.schedule))

	th.Evaluate()
	clock.advance(t)
	assert.Zero(t, calls, "fire waits for the queue to drain")
	assert.True(t, th.Pending())

	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, clock.outstanding())
}

func TestClosedQueueClearsPending(t *testing.T) {
	clock := &fakeClock{}
	q := loop.NewQueue(1)
	th := New(func() {}, WithEnabled(true), WithQueue(q), WithScheduler(clock.schedule))

	th.Evaluate()
	q.Close()
	clock.advance(t)
	assert.False(t, th.Pending())
}

func TestRealTimer(t *testing.T) {
	done := make(chan struct{}, 1)
	th := New(func() {
		select {
		case done <- struct{}{}:
		default:
		}
	}, WithEnabled(true), WithDelay(time.Millisecond))
	defer th.Close()

	th.Evaluate()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}

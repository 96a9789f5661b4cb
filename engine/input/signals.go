// Package input provides the keyboard signal bus fed by the window and the key-state watcher built on it.
package input

import "sync"

// KeyEvent is the kind of a keyboard signal.
type KeyEvent uint8

const (
	// KeyDown is published when a key is pressed.
	KeyDown KeyEvent = iota
	// KeyUp is published when a key is released.
	KeyUp
)

// KeyHandler receives every keyboard signal published on a Signals bus.
type KeyHandler func(event KeyEvent, key string)

// Signals is a keyboard signal bus. Publishers report key presses and releases by name and every
// subscriber sees every signal in publish order. Safe for concurrent use.
type Signals struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[uint64]KeyHandler
	order    []uint64
}

// Global is the process-wide keyboard signal bus the window publishes to by default.
var Global = NewSignals()

// NewSignals creates an empty signal bus.
func NewSignals() *Signals {
	return &Signals{handlers: make(map[uint64]KeyHandler)}
}

// Subscribe registers h for all future signals.
//
// Parameters:
//   - h: the handler to register
//
// Returns:
//   - func(): removes the registration; safe to call more than once
func (s *Signals) Subscribe(h KeyHandler) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = h
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Signals) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handlers, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

// KeyDown publishes a press of the named key.
func (s *Signals) KeyDown(key string) {
	s.publish(KeyDown, key)
}

// KeyUp publishes a release of the named key.
func (s *Signals) KeyUp(key string) {
	s.publish(KeyUp, key)
}

// Len returns the number of active subscriptions.
func (s *Signals) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

// publish delivers to a snapshot of the subscribers so handlers may subscribe or unsubscribe during delivery.
// A handler removed by an earlier handler of the same delivery is skipped.
func (s *Signals) publish(event KeyEvent, key string) {
	s.mu.Lock()
	ids := append([]uint64(nil), s.order...)
	s.mu.Unlock()

	for _, id := range ids {
		s.mu.Lock()
		h, ok := s.handlers[id]
		s.mu.Unlock()
		if ok {
			h(event, key)
		}
	}
}

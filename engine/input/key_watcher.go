package input

import "sync"

// KeyWatcher invokes callbacks on the down and up edges of one named key. It holds nothing beyond
// its registration on the signal bus; edge detection relies on the publisher reporting each press
// and release exactly once (the window never publishes key repeats).
type KeyWatcher struct {
	key         string
	unsubscribe func()
	once        sync.Once
}

// WatchKey subscribes to signals and starts watching key.
//
// Parameters:
//   - signals: the bus to subscribe to, or nil for Global
//   - key: the key name to watch, e.g. "Shift"
//   - onDown: invoked once per press of key; may be nil
//   - onUp: invoked once per release of key; may be nil
//
// Returns:
//   - *KeyWatcher: the active watcher; Close releases the subscription
func WatchKey(signals *Signals, key string, onDown, onUp func()) *KeyWatcher {
	if signals == nil {
		signals = Global
	}
	w := &KeyWatcher{key: key}
	w.unsubscribe = signals.Subscribe(func(event KeyEvent, name string) {
		if name != key {
			return
		}
		switch event {
		case KeyDown:
			if onDown != nil {
				onDown()
			}
		case KeyUp:
			if onUp != nil {
				onUp()
			}
		}
	})
	return w
}

// Key returns the watched key name.
func (w *KeyWatcher) Key() string {
	return w.key
}

// Close stops watching. Callbacks already being delivered still complete. Idempotent.
func (w *KeyWatcher) Close() {
	w.once.Do(w.unsubscribe)
}

package controller

import "log/slog"

// MachineBuilderOption is a functional option for configuring a Machine.
type MachineBuilderOption func(*Machine)

// WithObserver registers fn to be called with every action after it has been applied.
//
// Parameters:
//   - fn: the observer
//
// Returns:
//   - MachineBuilderOption: option function that sets the observer
func WithObserver(fn func(Action)) MachineBuilderOption {
	return func(m *Machine) {
		m.observer = fn
	}
}

// WithLogger sets the logger actions are traced to at debug level.
func WithLogger(logger *slog.Logger) MachineBuilderOption {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMaxPasses bounds how many rule passes a single Run may take before giving up.
func WithMaxPasses(n int) MachineBuilderOption {
	return func(m *Machine) {
		if n > 0 {
			m.maxPasses = n
		}
	}
}

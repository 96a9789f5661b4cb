package renderer

import "log/slog"

// LibraryBuilderOption is a functional option applied to a library during construction via NewLibrary.
type LibraryBuilderOption func(*library)

// WithBackendFactory replaces the WebGPU backend factory, e.g. with a recording backend in tests.
//
// Parameters:
//   - f: the factory creating a backend per surface
//
// Returns:
//   - LibraryBuilderOption: a function that applies the backend factory option to a library
func WithBackendFactory(f BackendFactory) LibraryBuilderOption {
	return func(l *library) {
		if f != nil {
			l.newBackend = f
		}
	}
}

// WithMSAA sets the multisample anti-aliasing sample count of the default WebGPU backend.
//
// Parameters:
//   - count: MSAAOff or MSAA4x
//
// Returns:
//   - LibraryBuilderOption: a function that applies the MSAA option to a library
func WithMSAA(count MSAASampleCount) LibraryBuilderOption {
	return func(l *library) {
		l.newBackend = WGPUBackendFactory(count)
	}
}

// WithWorkers sets the worker pool size for EntitiesFromSolids. Zero converts on the calling goroutine.
//
// Parameters:
//   - n: the number of workers (defaults to runtime.NumCPU())
//
// Returns:
//   - LibraryBuilderOption: a function that applies the worker option to a library
func WithWorkers(n int) LibraryBuilderOption {
	return func(l *library) {
		l.workers = max(n, 0)
	}
}

// WithLogger sets the logger for skipped solids and dropped frames.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - LibraryBuilderOption: a function that applies the logger option to a library
func WithLogger(logger *slog.Logger) LibraryBuilderOption {
	return func(l *library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

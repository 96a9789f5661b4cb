package main

import (
	"log/slog"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
)

// modelSet keeps the solids loaded from each model file, in command-line order.
type modelSet struct {
	paths  []string
	solids map[string][]geometry.Solid
	load   func(path string) ([]geometry.Solid, error)
	logger *slog.Logger
}

func newModelSet(paths []string, logger *slog.Logger) *modelSet {
	return newModelSetWith(paths, geometry.LoadGLTF, logger)
}

func newModelSetWith(paths []string, load func(string) ([]geometry.Solid, error), logger *slog.Logger) *modelSet {
	m := &modelSet{
		solids: make(map[string][]geometry.Solid, len(paths)),
		load:   load,
		logger: logger,
	}
	// absolute, so reloads reported by the watcher find their entry
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		m.paths = append(m.paths, p)
		m.Reload(p)
	}
	return m
}

// Reload reads path again. A file that fails to load keeps its previous solids.
func (m *modelSet) Reload(path string) {
	solids, err := m.load(path)
	if err != nil {
		m.logger.Warn("failed to load model", "path", path, "err", err)
		return
	}
	m.solids[path] = solids
	m.logger.Info("loaded model", "path", path, "solids", len(solids))
}

// Solids returns every loaded solid.
func (m *modelSet) Solids() []geometry.Solid {
	var out []geometry.Solid
	for _, p := range m.paths {
		out = append(out, m.solids[p]...)
	}
	return out
}

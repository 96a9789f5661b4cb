package controller

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
)

const defaultMaxPasses = 16

// Machine applies batches of actions to a State and settles the derived rules. It holds the library and
// the current props but never the state itself: callers own the state record and pass it in.
type Machine struct {
	lib       renderer.Library
	props     Props
	logger    *slog.Logger
	observer  func(Action)
	maxPasses int
}

// NewMachine creates a Machine.
//
// Parameters:
//   - lib: the rendering library used by the reducer and rules
//   - props: the initial props
//   - options: functional options
//
// Returns:
//   - *Machine: the new machine
func NewMachine(lib renderer.Library, props Props, options ...MachineBuilderOption) *Machine {
	m := &Machine{
		lib:       lib,
		props:     props,
		logger:    slog.Default(),
		maxPasses: defaultMaxPasses,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Props returns the current props.
func (m *Machine) Props() Props {
	return m.props
}

// Run applies actions to s as one batch and then settles the rules: each rule sees the batch's net change
// once, and the actions rules emit are applied and settled in turn until a pass emits nothing.
//
// Parameters:
//   - s: the current state
//   - actions: the batch to apply, in order
//
// Returns:
//   - State: the settled state
func (m *Machine) Run(s State, actions ...Action) State {
	before := snapshot{state: s, props: m.props}
	return m.settle(before, m.apply(s, actions), false)
}

// Settle evaluates every rule against s regardless of what changed. Used on mount.
func (m *Machine) Settle(s State) State {
	cur := snapshot{state: s, props: m.props}
	return m.settle(cur, s, true)
}

// SetProps replaces the props and settles the rules that depend on whatever changed.
//
// Parameters:
//   - s: the current state
//   - props: the new props
//
// Returns:
//   - State: the settled state
func (m *Machine) SetProps(s State, props Props) State {
	before := snapshot{state: s, props: m.props}
	m.props = props
	return m.settle(before, s, false)
}

func (m *Machine) apply(s State, actions []Action) State {
	for _, a := range actions {
		if a == nil {
			continue
		}
		m.logger.Debug("controller action", "action", a.String())
		s = Reduce(m.lib, s, a)
		if m.observer != nil {
			m.observer(a)
		}
	}
	return s
}

func (m *Machine) settle(before snapshot, s State, force bool) State {
	seen := make([]snapshot, len(rules))
	for i := range seen {
		seen[i] = before
	}
	for pass := 0; pass < m.maxPasses; pass++ {
		emitted := false
		for i, r := range rules {
			cur := snapshot{state: s, props: m.props}
			if !(force && pass == 0) && !r.changed(seen[i], cur) {
				continue
			}
			seen[i] = cur
			if actions := r.eval(m.lib, cur); len(actions) > 0 {
				s = m.apply(s, actions)
				emitted = true
			}
		}
		if !emitted {
			return s
		}
	}
	m.logger.Warn("controller rules did not settle", "passes", m.maxPasses)
	return s
}

// Package hotkey registers global keyboard shortcuts.
package hotkey

import (
	"log/slog"
	"sync"

	hook "github.com/robotn/gohook"
)

type binding struct {
	keys   []string
	action func()
}

// Manager owns the global keyboard hook and dispatches registered
// shortcuts. Bind before Start; bindings are fixed once running.
type Manager struct {
	mu       sync.Mutex
	running  bool
	bindings []binding
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Bind registers action for the given key chord, e.g. ("ctrl", "shift", "space").
func (m *Manager) Bind(action func(), keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings = append(m.bindings, binding{keys: keys, action: action})
}

// Start installs the global hook. Calling Start while running is a no-op.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	for _, b := range m.bindings {
		action := b.action
		hook.Register(hook.KeyDown, b.keys, func(_ hook.Event) {
			// Hotkeys fire on the hook thread; never block it.
			go action()
		})
		slog.Debug("registered hotkey", "keys", b.keys)
	}

	events := hook.Start()
	go func() {
		<-hook.Process(events)
	}()

	m.running = true
	slog.Info("global hotkeys active", "count", len(m.bindings))
	return nil
}

// Stop removes the global hook. Idempotent.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	hook.End()
	m.running = false
}

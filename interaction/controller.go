// Package interaction governs overlay visibility and listening modes.
package interaction

import (
	"log/slog"
	"sync"
)

// State holds the process-wide interaction flags. The zero value is the
// initial state: hidden, opaque policy, no listening mode active.
type State struct {
	Visible          bool `json:"visible"`
	ForceTransparent bool `json:"forceTransparent"`
	PushToTalkActive bool `json:"pushToTalkActive"`
	ContinuousActive bool `json:"continuousActive"`
}

// Event is a toggle applied to the interaction state.
type Event int

const (
	ToggleVisibility Event = iota
	TogglePushToTalk
	ToggleContinuous
	ToggleForceTransparent
)

// Presentation is the window policy derived from a state: how opaque the
// overlay should be and whether pointer/keyboard input passes through it.
type Presentation struct {
	Opacity     float64 `json:"opacity"`
	IgnoreInput bool    `json:"ignoreInput"`
}

const dimmedOpacity = 0.15

// Derive computes the presentation policy for a state. Input passthrough
// is disabled (the window is focusable and opaque) only while the overlay
// is visible and not forced transparent.
func Derive(s State) Presentation {
	p := Presentation{IgnoreInput: !(s.Visible && !s.ForceTransparent)}
	switch {
	case s.ForceTransparent:
		p.Opacity = 0
	case s.Visible:
		p.Opacity = 1.0
	default:
		p.Opacity = dimmedOpacity
	}
	return p
}

// Sink receives interaction broadcasts for the UI boundary. Delivery is
// best effort; implementations must never block or fail orchestration.
type Sink interface {
	InteractionChanged(visible bool)
	PushToTalkChanged(active bool, status, mode string)
	Status(message string)
}

// Controller is the single writer of the interaction state. Every applied
// event mutates the state and triggers exactly one broadcast to the sink.
// Broadcasts are suppressed until the host UI reports it has loaded; the
// load notification itself forces one broadcast through so the UI starts
// from the current state.
type Controller struct {
	mu     sync.Mutex
	state  State
	sink   Sink
	loaded bool
}

// NewController creates a controller broadcasting to sink. A nil sink
// disables broadcasting.
func NewController(sink Sink) *Controller {
	return &Controller{sink: sink}
}

// State returns the current interaction state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Presentation returns the policy derived from the current state.
func (c *Controller) Presentation() Presentation {
	return Derive(c.State())
}

// MarkLoaded records that the host UI finished loading and forces one
// broadcast of the current visibility so the UI is never left stale.
func (c *Controller) MarkLoaded() {
	c.mu.Lock()
	c.loaded = true
	state := c.state
	sink := c.sink
	c.mu.Unlock()

	if sink != nil {
		sink.InteractionChanged(state.Visible)
	}
}

// Apply mutates the state for the given event and returns the new state.
// Unknown events leave the state unchanged.
func (c *Controller) Apply(ev Event) State {
	c.mu.Lock()

	var broadcast func(Sink)
	switch ev {
	case ToggleVisibility:
		c.state.Visible = !c.state.Visible
		visible := c.state.Visible
		broadcast = func(s Sink) { s.InteractionChanged(visible) }

	case TogglePushToTalk:
		c.state.PushToTalkActive = !c.state.PushToTalkActive
		active := c.state.PushToTalkActive
		status := "processing"
		if active {
			status = "listening"
		}
		mode := modeLabel(c.state.ContinuousActive)
		broadcast = func(s Sink) { s.PushToTalkChanged(active, status, mode) }

	case ToggleContinuous:
		c.state.ContinuousActive = !c.state.ContinuousActive
		mode := modeLabel(c.state.ContinuousActive)
		broadcast = func(s Sink) { s.Status("listening mode: " + mode) }

	case ToggleForceTransparent:
		c.state.ForceTransparent = !c.state.ForceTransparent
		message := "click-through disabled"
		if c.state.ForceTransparent {
			message = "click-through enabled"
		}
		broadcast = func(s Sink) { s.Status(message) }

	default:
		c.mu.Unlock()
		slog.Warn("unknown interaction event", "event", int(ev))
		return c.State()
	}

	state := c.state
	sink := c.sink
	loaded := c.loaded
	c.mu.Unlock()

	if sink != nil && loaded {
		broadcast(sink)
	}
	return state
}

func modeLabel(continuous bool) string {
	if continuous {
		return "continuous"
	}
	return "press"
}

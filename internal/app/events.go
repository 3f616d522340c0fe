package app

import (
	"github.com/wailsapp/wails/v3/pkg/application"

	"github.com/ozgurozkan123/ai4.coach/interaction"
	"github.com/ozgurozkan123/ai4.coach/internal/types"
)

// Event names emitted to the frontend.
const (
	EventInteractionChanged  = "interaction-changed"
	EventPushToTalkChanged   = "push-to-talk-changed"
	EventStatus              = "status"
	EventPresentationChanged = "presentation-changed"
)

// Emitter forwards interaction broadcasts to the frontend as Wails
// events. A nil app drops every event, which keeps headless tests quiet.
type Emitter struct {
	app *application.App
}

// NewEmitter creates an emitter targeting app.
func NewEmitter(app *application.App) *Emitter {
	return &Emitter{app: app}
}

var _ interaction.Sink = (*Emitter)(nil)

func (e *Emitter) InteractionChanged(visible bool) {
	e.emit(EventInteractionChanged, types.InteractionEvent{Visible: visible})
}

func (e *Emitter) PushToTalkChanged(active bool, status, mode string) {
	e.emit(EventPushToTalkChanged, types.PushToTalkEvent{Active: active, Status: status, Mode: mode})
}

func (e *Emitter) Status(message string) {
	e.emit(EventStatus, types.StatusEvent{Message: message})
}

// PresentationChanged pushes the derived window policy to the frontend,
// which applies the opacity itself.
func (e *Emitter) PresentationChanged(p interaction.Presentation) {
	e.emit(EventPresentationChanged, p)
}

func (e *Emitter) emit(name string, data any) {
	if e.app != nil {
		e.app.Event.Emit(name, data)
	}
}

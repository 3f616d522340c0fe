// Package types provides shared type definitions for the application.
package types

// Turn is one prior exchange turn in the running conversation.
type Turn struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// SessionResult is the frontend-facing shape of a completed voice request.
type SessionResult struct {
	ID           string `json:"id"`
	StartedAt    int64  `json:"startedAt"` // Unix milliseconds
	EndedAt      int64  `json:"endedAt"`
	Transcript   string `json:"transcript"`
	Language     string `json:"language"`
	ResponseText string `json:"responseText"`
	Audio        []byte `json:"audio,omitempty"` // base64 over the wire
	FrameCount   int    `json:"frameCount"`
	WindowStart  int64  `json:"windowStart"`
	WindowEnd    int64  `json:"windowEnd"`
}

// InteractionEvent notifies the UI of an overlay visibility change.
type InteractionEvent struct {
	Visible bool `json:"visible"`
}

// PushToTalkEvent notifies the UI of a listening-mode change.
type PushToTalkEvent struct {
	Active bool   `json:"active"`
	Status string `json:"status"`
	Mode   string `json:"mode"` // "press" or "continuous"
}

// StatusEvent carries a human-readable status line for the UI.
type StatusEvent struct {
	Message string `json:"message"`
}

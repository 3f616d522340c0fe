// Package assistant coordinates one voice-request lifecycle: capture,
// transcription, frame correlation, reasoning and optional synthesis.
package assistant

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ozgurozkan123/ai4.coach/frames"
	"github.com/ozgurozkan123/ai4.coach/internal/types"
	"github.com/ozgurozkan123/ai4.coach/llm"
	"github.com/ozgurozkan123/ai4.coach/speech"
	"github.com/ozgurozkan123/ai4.coach/stt"
)

// ScreenshotModePrimary attaches frames of the primary display to the
// reasoning request. Any other mode skips frame selection.
const ScreenshotModePrimary = "primary"

// DefaultSystemPrompt frames the assistant for the reasoner.
const DefaultSystemPrompt = "You are a voice assistant that can see the user's screen. " +
	"Answer the spoken question concisely using the attached screenshots for context. " +
	"Reply in the language the user spoke."

// leadIn is how far before the utterance frame selection reaches back.
const leadIn = 5 * time.Second

// Capture controls the screen-capture scheduler. Start and Stop are
// idempotent.
type Capture interface {
	Start()
	Stop()
}

// Config tunes the orchestrator.
type Config struct {
	SystemPrompt      string
	TranscribeTimeout time.Duration
	ReasonTimeout     time.Duration
	SynthesizeTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if c.TranscribeTimeout <= 0 {
		c.TranscribeTimeout = 30 * time.Second
	}
	if c.ReasonTimeout <= 0 {
		c.ReasonTimeout = 60 * time.Second
	}
	if c.SynthesizeTimeout <= 0 {
		c.SynthesizeTimeout = 30 * time.Second
	}
}

// Request is one inbound voice request.
type Request struct {
	Audio          []byte
	MIMEType       string
	History        []types.Turn
	ScreenshotMode string
}

// Session is the ephemeral record of one processed voice request.
// Discarded after the result is returned to the caller.
type Session struct {
	ID           string
	StartedAt    time.Time
	EndedAt      time.Time
	Transcript   string
	WindowStart  time.Time
	WindowEnd    time.Time
	Frames       []frames.Frame
	ResponseText string
	Audio        []byte
}

// Orchestrator serializes voice requests through the capture, speech and
// reasoning collaborators. At most one request is in flight at a time;
// concurrent calls are rejected with ErrBusy.
type Orchestrator struct {
	capture     Capture
	ring        *frames.Ring
	transcriber stt.Transcriber
	reasoner    llm.Reasoner
	synthesizer speech.Synthesizer
	cfg         Config

	inFlight atomic.Bool
}

// NewOrchestrator assembles an orchestrator from its collaborators.
func NewOrchestrator(capture Capture, ring *frames.Ring, transcriber stt.Transcriber, reasoner llm.Reasoner, synthesizer speech.Synthesizer, cfg Config) *Orchestrator {
	cfg.applyDefaults()
	return &Orchestrator{
		capture:     capture,
		ring:        ring,
		transcriber: transcriber,
		reasoner:    reasoner,
		synthesizer: synthesizer,
		cfg:         cfg,
	}
}

// Process runs one voice request to completion or failure. Capture is
// scoped to the request and stopped on every exit path. There is no
// mid-flight abort beyond the per-stage call deadlines.
func (o *Orchestrator) Process(ctx context.Context, req Request) (*Session, error) {
	if len(req.Audio) == 0 {
		return nil, ErrInvalidInput
	}
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer o.inFlight.Store(false)

	sess := &Session{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
	}
	slog.Info("voice request started", "session", sess.ID, "audioBytes", len(req.Audio), "mime", req.MIMEType)

	o.capture.Start()
	captureStopped := false
	stopCapture := func() {
		if !captureStopped {
			captureStopped = true
			o.capture.Stop()
		}
	}
	defer stopCapture()

	transcript, err := o.transcribe(ctx, req.Audio, req.MIMEType)
	if err != nil {
		return nil, err
	}
	sess.Transcript = transcript
	sess.EndedAt = time.Now()

	if req.ScreenshotMode == ScreenshotModePrimary {
		sess.WindowStart = sess.StartedAt.Add(-leadIn)
		sess.WindowEnd = sess.EndedAt
		sess.Frames = frames.Select(o.ring.Snapshot(), sess.WindowStart, sess.WindowEnd)
		slog.Debug("frames selected", "session", sess.ID, "count", len(sess.Frames))
	}

	responseText, err := o.reason(ctx, llm.Request{
		System: o.cfg.SystemPrompt,
		Blocks: buildBlocks(transcript, req.History, sess.Frames),
	})
	if err != nil {
		return nil, err
	}
	sess.ResponseText = responseText

	// Capture is scoped to exactly one request.
	stopCapture()

	if responseText == "" {
		slog.Info("empty answer, skipping synthesis", "session", sess.ID)
		return sess, nil
	}

	audio, err := o.synthesize(ctx, responseText)
	if err != nil {
		return nil, err
	}
	sess.Audio = audio

	slog.Info("voice request completed", "session", sess.ID,
		"transcriptLen", len(transcript), "responseLen", len(responseText), "audioBytes", len(audio))
	return sess, nil
}

func (o *Orchestrator) transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.TranscribeTimeout)
	defer cancel()

	text, err := o.transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		return "", upstream(StageTranscription, err)
	}
	return strings.TrimSpace(text), nil
}

func (o *Orchestrator) reason(ctx context.Context, req llm.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.ReasonTimeout)
	defer cancel()

	text, err := o.reasoner.Reason(ctx, req)
	if err != nil {
		return "", upstream(StageReasoning, err)
	}
	return strings.TrimSpace(text), nil
}

func (o *Orchestrator) synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.SynthesizeTimeout)
	defer cancel()

	audio, err := o.synthesizer.Synthesize(ctx, text)
	if err != nil {
		return nil, upstream(StageSynthesis, err)
	}
	return audio, nil
}

// buildBlocks assembles the multimodal payload: the transcript, a
// summary of the conversation so far and one image per selected frame
// in chronological order.
func buildBlocks(transcript string, history []types.Turn, selected []frames.Frame) []llm.Block {
	blocks := make([]llm.Block, 0, len(selected)+2)

	if transcript != "" {
		blocks = append(blocks, llm.TextBlock("The user said: "+transcript))
	} else {
		blocks = append(blocks, llm.TextBlock("The user spoke but no speech was recognized."))
	}

	if len(history) > 0 {
		blocks = append(blocks, llm.TextBlock(summarizeHistory(history)))
	}

	for _, f := range selected {
		blocks = append(blocks, llm.ImageBlock("image/png", f.Data))
	}
	return blocks
}

// summarizeHistory formats prior turns with [USER]/[ASSISTANT] labels.
func summarizeHistory(history []types.Turn) string {
	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for _, t := range history {
		b.WriteString("[")
		b.WriteString(strings.ToUpper(t.Role))
		b.WriteString("] ")
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ozgurozkan123/ai4.coach/frames"
	"github.com/ozgurozkan123/ai4.coach/internal/types"
	"github.com/ozgurozkan123/ai4.coach/llm"
)

type fakeCapture struct {
	starts atomic.Int32
	stops  atomic.Int32
}

func (c *fakeCapture) Start() { c.starts.Add(1) }
func (c *fakeCapture) Stop()  { c.stops.Add(1) }

type fakeTranscriber struct {
	text string
	err  error

	// When set, Transcribe blocks until released or the context ends.
	entered     chan struct{}
	enteredOnce sync.Once
	release     chan struct{}

	waitForCtx bool

	gotAudio []byte
	gotMIME  string
}

func (t *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	t.gotAudio = audio
	t.gotMIME = mimeType
	if t.entered != nil {
		t.enteredOnce.Do(func() { close(t.entered) })
		select {
		case <-t.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if t.waitForCtx {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return t.text, t.err
}

type fakeReasoner struct {
	text string
	err  error
	got  llm.Request
}

func (r *fakeReasoner) Reason(_ context.Context, req llm.Request) (string, error) {
	r.got = req
	return r.text, r.err
}

type fakeSynthesizer struct {
	audio []byte
	err   error
	calls int
	got   string
}

func (s *fakeSynthesizer) Synthesize(_ context.Context, text string) ([]byte, error) {
	s.calls++
	s.got = text
	return s.audio, s.err
}

func newTestRing(t *testing.T, stamps ...time.Time) *frames.Ring {
	t.Helper()
	ring := frames.NewRing(frames.DefaultCapacity)
	for _, ts := range stamps {
		ring.Append(frames.Frame{CapturedAt: ts, Data: []byte("png")})
	}
	return ring
}

func TestProcessHappyPath(t *testing.T) {
	capture := &fakeCapture{}
	now := time.Now()
	ring := newTestRing(t, now.Add(-2*time.Second), now.Add(-time.Second))
	transcriber := &fakeTranscriber{text: "what is on my screen"}
	reasoner := &fakeReasoner{text: "a spreadsheet"}
	synth := &fakeSynthesizer{audio: []byte("mp3")}

	o := NewOrchestrator(capture, ring, transcriber, reasoner, synth, Config{})
	sess, err := o.Process(context.Background(), Request{
		Audio:          []byte("voice"),
		MIMEType:       "audio/webm",
		ScreenshotMode: ScreenshotModePrimary,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if sess.ID == "" {
		t.Error("session ID is empty")
	}
	if sess.Transcript != "what is on my screen" {
		t.Errorf("Transcript = %q", sess.Transcript)
	}
	if sess.ResponseText != "a spreadsheet" {
		t.Errorf("ResponseText = %q", sess.ResponseText)
	}
	if string(sess.Audio) != "mp3" {
		t.Errorf("Audio = %q", sess.Audio)
	}
	if len(sess.Frames) != 2 {
		t.Errorf("got %d frames, want 2", len(sess.Frames))
	}
	if sess.EndedAt.Before(sess.StartedAt) {
		t.Error("EndedAt precedes StartedAt")
	}
	if got := sess.StartedAt.Sub(sess.WindowStart); got != 5*time.Second {
		t.Errorf("window lead-in = %v, want 5s", got)
	}
	if capture.starts.Load() != 1 || capture.stops.Load() != 1 {
		t.Errorf("capture starts=%d stops=%d, want 1/1", capture.starts.Load(), capture.stops.Load())
	}
	if transcriber.gotMIME != "audio/webm" {
		t.Errorf("transcriber mime = %q", transcriber.gotMIME)
	}
	if synth.got != "a spreadsheet" {
		t.Errorf("synthesizer got %q", synth.got)
	}
}

func TestProcessRejectsEmptyAudio(t *testing.T) {
	capture := &fakeCapture{}
	o := NewOrchestrator(capture, newTestRing(t), &fakeTranscriber{}, &fakeReasoner{}, &fakeSynthesizer{}, Config{})

	_, err := o.Process(context.Background(), Request{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Process() error = %v, want ErrInvalidInput", err)
	}
	if capture.starts.Load() != 0 {
		t.Error("capture started for invalid input")
	}
}

func TestProcessRejectsConcurrentRequest(t *testing.T) {
	capture := &fakeCapture{}
	transcriber := &fakeTranscriber{
		text:    "hello",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	o := NewOrchestrator(capture, newTestRing(t), transcriber, &fakeReasoner{text: "hi"}, &fakeSynthesizer{audio: []byte("a")}, Config{})

	done := make(chan error, 1)
	go func() {
		_, err := o.Process(context.Background(), Request{Audio: []byte("voice")})
		done <- err
	}()

	<-transcriber.entered
	_, err := o.Process(context.Background(), Request{Audio: []byte("voice")})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("concurrent Process() error = %v, want ErrBusy", err)
	}

	close(transcriber.release)
	if err := <-done; err != nil {
		t.Fatalf("first Process() error = %v", err)
	}

	// Slot is released; a follow-up request must be accepted.
	if _, err := o.Process(context.Background(), Request{Audio: []byte("voice")}); err != nil {
		t.Fatalf("follow-up Process() error = %v", err)
	}
}

func TestProcessTranscriptionFailureStopsCapture(t *testing.T) {
	capture := &fakeCapture{}
	boom := errors.New("whisper down")
	o := NewOrchestrator(capture, newTestRing(t), &fakeTranscriber{err: boom}, &fakeReasoner{}, &fakeSynthesizer{}, Config{})

	_, err := o.Process(context.Background(), Request{Audio: []byte("voice")})

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("Process() error = %v, want UpstreamError", err)
	}
	if ue.Stage != StageTranscription {
		t.Errorf("Stage = %q, want %q", ue.Stage, StageTranscription)
	}
	if !errors.Is(err, boom) {
		t.Error("underlying error not preserved")
	}
	if capture.stops.Load() != 1 {
		t.Errorf("capture stops = %d, want 1", capture.stops.Load())
	}
}

func TestProcessReasoningFailureStopsCapture(t *testing.T) {
	capture := &fakeCapture{}
	synth := &fakeSynthesizer{}
	o := NewOrchestrator(capture, newTestRing(t), &fakeTranscriber{text: "hi"}, &fakeReasoner{err: errors.New("model overloaded")}, synth, Config{})

	_, err := o.Process(context.Background(), Request{Audio: []byte("voice")})

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("Process() error = %v, want UpstreamError", err)
	}
	if ue.Stage != StageReasoning {
		t.Errorf("Stage = %q, want %q", ue.Stage, StageReasoning)
	}
	if synth.calls != 0 {
		t.Error("synthesizer called after reasoning failure")
	}
	if capture.stops.Load() != 1 {
		t.Errorf("capture stops = %d, want 1", capture.stops.Load())
	}
}

func TestProcessSynthesisFailure(t *testing.T) {
	capture := &fakeCapture{}
	o := NewOrchestrator(capture, newTestRing(t), &fakeTranscriber{text: "hi"}, &fakeReasoner{text: "hello"}, &fakeSynthesizer{err: errors.New("voice quota")}, Config{})

	_, err := o.Process(context.Background(), Request{Audio: []byte("voice")})

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("Process() error = %v, want UpstreamError", err)
	}
	if ue.Stage != StageSynthesis {
		t.Errorf("Stage = %q, want %q", ue.Stage, StageSynthesis)
	}
	if capture.stops.Load() != 1 {
		t.Errorf("capture stops = %d, want 1", capture.stops.Load())
	}
}

func TestProcessTranscriptionTimeout(t *testing.T) {
	capture := &fakeCapture{}
	o := NewOrchestrator(capture, newTestRing(t), &fakeTranscriber{waitForCtx: true}, &fakeReasoner{}, &fakeSynthesizer{},
		Config{TranscribeTimeout: 10 * time.Millisecond})

	_, err := o.Process(context.Background(), Request{Audio: []byte("voice")})

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("Process() error = %v, want UpstreamError", err)
	}
	if !ue.Timeout {
		t.Error("Timeout flag not set for expired deadline")
	}
	if capture.stops.Load() != 1 {
		t.Errorf("capture stops = %d, want 1", capture.stops.Load())
	}
}

func TestProcessEmptyAnswerSkipsSynthesis(t *testing.T) {
	synth := &fakeSynthesizer{}
	o := NewOrchestrator(&fakeCapture{}, newTestRing(t), &fakeTranscriber{text: "hi"}, &fakeReasoner{text: "   "}, synth, Config{})

	sess, err := o.Process(context.Background(), Request{Audio: []byte("voice")})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if synth.calls != 0 {
		t.Error("synthesizer called for empty answer")
	}
	if sess.Audio != nil {
		t.Errorf("Audio = %q, want nil", sess.Audio)
	}
}

func TestProcessSkipsFramesOutsidePrimaryMode(t *testing.T) {
	now := time.Now()
	ring := newTestRing(t, now.Add(-time.Second))
	reasoner := &fakeReasoner{text: "ok"}
	o := NewOrchestrator(&fakeCapture{}, ring, &fakeTranscriber{text: "hi"}, reasoner, &fakeSynthesizer{audio: []byte("a")}, Config{})

	sess, err := o.Process(context.Background(), Request{Audio: []byte("voice"), ScreenshotMode: "none"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(sess.Frames) != 0 {
		t.Errorf("got %d frames, want 0", len(sess.Frames))
	}
	for _, b := range reasoner.got.Blocks {
		if b.Type == llm.BlockImage {
			t.Fatal("image block attached outside primary mode")
		}
	}
}

func TestBuildBlocks(t *testing.T) {
	history := []types.Turn{
		{Role: "user", Text: "open the report"},
		{Role: "assistant", Text: "done"},
	}
	selected := []frames.Frame{{Data: []byte("png1")}, {Data: []byte("png2")}}

	blocks := buildBlocks("what changed", history, selected)
	if len(blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(blocks))
	}
	if blocks[0].Type != llm.BlockText || !strings.Contains(blocks[0].Text, "what changed") {
		t.Errorf("first block = %+v, want transcript text", blocks[0])
	}
	if !strings.Contains(blocks[1].Text, "[USER] open the report") || !strings.Contains(blocks[1].Text, "[ASSISTANT] done") {
		t.Errorf("history block = %q", blocks[1].Text)
	}
	for i, b := range blocks[2:] {
		if b.Type != llm.BlockImage {
			t.Errorf("block %d type = %v, want image", i+2, b.Type)
		}
	}
}

func TestBuildBlocksEmptyTranscript(t *testing.T) {
	blocks := buildBlocks("", nil, nil)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Type != llm.BlockText || blocks[0].Text == "" {
		t.Errorf("fallback block = %+v", blocks[0])
	}
}

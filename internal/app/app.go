// Package app provides the core application service for Wails bindings.
package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wailsapp/wails/v3/pkg/application"

	"github.com/ozgurozkan123/ai4.coach/assistant"
	"github.com/ozgurozkan123/ai4.coach/cache"
	"github.com/ozgurozkan123/ai4.coach/clipboard"
	"github.com/ozgurozkan123/ai4.coach/config"
	"github.com/ozgurozkan123/ai4.coach/frames"
	"github.com/ozgurozkan123/ai4.coach/hotkey"
	"github.com/ozgurozkan123/ai4.coach/interaction"
	"github.com/ozgurozkan123/ai4.coach/internal/types"
	"github.com/ozgurozkan123/ai4.coach/langdetect"
	"github.com/ozgurozkan123/ai4.coach/llm"
	"github.com/ozgurozkan123/ai4.coach/screenshot"
	"github.com/ozgurozkan123/ai4.coach/speech"
	"github.com/ozgurozkan123/ai4.coach/stt"
)

// Service provides application functionality bound to Wails.
// This struct focuses on wiring; business logic lives in sub-components.
type Service struct {
	cfg    *config.Config
	cache  *cache.Cache
	hotkey *hotkey.Manager

	// UI references, set via Init
	app    *application.App
	window application.Window

	controller   *interaction.Controller
	emitter      *Emitter
	scheduler    *frames.Scheduler
	orchestrator *assistant.Orchestrator

	// Startup validation error, reported on every request until fixed.
	configErr error

	mu           sync.Mutex
	lastResponse string

	version string
}

// New creates a new Service. Call Init() after the Wails app is created.
func New(version string) *Service {
	return &Service{version: version}
}

// GetVersion returns the application version.
func (s *Service) GetVersion() string {
	return s.version
}

// Init wires the service together. Must be called after the Wails
// application and window are created.
func (s *Service) Init(app *application.App, window application.Window) {
	s.app = app
	s.window = window

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		cfg = &config.Config{}
	}
	s.cfg = cfg

	if err := cfg.Validate(); err != nil {
		slog.Error("configuration invalid, requests will be rejected", "error", err)
		s.configErr = fmt.Errorf("configuration: %w", err)
	}

	s.emitter = NewEmitter(app)
	s.controller = interaction.NewController(s.emitter)

	s.setupCache()
	s.setupPipeline()
	s.setupHotkeys()
}

// Shutdown cleans up resources.
func (s *Service) Shutdown() {
	if s.hotkey != nil {
		s.hotkey.Stop()
	}
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Error("close cache", "error", err)
		}
	}
}

func (s *Service) setupCache() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		slog.Error("get config dir for cache", "error", err)
		return
	}

	cachePath := filepath.Join(configDir, "ai4coach", "cache")
	c, err := cache.New(cachePath)
	if err != nil {
		slog.Error("init cache", "error", err)
		return
	}
	s.cache = c
	slog.Info("cache initialized", "path", cachePath)
}

func (s *Service) setupPipeline() {
	maxWidth := s.cfg.Capture.MaxWidth
	if maxWidth <= 0 {
		maxWidth = screenshot.DefaultMaxWidth
	}
	interval := time.Duration(s.cfg.Capture.IntervalMS) * time.Millisecond

	ring := frames.NewRing(frames.DefaultCapacity)
	s.scheduler = frames.NewScheduler(screenshot.New(maxWidth), ring, interval)

	transcriber := stt.NewWhisper(stt.WhisperConfig{
		APIKey:  s.cfg.Reasoning.APIKey,
		BaseURL: s.cfg.Reasoning.BaseURL,
		Model:   s.cfg.Reasoning.TranscribeModel,
	})

	reasoner := llm.NewReasoner(s.cfg.Reasoning.Provider, llm.Config{
		APIKey:  s.cfg.Reasoning.APIKey,
		BaseURL: s.cfg.Reasoning.BaseURL,
		Model:   s.cfg.Reasoning.Model,
	})

	var synthesizer speech.Synthesizer = speech.NewElevenLabs(speech.ElevenLabsConfig{
		APIKey:  s.cfg.Synthesis.APIKey,
		VoiceID: s.cfg.Synthesis.VoiceID,
		ModelID: s.cfg.Synthesis.ModelID,
	})
	if s.cache != nil {
		synthesizer = speech.NewCached(synthesizer, s.cache, s.cfg.Synthesis.VoiceID, s.cfg.Synthesis.ModelID)
	}

	s.orchestrator = assistant.NewOrchestrator(s.scheduler, ring, transcriber, reasoner, synthesizer, assistant.Config{
		SystemPrompt: s.cfg.SystemPrompt,
	})
}

func (s *Service) setupHotkeys() {
	s.hotkey = hotkey.NewManager()
	s.hotkey.Bind(func() { s.ToggleVisibility() }, "ctrl", "shift", "space")
	s.hotkey.Bind(func() { s.ToggleForceTransparent() }, "ctrl", "shift", "t")

	if err := s.hotkey.Start(); err != nil {
		slog.Error("start hotkeys", "error", err)
	}
}

// Ready is called by the frontend once it has loaded. It releases
// interaction broadcasts and pushes the current presentation.
func (s *Service) Ready() {
	s.controller.MarkLoaded()
	s.emitter.PresentationChanged(s.controller.Presentation())
	slog.Info("frontend ready")
}

// GetState returns the current interaction state.
func (s *Service) GetState() interaction.State {
	return s.controller.State()
}

// ToggleVisibility shows or hides the overlay.
func (s *Service) ToggleVisibility() interaction.State {
	return s.apply(interaction.ToggleVisibility)
}

// TogglePushToTalk starts or ends an utterance.
func (s *Service) TogglePushToTalk() interaction.State {
	return s.apply(interaction.TogglePushToTalk)
}

// ToggleContinuous switches between press and continuous listening.
func (s *Service) ToggleContinuous() interaction.State {
	return s.apply(interaction.ToggleContinuous)
}

// ToggleForceTransparent toggles click-through mode.
func (s *Service) ToggleForceTransparent() interaction.State {
	return s.apply(interaction.ToggleForceTransparent)
}

func (s *Service) apply(ev interaction.Event) interaction.State {
	state := s.controller.Apply(ev)
	s.emitter.PresentationChanged(interaction.Derive(state))
	return state
}

// CopyLastResponse places the most recent answer text on the system
// clipboard.
func (s *Service) CopyLastResponse() error {
	s.mu.Lock()
	text := s.lastResponse
	s.mu.Unlock()

	if text == "" {
		return fmt.Errorf("no response to copy")
	}
	if err := clipboard.SetText(text); err != nil {
		return fmt.Errorf("copy response: %w", err)
	}
	s.emitter.Status("answer copied")
	return nil
}

// ProcessVoiceRequest runs one recorded utterance through the pipeline
// and returns the spoken answer. Audio arrives base64-encoded from the
// frontend recorder.
func (s *Service) ProcessVoiceRequest(audioB64, mimeType string, history []types.Turn, screenshotMode string) (*types.SessionResult, error) {
	if s.configErr != nil {
		return nil, s.configErr
	}

	audio, err := base64.StdEncoding.DecodeString(audioB64)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}

	sess, err := s.orchestrator.Process(context.Background(), assistant.Request{
		Audio:          audio,
		MIMEType:       mimeType,
		History:        history,
		ScreenshotMode: screenshotMode,
	})
	if err != nil {
		slog.Error("voice request failed", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.lastResponse = sess.ResponseText
	s.mu.Unlock()

	langCode, langName := langdetect.Detect(sess.Transcript)
	slog.Debug("language detected", "code", langCode, "name", langName)

	var windowStart, windowEnd int64
	if !sess.WindowStart.IsZero() {
		windowStart = sess.WindowStart.UnixMilli()
		windowEnd = sess.WindowEnd.UnixMilli()
	}

	return &types.SessionResult{
		ID:           sess.ID,
		StartedAt:    sess.StartedAt.UnixMilli(),
		EndedAt:      sess.EndedAt.UnixMilli(),
		Transcript:   sess.Transcript,
		Language:     langCode,
		ResponseText: sess.ResponseText,
		Audio:        sess.Audio,
		FrameCount:   len(sess.Frames),
		WindowStart:  windowStart,
		WindowEnd:    windowEnd,
	}, nil
}

package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultElevenLabsHost  = "https://api.elevenlabs.io"
	defaultElevenLabsModel = "eleven_flash_v2_5"
)

// ElevenLabs synthesizes speech via the ElevenLabs text-to-speech API.
type ElevenLabs struct {
	apiKey  string
	voiceID string
	modelID string
	baseURL string
	http    *http.Client
}

// ElevenLabsConfig holds configuration for the ElevenLabs client.
type ElevenLabsConfig struct {
	APIKey  string
	VoiceID string
	ModelID string // Optional, defaults to eleven_flash_v2_5
	BaseURL string // Optional, defaults to the public API host
}

// NewElevenLabs creates an ElevenLabs synthesizer.
func NewElevenLabs(cfg ElevenLabsConfig) *ElevenLabs {
	modelID := cfg.ModelID
	if modelID == "" {
		modelID = defaultElevenLabsModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultElevenLabsHost
	}
	return &ElevenLabs{
		apiKey:  cfg.APIKey,
		voiceID: cfg.VoiceID,
		modelID: modelID,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

type elevenLabsRequest struct {
	ModelID       string        `json:"model_id"`
	Text          string        `json:"text"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize returns MP3 audio for the given text.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if e.apiKey == "" || e.voiceID == "" {
		return nil, fmt.Errorf("api key or voice id missing")
	}

	endpoint, err := url.JoinPath(e.baseURL, "v1", "text-to-speech", e.voiceID)
	if err != nil {
		return nil, fmt.Errorf("build endpoint: %w", err)
	}

	body := elevenLabsRequest{
		ModelID: e.modelID,
		Text:    text,
		VoiceSettings: voiceSettings{
			Stability:       0.4,
			SimilarityBoost: 0.7,
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("api status %d: %s", resp.StatusCode, audio)
	}
	return audio, nil
}

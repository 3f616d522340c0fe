package config

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func setTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	switch runtime.GOOS {
	case "darwin":
		t.Setenv("HOME", dir)
		return filepath.Join(dir, "Library", "Application Support", appName, configFileName)
	case "windows":
		t.Setenv("AppData", dir)
		return filepath.Join(dir, appName, configFileName)
	default:
		t.Setenv("XDG_CONFIG_HOME", dir)
		return filepath.Join(dir, appName, configFileName)
	}
}

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	setTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Reasoning.Provider != "openai" {
		t.Errorf("default provider = %q, want openai", cfg.Reasoning.Provider)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	setTempConfigDir(t)

	want := &Config{
		Reasoning: ReasoningConfig{
			Provider: "claude",
			APIKey:   "rk",
			Model:    "claude-sonnet-4",
		},
		Synthesis: SynthesisConfig{
			APIKey:  "sk",
			VoiceID: "voice-1",
		},
		Capture:      CaptureConfig{IntervalMS: 500, MaxWidth: 1024},
		SystemPrompt: "be brief",
	}
	if err := want.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Reasoning != want.Reasoning {
		t.Errorf("Reasoning = %+v, want %+v", got.Reasoning, want.Reasoning)
	}
	if got.Synthesis != want.Synthesis {
		t.Errorf("Synthesis = %+v, want %+v", got.Synthesis, want.Synthesis)
	}
	if got.Capture != want.Capture {
		t.Errorf("Capture = %+v, want %+v", got.Capture, want.Capture)
	}
	if got.SystemPrompt != want.SystemPrompt {
		t.Errorf("SystemPrompt = %q, want %q", got.SystemPrompt, want.SystemPrompt)
	}
}

func TestValidateReportsAllMissingCredentials(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"reasoning api_key", "synthesis api_key", "synthesis voice_id"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q missing %q", err, want)
		}
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	cfg := &Config{
		Reasoning: ReasoningConfig{APIKey: "rk"},
		Synthesis: SynthesisConfig{APIKey: "sk", VoiceID: "v"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

// Package config handles application configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName        = "ai4coach"
	configFileName = "config.json"
)

// ReasoningConfig selects and authenticates the reasoning provider.
type ReasoningConfig struct {
	Provider        string `json:"provider"` // "openai", "claude" or "gemini"
	APIKey          string `json:"api_key"`
	BaseURL         string `json:"base_url,omitempty"`
	Model           string `json:"model,omitempty"`
	TranscribeModel string `json:"transcribe_model,omitempty"`
}

// SynthesisConfig authenticates the speech synthesis provider.
type SynthesisConfig struct {
	APIKey  string `json:"api_key"`
	VoiceID string `json:"voice_id"`
	ModelID string `json:"model_id,omitempty"`
}

// CaptureConfig tunes the background screenshot loop.
type CaptureConfig struct {
	IntervalMS int `json:"interval_ms,omitempty"`
	MaxWidth   int `json:"max_width,omitempty"`
}

// Config represents the application configuration.
type Config struct {
	Reasoning    ReasoningConfig `json:"reasoning"`
	Synthesis    SynthesisConfig `json:"synthesis"`
	Capture      CaptureConfig   `json:"capture,omitempty"`
	SystemPrompt string          `json:"system_prompt,omitempty"`
}

// Load loads configuration from the config file.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Save persists the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Validate reports every missing required credential at once. A config
// that fails validation is unusable and the app refuses to serve requests.
func (c *Config) Validate() error {
	var errs []error
	if c.Reasoning.APIKey == "" {
		errs = append(errs, errors.New("reasoning api_key is required"))
	}
	if c.Synthesis.APIKey == "" {
		errs = append(errs, errors.New("synthesis api_key is required"))
	}
	if c.Synthesis.VoiceID == "" {
		errs = append(errs, errors.New("synthesis voice_id is required"))
	}
	return errors.Join(errs...)
}

func defaultConfig() *Config {
	return &Config{
		Reasoning: ReasoningConfig{Provider: "openai"},
	}
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

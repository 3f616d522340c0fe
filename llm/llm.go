// Package llm provides multimodal reasoning clients for LLM APIs.
package llm

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// BlockType identifies the kind of a content block.
type BlockType string

const (
	BlockText  BlockType = "text"
	BlockImage BlockType = "image"
)

// Block is one content block of a multimodal request: either text or an
// encoded image.
type Block struct {
	Type     BlockType
	Text     string
	MIMEType string
	Data     []byte
}

// TextBlock creates a text content block.
func TextBlock(text string) Block {
	return Block{Type: BlockText, Text: text}
}

// ImageBlock creates an image content block from encoded image bytes.
func ImageBlock(mimeType string, data []byte) Block {
	return Block{Type: BlockImage, MIMEType: mimeType, Data: data}
}

// Request is a single multimodal reasoning request.
type Request struct {
	System string
	Blocks []Block
}

// Reasoner answers a multimodal request with plain text.
type Reasoner interface {
	Reason(ctx context.Context, req Request) (string, error)
}

// Config holds all parameters needed by reasoners.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// reasonerConfig is Config plus the shared HTTP client.
type reasonerConfig struct {
	http        *http.Client
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
}

// NewReasoner creates a Reasoner for the given provider type.
func NewReasoner(providerType string, cfg Config) Reasoner {
	rc := reasonerConfig{
		http:        &http.Client{Timeout: 120 * time.Second},
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}

	switch providerType {
	case "gemini":
		return &geminiReasoner{cfg: rc}
	case "claude":
		return &claudeReasoner{cfg: rc}
	default:
		// Default to OpenAI format
		return newOpenAIReasoner(cfg)
	}
}

// joinText concatenates text segments in document order, newline-joined
// and trimmed. Empty segments are dropped.
func joinText(segments []string) string {
	var kept []string
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

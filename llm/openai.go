package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openaiReasoner implements Reasoner on top of the official OpenAI SDK
// for OpenAI and OpenAI-compatible endpoints.
type openaiReasoner struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
}

func newOpenAIReasoner(cfg Config) *openaiReasoner {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openaiReasoner{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (r *openaiReasoner) Reason(ctx context.Context, request Request) (string, error) {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(request.Blocks))
	for _, b := range request.Blocks {
		switch b.Type {
		case BlockText:
			parts = append(parts, openai.TextContentPart(b.Text))
		case BlockImage:
			url := "data:" + b.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(b.Data)
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: url}))
		}
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if request.System != "" {
		messages = append(messages, openai.SystemMessage(request.System))
	}
	messages = append(messages, openai.UserMessage(parts))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(r.model),
		Messages: messages,
	}
	if r.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(r.maxTokens))
	}
	if r.temperature > 0 {
		params.Temperature = openai.Float(r.temperature)
	}

	resp, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

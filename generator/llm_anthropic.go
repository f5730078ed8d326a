package generator

import (
	"context"
	"errors"

	"github.com/liushuangls/go-anthropic/v2"
)

// AnthropicLLM implements LLMClient on the Messages API.
type AnthropicLLM struct {
	Model  string
	client *anthropic.Client
}

func NewAnthropicLLMFromConfig(cfg *LLMSettings) (*AnthropicLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic api key missing; provide llm.api_key")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicLLM{Model: cfg.Model, client: anthropic.NewClient(cfg.APIKey, opts...)}, nil
}

func (a *AnthropicLLM) Complete(ctx context.Context, req GenerationRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(a.Model),
		Messages:  []anthropic.Message{anthropic.NewUserTextMessage(req.Instruction)},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", errors.New("anthropic: empty content")
	}
	return resp.GetFirstContentText(), nil
}

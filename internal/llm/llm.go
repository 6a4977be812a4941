// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps an OpenAI-compatible chat completion API behind a small
// backend interface so the translator and evaluator stages can share one
// client and tests can supply mocks.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/pdiddy/repo-scout/pkg/types"
)

// Backend issues a single-turn {system, user} completion and returns the raw
// response text. Implementations must honor ctx cancellation; callers enforce
// their own timeouts independent of any HTTP client default.
type Backend interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAI is the production Backend over an OpenAI-compatible endpoint.
type OpenAI struct {
	client llms.Model
	model  string
	logger *slog.Logger
}

// NewOpenAI builds a backend from the shared LLM configuration. An empty API
// key is replaced with "none" for local OpenAI-compatible services that do
// not require authentication.
func NewOpenAI(cfg types.LLMConfig) (*OpenAI, error) {
	if cfg.Model == "" {
		return nil, &types.ValidationError{Field: "llm.model", Reason: "model identifier is required"}
	}

	token := cfg.APIKey
	if token == "" {
		token = "none"
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating completion client: %w", err)
	}

	return &OpenAI{
		client: client,
		model:  cfg.Model,
		logger: slog.Default().With("component", "llm"),
	}, nil
}

// Complete sends one {system, user} exchange in JSON mode at temperature
// zero and returns the first choice's text.
func (o *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(user)},
		},
	}

	resp, err := o.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		return "", fmt.Errorf("completion call (%s): %w", o.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion call (%s): empty response", o.model)
	}

	o.logger.Debug("completion returned", "model", o.model, "chars", len(resp.Choices[0].Content))
	return resp.Choices[0].Content, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Base URLs for the OpenAI-compatible provider families. OpenAI itself uses
// the go-openai default.
var familyBaseURLs = map[types.BackendFamily]string{
	types.FamilyGroq:       "https://api.groq.com/openai/v1",
	types.FamilyOpenRouter: "https://openrouter.ai/api/v1",
}

// defaultModels maps each family to the model used when no override is
// configured.
var defaultModels = map[types.BackendFamily]string{
	types.FamilyOpenAI:     "gpt-4o-mini",
	types.FamilyGroq:       "llama-3.3-70b-versatile",
	types.FamilyOpenRouter: "meta-llama/llama-3.3-70b-instruct",
}

// fallbackOrder is the fixed fallback tail appended after the primary. The
// primary's family is removed from the tail so no candidate is tried twice.
var fallbackOrder = []types.BackendFamily{
	types.FamilyOpenAI,
	types.FamilyGroq,
	types.FamilyOpenRouter,
}

// OpenAIBackend calls one OpenAI-compatible chat-completions endpoint. Groq
// and OpenRouter expose the same wire protocol, so a single implementation
// covers all three families with a per-family base URL.
type OpenAIBackend struct {
	family types.BackendFamily
	model  string
	client *openai.Client
}

// NewOpenAIBackend builds a backend for the given family and model. An empty
// model selects the family default. An empty API key is a configuration
// error (ErrMissingCredential), surfaced here rather than on first call.
func NewOpenAIBackend(family types.BackendFamily, model, apiKey string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w for backend family %q", ErrMissingCredential, family)
	}
	if model == "" {
		model = defaultModels[family]
	}
	if model == "" {
		return nil, fmt.Errorf("no model configured for backend family %q", family)
	}

	cfg := openai.DefaultConfig(apiKey)
	if base, ok := familyBaseURLs[family]; ok {
		cfg.BaseURL = base
	}

	return &OpenAIBackend{
		family: family,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}, nil
}

// Name returns the "family/model" label.
func (b *OpenAIBackend) Name() string {
	return fmt.Sprintf("%s/%s", b.family, b.model)
}

// Family returns the provider family.
func (b *OpenAIBackend) Family() types.BackendFamily { return b.family }

// Generate issues one chat completion call.
func (b *OpenAIBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    messages,
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := b.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", b.Name(), err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", b.Name())
	}
	return resp.Choices[0].Message.Content, nil
}

// NewFromConfig assembles the candidate chain from configuration: the
// selected family first (with its model override), then the fixed fallback
// tail minus the primary's family. Fallback families without a credential are
// skipped; a missing credential for the primary is a configuration error.
func NewFromConfig(cfg types.GatewayConfig, logger *slog.Logger) ([]Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	family := cfg.Family
	if family == "" {
		family = types.FamilyOpenAI
	}

	primary, err := NewOpenAIBackend(family, cfg.Model, cfg.APIKeys[family])
	if err != nil {
		return nil, err
	}
	chain := []Backend{primary}

	for _, f := range fallbackOrder {
		if f == family {
			continue
		}
		key := cfg.APIKeys[f]
		if key == "" {
			logger.Warn("skipping fallback backend without credential", "family", string(f))
			continue
		}
		b, err := NewOpenAIBackend(f, "", key)
		if err != nil {
			return nil, err
		}
		chain = append(chain, b)
	}

	return chain, nil
}

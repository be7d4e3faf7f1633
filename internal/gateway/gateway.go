// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gateway invokes a text-generation capability against one of several
// interchangeable backends with ordered fallback on failure.
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

// GenerateRequest describes one logical generation call. The same request is
// replayed unchanged against each candidate backend.
type GenerateRequest struct {
	// SystemPrompt is the system-role instruction, may be empty.
	SystemPrompt string

	// Prompt is the user-role content.
	Prompt string

	// Temperature is the sampling temperature.
	Temperature float32

	// MaxTokens bounds the completion length; 0 uses the backend default.
	MaxTokens int

	// JSONMode requests a JSON-object response where the backend supports it.
	JSONMode bool
}

// Backend generates text for a single provider configuration. Implementations
// hold no per-call state and are safe for concurrent use.
type Backend interface {
	// Name returns a stable "family/model" label for logs and errors.
	Name() string

	// Family returns the provider family the backend belongs to.
	Family() types.BackendFamily

	// Generate issues one completion call.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Gateway walks an ordered candidate chain until one backend succeeds.
// Attempts are strictly sequential: each candidate is a fallback for the same
// logical call, never a parallel race. The gateway holds no mutable state, so
// one Gateway may serve unrelated requests concurrently.
type Gateway struct {
	backends []Backend
	logger   *slog.Logger
}

// New builds a Gateway over an ordered candidate chain.
func New(backends []Backend, logger *slog.Logger) (*Gateway, error) {
	if len(backends) == 0 {
		return nil, fmt.Errorf("gateway: no backends configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{backends: backends, logger: logger}, nil
}

// Candidates returns the names of the candidate chain in attempt order.
func (g *Gateway) Candidates() []string {
	names := make([]string, len(g.backends))
	for i, b := range g.backends {
		names[i] = b.Name()
	}
	return names
}

// Generate tries each candidate in order and returns the first successful
// completion. Every failure class advances the chain; the gateway prefers
// trying another backend over failing fast, so even unclassified errors fall
// through to the next candidate. When the chain is exhausted the last error
// surfaces wrapped in ErrExhausted, or as an AllRateLimitedError when every
// candidate failed on the rate-limited path.
func (g *Gateway) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return g.generate(ctx, req, g.backends)
}

// GenerateWith behaves like Generate but fronts the chain with the candidates
// of the hinted family, preserving relative order within both halves. An
// unknown hint leaves the chain unchanged.
func (g *Gateway) GenerateWith(ctx context.Context, req GenerateRequest, hint types.BackendFamily) (string, error) {
	if hint == "" {
		return g.generate(ctx, req, g.backends)
	}
	var fronted, rest []Backend
	for _, b := range g.backends {
		if b.Family() == hint {
			fronted = append(fronted, b)
		} else {
			rest = append(rest, b)
		}
	}
	return g.generate(ctx, req, append(fronted, rest...))
}

func (g *Gateway) generate(ctx context.Context, req GenerateRequest, chain []Backend) (string, error) {
	var lastErr error
	allRateLimited := true
	var attempted []string

	for _, b := range chain {
		attempted = append(attempted, b.Name())

		out, err := b.Generate(ctx, req)
		if err == nil {
			return out, nil
		}

		class := Classify(err)
		g.logger.Warn("backend call failed",
			"backend", b.Name(), "class", string(class), "error", err)

		lastErr = err
		if class != ClassRateLimited {
			allRateLimited = false
		}
	}

	if allRateLimited {
		return "", &AllRateLimitedError{Backends: attempted}
	}
	return "", fmt.Errorf("%w: tried %d backends: %w", ErrExhausted, len(attempted), lastErr)
}

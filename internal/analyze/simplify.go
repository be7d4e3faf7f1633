// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pdiddy/evidence-engine/internal/gateway"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Generator is the slice of the model gateway the pipeline stages need.
// *gateway.Gateway satisfies it; tests supply fakes.
type Generator interface {
	Generate(ctx context.Context, req gateway.GenerateRequest) (string, error)
}

// defaultSimilarityCeiling is the normalized similarity at or above which a
// returned paraphrase counts as an echo of the original.
const defaultSimilarityCeiling = 0.9

// Simplifier rewrites technical text in plain language through a single
// batched model call, verifying that each result is a genuine paraphrase.
// Simplification is strictly best-effort: no failure here ever propagates.
type Simplifier struct {
	gen     Generator
	ceiling float64
	logger  *slog.Logger
}

// NewSimplifier builds a Simplifier. A ceiling <= 0 selects the default.
func NewSimplifier(gen Generator, ceiling float64, logger *slog.Logger) *Simplifier {
	if ceiling <= 0 {
		ceiling = defaultSimilarityCeiling
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Simplifier{gen: gen, ceiling: ceiling, logger: logger}
}

// simplifyResponseItem is one element of the model's batch response.
type simplifyResponseItem struct {
	Simplified     string                `json:"simplified"`
	TechnicalTerms []types.TechnicalTerm `json:"technicalTerms"`
}

// Simplify processes the batch in one model call and returns exactly one
// SimplifiedText per input, in input order. Results map back to inputs purely
// by array position, so a response of the wrong length fails closed: every
// item falls back to its original text. Individual items also fall back when
// the returned text is an echo rather than a paraphrase.
func (s *Simplifier) Simplify(ctx context.Context, batch []SimplifyInput) []types.SimplifiedText {
	out := make([]types.SimplifiedText, len(batch))
	for i, item := range batch {
		out[i] = types.SimplifiedText{
			Original:       item.Text,
			Simplified:     item.Text,
			TechnicalTerms: []types.TechnicalTerm{},
		}
	}
	if len(batch) == 0 {
		return out
	}

	prompt, err := BuildSimplifyPrompt(batch)
	if err != nil {
		s.logger.Warn("simplification skipped", "error", err)
		return out
	}

	raw, err := s.gen.Generate(ctx, gateway.GenerateRequest{
		SystemPrompt: simplifySystemPrompt,
		Prompt:       prompt,
		Temperature:  0.3,
		JSONMode:     true,
	})
	if err != nil {
		s.logger.Warn("simplification call failed, keeping originals", "error", err)
		return out
	}

	var items []simplifyResponseItem
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &items); err != nil {
		s.logger.Warn("simplification response unparseable, keeping originals", "error", err)
		return out
	}
	if len(items) != len(batch) {
		s.logger.Warn("simplification response length mismatch, keeping originals",
			"want", len(batch), "got", len(items))
		return out
	}

	for i, item := range items {
		if !s.isParaphrase(batch[i].Text, item.Simplified) {
			s.logger.Debug("simplification rejected as echo", "index", i)
			continue
		}
		out[i].Simplified = item.Simplified
		if item.TechnicalTerms != nil {
			out[i].TechnicalTerms = item.TechnicalTerms
		}
	}
	return out
}

// isParaphrase accepts a simplified text only when it differs from the
// original after case/whitespace folding and its normalized edit-distance
// similarity stays below the ceiling.
func (s *Simplifier) isParaphrase(original, simplified string) bool {
	if simplified == "" {
		return false
	}
	origFolded := foldText(original)
	simpFolded := foldText(simplified)
	if origFolded == simpFolded {
		return false
	}
	return similarity(origFolded, simpFolded) < s.ceiling
}

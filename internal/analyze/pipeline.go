// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze implements the evidence-grounded extraction pipeline: it
// prompts a generative model over gathered source documents, parses the
// structured draft, validates every claim against its cited chunk, and runs
// the best-effort simplification and budget passes.
package analyze

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pdiddy/evidence-engine/internal/gateway"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// DocumentFetcher gathers candidate source documents for a condition query.
// Implementations must treat partial collaborator failure as that
// collaborator contributing zero documents.
type DocumentFetcher interface {
	FetchAll(ctx context.Context, query types.ConditionQuery) []types.SourceDocument
}

// Pipeline runs one condition query end to end. It holds no state across
// runs, so a single Pipeline may serve unrelated requests concurrently.
type Pipeline struct {
	gen         Generator
	fetcher     DocumentFetcher
	cfg         types.AnalysisConfig
	temperature float32
	maxTokens   int
	logger      *slog.Logger
}

// NewPipeline builds a Pipeline. Temperature and maxTokens apply to the
// extraction call; the simplification and budget passes use their own fixed
// settings.
func NewPipeline(gen Generator, fetcher DocumentFetcher, cfg types.AnalysisConfig, temperature float32, maxTokens int, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		gen:         gen,
		fetcher:     fetcher,
		cfg:         cfg,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

// Run executes the pipeline for a raw condition string. The returned result
// is always well formed: total failure of the extraction stage yields an
// empty result, never an error, so presentation callers have no error path
// to special-case. Cancellation must be imposed by the caller through ctx.
func (p *Pipeline) Run(ctx context.Context, rawCondition string, includeBudget bool) *types.HealthAnalysisResult {
	runID := uuid.NewString()[:8]
	logger := p.logger.With("run", runID)

	query := types.ParseConditionQuery(rawCondition)
	logger.Info("starting analysis",
		"condition", query.BaseCondition, "cause", query.Cause)

	docs := p.fetcher.FetchAll(ctx, query)
	if len(docs) == 0 {
		logger.Warn("no source documents gathered")
		return types.EmptyResult(rawCondition)
	}
	logger.Info("gathered source documents", "count", len(docs))

	prompt, err := BuildExtractionPrompt(query, docs, p.cfg.AbstractBudget)
	if err != nil {
		logger.Error("extraction prompt failed", "error", err)
		return types.EmptyResult(rawCondition)
	}

	raw, err := p.gen.Generate(ctx, gateway.GenerateRequest{
		SystemPrompt: extractionSystemPrompt,
		Prompt:       prompt,
		Temperature:  p.temperature,
		MaxTokens:    p.maxTokens,
		JSONMode:     true,
	})
	if err != nil {
		logger.Error("extraction call failed", "error", err)
		return types.EmptyResult(rawCondition)
	}

	draft, err := ParseAnalysis(raw)
	if err != nil {
		// Malformed top-level output cannot be partially trusted; no retry.
		logger.Error("extraction output rejected", "error", err)
		return types.EmptyResult(rawCondition)
	}

	validator := NewValidator(query, docs, logger)
	validated := validator.Validate(draft.Recommendations)
	logger.Info("validated recommendations",
		"proposed", len(draft.Recommendations), "kept", len(validated))

	glossary := p.simplifyRecommendations(ctx, validated, logger)

	result := &types.HealthAnalysisResult{
		Condition:       rawCondition,
		Mechanisms:      draft.Mechanisms,
		Recommendations: validated,
		Glossary:        glossary,
	}
	if result.Mechanisms == nil {
		result.Mechanisms = []string{}
	}

	if includeBudget {
		names := make([]string, 0, len(validated))
		for _, r := range validated {
			names = append(names, r.Name)
		}
		result.BudgetOptions = BudgetOptions(ctx, p.gen, query.BaseCondition, names, logger)
	}

	return result
}

// simplifyRecommendations batches every summary and mechanism into one
// simplification call and writes accepted paraphrases back in place. Results
// map back by position, so the batch is built and consumed in the same order.
// The returned glossary aggregates unique technical terms across the batch.
func (p *Pipeline) simplifyRecommendations(ctx context.Context, recs []types.ValidatedRecommendation, logger *slog.Logger) []types.TechnicalTerm {
	type slot struct {
		rec       int
		mechanism bool
	}

	var batch []SimplifyInput
	var slots []slot
	for i, r := range recs {
		if r.Summary != "" {
			batch = append(batch, SimplifyInput{Text: r.Summary, Context: "summary of " + r.Name})
			slots = append(slots, slot{rec: i})
		}
		if r.Mechanism != "" {
			batch = append(batch, SimplifyInput{Text: r.Mechanism, Context: "mechanism of " + r.Name})
			slots = append(slots, slot{rec: i, mechanism: true})
		}
	}
	if len(batch) == 0 {
		return nil
	}

	simplifier := NewSimplifier(p.gen, p.cfg.SimplifySimilarityCeiling, logger)
	simplified := simplifier.Simplify(ctx, batch)

	seen := make(map[string]bool)
	var glossary []types.TechnicalTerm
	for i, st := range simplified {
		if slots[i].mechanism {
			recs[slots[i].rec].Mechanism = st.Simplified
		} else {
			recs[slots[i].rec].Summary = st.Simplified
		}
		for _, term := range st.TechnicalTerms {
			key := foldText(term.Term)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			glossary = append(glossary, term)
		}
	}
	return glossary
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pdiddy/evidence-engine/internal/gateway"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// maxBudgetOptions caps the suggestions kept from the budget pass.
const maxBudgetOptions = 5

// BudgetOptions requests low-cost alternatives for the validated
// recommendation names, sourced from named public-health authorities. Any
// failure degrades to an empty list; this stage never affects the rest of
// the result.
func BudgetOptions(ctx context.Context, gen Generator, condition string, names []string, logger *slog.Logger) []types.BudgetOption {
	if logger == nil {
		logger = slog.Default()
	}
	if len(names) == 0 {
		return nil
	}

	prompt, err := BuildBudgetPrompt(condition, names)
	if err != nil {
		logger.Warn("budget pass skipped", "error", err)
		return nil
	}

	raw, err := gen.Generate(ctx, gateway.GenerateRequest{
		SystemPrompt: budgetSystemPrompt,
		Prompt:       prompt,
		Temperature:  0.3,
		JSONMode:     true,
	})
	if err != nil {
		logger.Warn("budget call failed", "error", err)
		return nil
	}

	var options []types.BudgetOption
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &options); err != nil {
		logger.Warn("budget response unparseable", "error", err)
		return nil
	}

	// Keep only suggestions that actually name an authority.
	kept := options[:0]
	for _, o := range options {
		if o.Name == "" || o.Source == "" {
			continue
		}
		kept = append(kept, o)
	}
	if len(kept) > maxBudgetOptions {
		kept = kept[:maxBudgetOptions]
	}
	return kept
}

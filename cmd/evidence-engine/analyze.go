// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/evidence-engine/internal/analyze"
	"github.com/pdiddy/evidence-engine/internal/cache"
	"github.com/pdiddy/evidence-engine/internal/gateway"
	"github.com/pdiddy/evidence-engine/internal/logging"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <condition>",
	Short: "Run the full extraction pipeline for a health condition",
	Long: `Analyze gathers source documents for the condition, extracts food and
activity recommendations with the configured model gateway, and validates every
structured claim against the source text it cites. Results are cached; a cached
result within its TTL is served without a model call.

The condition may attribute a cause ("headaches after concussion"); extraction
is then scoped to that cause.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		condition := strings.Join(args, " ")

		logLevel, _ := cmd.Flags().GetString("log-level")
		logger := logging.New(logLevel)

		if family, _ := cmd.Flags().GetString("family"); family != "" {
			viper.Set("gateway.family", family)
		}
		if model, _ := cmd.Flags().GetString("model"); model != "" {
			viper.Set("gateway.model", model)
		}

		includeBudget, _ := cmd.Flags().GetBool("budget")
		noCache, _ := cmd.Flags().GetBool("no-cache")
		format, _ := cmd.Flags().GetString("format")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		ctx := cmd.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		var store *cache.Store
		if !noCache {
			s, err := cache.NewStore(cacheConfig())
			if err != nil {
				logger.Warn("cache unavailable, proceeding without it", "error", err)
			} else {
				store = s
				defer store.Close()
			}
		}

		key := types.ParseConditionQuery(condition).NormalizedKey()
		if store != nil {
			cached, hit, err := store.Get(ctx, key)
			if err != nil {
				logger.Warn("cache read failed", "error", err)
			} else if hit {
				logger.Info("serving cached analysis", "key", key)
				return printResult(cmd.OutOrStdout(), cached, format)
			}
		}

		gwCfg := gatewayConfig()
		backends, err := gateway.NewFromConfig(gwCfg, logger)
		if err != nil {
			return err
		}
		gw, err := gateway.New(backends, logger)
		if err != nil {
			return err
		}

		fanout := newFanout(searchConfig(), logger)
		pipeline := analyze.NewPipeline(gw, fanout, analysisConfig(), gwCfg.Temperature, gwCfg.MaxTokens, logger)

		result := pipeline.Run(ctx, condition, includeBudget)

		if store != nil {
			if err := store.Put(ctx, key, result); err != nil {
				logger.Warn("cache write failed", "error", err)
			}
		}

		return printResult(cmd.OutOrStdout(), result, format)
	},
}

func init() {
	analyzeCmd.Flags().Bool("budget", false, "include low-cost alternatives from public-health authorities")
	analyzeCmd.Flags().Bool("no-cache", false, "bypass the analysis result cache")
	analyzeCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	analyzeCmd.Flags().Duration("timeout", 5*time.Minute, "overall deadline for the run (0 disables)")
	analyzeCmd.Flags().String("family", "", "primary backend family: openai, groq, or openrouter")
	analyzeCmd.Flags().String("model", "", "model identifier for the primary backend")

	rootCmd.AddCommand(analyzeCmd)
}

// printResult writes the analysis result to w in the requested format.
func printResult(w io.Writer, result *types.HealthAnalysisResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "text", "":
	default:
		return fmt.Errorf("unsupported format %q: use text, json, or yaml", format)
	}

	fmt.Fprintf(w, "Condition: %s\n", result.Condition)

	if len(result.Mechanisms) > 0 {
		fmt.Fprintln(w, "\nHow the condition works:")
		for _, m := range result.Mechanisms {
			fmt.Fprintf(w, "  - %s\n", m)
		}
	}

	if len(result.Recommendations) == 0 {
		fmt.Fprintln(w, "\nNo grounded recommendations found.")
	}
	for _, r := range result.Recommendations {
		fmt.Fprintf(w, "\n%s [%s, %s]\n", r.Name, r.Type, r.Category)
		if r.Summary != "" {
			fmt.Fprintf(w, "  %s\n", r.Summary)
		}
		if r.Mechanism != "" {
			fmt.Fprintf(w, "  Mechanism: %s\n", r.Mechanism)
		}
		printFields(w, "Exercise", [][2]string{
			{"exercises", r.Exercise.SpecificExercises},
			{"reps", r.Exercise.Reps},
			{"sets", r.Exercise.Sets},
			{"duration", r.Exercise.Duration},
			{"frequency", r.Exercise.Frequency},
		})
		printFields(w, "Intake", [][2]string{
			{"dosage", r.Intake.Dosage},
			{"timing", r.Intake.Timing},
			{"preparation", r.Intake.Preparation},
			{"frequency", r.Intake.Frequency},
		})
		for _, e := range r.Evidence {
			fmt.Fprintf(w, "  Source: %s", e.PaperTitle)
			if e.PaperURL != "" {
				fmt.Fprintf(w, " <%s>", e.PaperURL)
			}
			fmt.Fprintln(w)
			if e.Quote != "" {
				fmt.Fprintf(w, "    %q\n", e.Quote)
			}
		}
	}

	if len(result.Glossary) > 0 {
		fmt.Fprintln(w, "\nGlossary:")
		for _, term := range result.Glossary {
			fmt.Fprintf(w, "  %s: %s\n", term.Term, term.Explanation)
		}
	}

	if len(result.BudgetOptions) > 0 {
		fmt.Fprintln(w, "\nLow-cost alternatives:")
		for _, o := range result.BudgetOptions {
			fmt.Fprintf(w, "  - %s (%s, %s)\n", o.Name, o.Source, o.Cost)
			if o.Description != "" {
				fmt.Fprintf(w, "    %s\n", o.Description)
			}
		}
	}

	return nil
}

// printFields prints a labelled group of name/value pairs, skipping empty
// values and the whole group when nothing is set.
func printFields(w io.Writer, label string, fields [][2]string) {
	var lines []string
	for _, f := range fields {
		if f[1] != "" {
			lines = append(lines, f[0]+": "+f[1])
		}
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s: %s\n", label, strings.Join(lines, ", "))
}

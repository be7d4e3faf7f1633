package analyze

import (
	"strings"
	"testing"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

func TestBuildExtractionPrompt(t *testing.T) {
	docs := []types.SourceDocument{
		{
			ID:           "pmid:42",
			Origin:       types.OriginLiteratureDB,
			Title:        "Exercise and Type 2 Diabetes",
			URL:          "https://pubmed.ncbi.nlm.nih.gov/42/",
			AbstractText: "Methods: moderate-intensity running, 30 minutes, 3 times per week.",
		},
		{
			ID:           "web:0",
			Origin:       types.OriginWebScrape,
			Title:        "Managing Blood Sugar",
			URL:          "https://www.cdc.gov/diabetes/managing",
			AbstractText: "Regular physical activity lowers blood glucose.",
		},
	}

	t.Run("plain condition", func(t *testing.T) {
		prompt, err := BuildExtractionPrompt(types.ParseConditionQuery("diabetes"), docs, 0)
		if err != nil {
			t.Fatalf("BuildExtractionPrompt: %v", err)
		}

		for _, want := range []string{
			"Condition: diabetes",
			"[pmid:42] (literature-db) Exercise and Type 2 Diabetes",
			"URL: https://pubmed.ncbi.nlm.nih.gov/42/",
			"moderate-intensity running, 30 minutes, 3 times per week",
			"[web:0] (web-scrape) Managing Blood Sugar",
			"exerciseDetailsChunk",
			"dosageDetailsChunk",
		} {
			if !strings.Contains(prompt, want) {
				t.Errorf("prompt missing %q", want)
			}
		}
		if strings.Contains(prompt, "Cause:") {
			t.Error("cause block rendered for cause-less query")
		}
	})

	t.Run("cause-scoped condition", func(t *testing.T) {
		prompt, err := BuildExtractionPrompt(types.ParseConditionQuery("headaches after concussion"), docs, 0)
		if err != nil {
			t.Fatalf("BuildExtractionPrompt: %v", err)
		}
		if !strings.Contains(prompt, "Condition: headaches") {
			t.Error("prompt missing base condition")
		}
		if !strings.Contains(prompt, "Cause: concussion") {
			t.Error("prompt missing cause block")
		}
		if !strings.Contains(prompt, `"headaches caused by concussion"`) {
			t.Error("prompt missing cause-scoped phrase")
		}
	})

	t.Run("body truncation respects word boundaries", func(t *testing.T) {
		long := strings.Repeat("background sentence ", 60) // ~1200 chars
		prompt, err := BuildExtractionPrompt(
			types.ParseConditionQuery("diabetes"),
			[]types.SourceDocument{{ID: "pmid:1", Title: "T", AbstractText: long}},
			100,
		)
		if err != nil {
			t.Fatalf("BuildExtractionPrompt: %v", err)
		}
		if strings.Contains(prompt, strings.Repeat("background sentence ", 10)) {
			t.Error("body not truncated to budget")
		}
		if !strings.Contains(prompt, "background sentence...") {
			t.Error("truncation did not trim back to a word boundary")
		}
	})
}

func TestTruncateBody(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		budget int
		want   string
	}{
		{"under budget", "short text", 100, "short text"},
		{"exact budget", "abcde", 5, "abcde"},
		{"cut at space", "one two three", 9, "one two..."},
		{"no space before cut", "abcdefghij", 5, "abcde..."},
		{"leading whitespace trimmed", "  padded  ", 100, "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateBody(tt.text, tt.budget); got != tt.want {
				t.Errorf("truncateBody(%q, %d) = %q, want %q", tt.text, tt.budget, got, tt.want)
			}
		})
	}
}

func TestBuildSimplifyPrompt(t *testing.T) {
	prompt, err := BuildSimplifyPrompt([]SimplifyInput{
		{Text: "increases insulin sensitivity", Context: "mechanism"},
		{Text: "attenuates systemic inflammation", Context: "recommendation: Omega-3"},
	})
	if err != nil {
		t.Fatalf("BuildSimplifyPrompt: %v", err)
	}

	for _, want := range []string{
		"exactly 2 objects",
		"0. [mechanism] increases insulin sensitivity",
		"1. [recommendation: Omega-3] attenuates systemic inflammation",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildBudgetPrompt(t *testing.T) {
	prompt, err := BuildBudgetPrompt("diabetes", []string{"Running", "Omega-3 fatty acids"})
	if err != nil {
		t.Fatalf("BuildBudgetPrompt: %v", err)
	}

	for _, want := range []string{
		`condition "diabetes"`,
		"- Running",
		"- Omega-3 fatty acids",
		"CDC, NHS, WHO",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

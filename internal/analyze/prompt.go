// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

// defaultAbstractBudget caps the characters of each document body embedded in
// the extraction prompt, to bound total prompt size.
const defaultAbstractBudget = 600

// extractionSystemPrompt is the system-role instruction for the extraction call.
const extractionSystemPrompt = "You are a careful health research assistant. " +
	"You only report facts that appear verbatim in the provided source documents. " +
	"You respond with a single JSON object and nothing else."

// extractionPromptTmpl renders the extraction instruction block: the target
// condition (cause-scoped when a cause was parsed), the output schema, the
// chunk-first protocol, and the truncated source documents.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`Analyze the source documents below and extract food and activity recommendations for the following health condition.

Condition: {{.Condition}}
{{- if .Cause}}
Cause: {{.Cause}}
Only extract recommendations that apply to "{{.Condition}} {{.Connector}} {{.Cause}}" or to "{{.Condition}}" alone. Ignore findings about {{.Condition}} attributed to other, unrelated causes.
{{- end}}

Respond with a single JSON object:
{
  "mechanisms": ["how the condition works, one statement per entry"],
  "recommendations": [
    {
      "type": "food" or "activity",
      "name": "a specific food or activity, never a generic label",
      "category": "beneficial" or "risky",
      "mechanism": "how this item affects the condition",
      "summary": "short description of the finding",
      "exerciseFields": {"specificExercises": "", "reps": "", "sets": "", "duration": "", "frequency": ""},
      "intakeFields": {"dosage": "", "timing": "", "preparation": "", "frequency": ""},
      "evidence": [
        {
          "paperTitle": "", "paperUrl": "", "paperId": "", "doi": "",
          "quote": "verbatim sentence supporting the recommendation",
          "sectionForExercises": "", "exerciseDetailsChunk": "",
          "sectionForDosage": "", "dosageDetailsChunk": ""
        }
      ]
    }
  ]
}

Extraction protocol, follow it for every structured field:
Step 1: copy a verbatim excerpt (a chunk) from one source document into exerciseDetailsChunk or dosageDetailsChunk. Do not edit, summarize, or merge text from different documents.
Step 2: fill reps, sets, duration, frequency, dosage, timing, and preparation only with values that appear inside the chunk you copied in step 1. If a value does not appear in any chunk, omit the field entirely. Never write "not specified" or similar placeholders.

Source documents:
{{range .Documents}}
[{{.ID}}] ({{.Origin}}) {{.Title}}
URL: {{.URL}}
{{.Body}}
{{end}}`))

// promptDocument is one source document prepared for template rendering.
type promptDocument struct {
	ID     string
	Origin types.SourceOrigin
	Title  string
	URL    string
	Body   string
}

// BuildExtractionPrompt renders the extraction prompt for a condition query
// and its source documents. Document bodies are truncated to budget
// characters (defaultAbstractBudget when budget <= 0).
func BuildExtractionPrompt(query types.ConditionQuery, docs []types.SourceDocument, budget int) (string, error) {
	if budget <= 0 {
		budget = defaultAbstractBudget
	}

	rendered := make([]promptDocument, 0, len(docs))
	for _, d := range docs {
		rendered = append(rendered, promptDocument{
			ID:     d.ID,
			Origin: d.Origin,
			Title:  d.Title,
			URL:    d.URL,
			Body:   truncateBody(d.AbstractText, budget),
		})
	}

	data := struct {
		Condition string
		Cause     string
		Connector string
		Documents []promptDocument
	}{
		Condition: query.BaseCondition,
		Cause:     query.Cause,
		Connector: "caused by",
		Documents: rendered,
	}

	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering extraction prompt: %w", err)
	}
	return buf.String(), nil
}

// truncateBody cuts text to at most budget characters, trimming back to the
// last space so no word is cut mid-way.
func truncateBody(text string, budget int) string {
	text = strings.TrimSpace(text)
	if len(text) <= budget {
		return text
	}
	cut := text[:budget]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// simplifySystemPrompt is the system-role instruction for the batch
// simplification call.
const simplifySystemPrompt = "You rewrite medical text in plain language for a general audience. " +
	"You respond with a single JSON array and nothing else."

// simplifyPromptTmpl renders the batch simplification prompt. The response
// must be an array with exactly one element per input, in input order; the
// caller maps results back by position.
var simplifyPromptTmpl = template.Must(template.New("simplify").Parse(`Rewrite each of the {{len .Items}} texts below in plain language. Replace jargon with everyday words and keep every fact and number unchanged. Do not echo the original wording.

Respond with a JSON array of exactly {{len .Items}} objects, one per text, in the same order:
[{"simplified": "the rewritten text", "technicalTerms": [{"term": "", "explanation": ""}]}]

Texts:
{{range $i, $item := .Items}}
{{$i}}. [{{$item.Context}}] {{$item.Text}}
{{end}}`))

// SimplifyInput is one text to simplify with its display context label.
type SimplifyInput struct {
	Text    string
	Context string
}

// BuildSimplifyPrompt renders the combined prompt for one simplification batch.
func BuildSimplifyPrompt(items []SimplifyInput) (string, error) {
	var buf bytes.Buffer
	err := simplifyPromptTmpl.Execute(&buf, struct{ Items []SimplifyInput }{Items: items})
	if err != nil {
		return "", fmt.Errorf("rendering simplify prompt: %w", err)
	}
	return buf.String(), nil
}

// budgetSystemPrompt is the system-role instruction for the budget-option call.
const budgetSystemPrompt = "You suggest low-cost health alternatives sourced from government and public-health authorities. " +
	"You respond with a single JSON array and nothing else."

// budgetPromptTmpl renders the budget-option prompt from the condition and
// the validated recommendation names.
var budgetPromptTmpl = template.Must(template.New("budget").Parse(`Suggest up to 5 low-cost or free alternatives for managing the condition "{{.Condition}}", related to these recommended items:
{{range .Names}}- {{.}}
{{end}}
Each suggestion must come from a named government or public-health authority (e.g. CDC, NHS, WHO) and include its source.

Respond with a JSON array:
[{"name": "", "description": "", "source": "authority name", "sourceUrl": "", "cost": "free or approximate cost"}]`))

// BuildBudgetPrompt renders the budget-option prompt.
func BuildBudgetPrompt(condition string, names []string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Condition string
		Names     []string
	}{Condition: condition, Names: names}
	if err := budgetPromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering budget prompt: %w", err)
	}
	return buf.String(), nil
}

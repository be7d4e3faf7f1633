// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RecommendationType distinguishes food recommendations from activity
// recommendations.
type RecommendationType string

const (
	RecommendationFood     RecommendationType = "food"
	RecommendationActivity RecommendationType = "activity"
)

// RecommendationCategory marks a recommendation as beneficial or risky for
// the queried condition.
type RecommendationCategory string

const (
	CategoryBeneficial RecommendationCategory = "beneficial"
	CategoryRisky      RecommendationCategory = "risky"
)

// EvidenceDraft is one model-proposed citation of a source document. Chunk
// fields hold verbatim excerpts from the cited document; they are the sole
// basis on which structured fields of the owning recommendation may survive
// validation.
type EvidenceDraft struct {
	// PaperTitle is the cited document title as the model reported it.
	PaperTitle string `json:"paperTitle" yaml:"paper_title"`

	// PaperURL is the cited document URL. Overwritten during reconciliation
	// when the document is found by ID or title.
	PaperURL string `json:"paperUrl,omitempty" yaml:"paper_url,omitempty"`

	// PaperID is the collaborator-assigned document identifier.
	PaperID string `json:"paperId,omitempty" yaml:"paper_id,omitempty"`

	// DOI is the cited document DOI, reconciled like PaperURL.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Quote is a supporting excerpt for the recommendation as a whole.
	Quote string `json:"quote,omitempty" yaml:"quote,omitempty"`

	// SectionForExercises names the document section the exercise chunk was
	// copied from.
	SectionForExercises string `json:"sectionForExercises,omitempty" yaml:"section_for_exercises,omitempty"`

	// ExerciseDetailsChunk is the verbatim excerpt grounding exercise fields.
	ExerciseDetailsChunk string `json:"exerciseDetailsChunk,omitempty" yaml:"exercise_details_chunk,omitempty"`

	// SectionForDosage names the document section the dosage chunk was
	// copied from.
	SectionForDosage string `json:"sectionForDosage,omitempty" yaml:"section_for_dosage,omitempty"`

	// DosageDetailsChunk is the verbatim excerpt grounding intake fields.
	DosageDetailsChunk string `json:"dosageDetailsChunk,omitempty" yaml:"dosage_details_chunk,omitempty"`
}

// ExerciseFields holds structured activity parameters. Every populated field
// must appear as a substring of some evidence ExerciseDetailsChunk after
// validation; absence is represented by the empty string.
type ExerciseFields struct {
	SpecificExercises string `json:"specificExercises,omitempty" yaml:"specific_exercises,omitempty"`
	Reps              string `json:"reps,omitempty" yaml:"reps,omitempty"`
	Sets              string `json:"sets,omitempty" yaml:"sets,omitempty"`
	Duration          string `json:"duration,omitempty" yaml:"duration,omitempty"`
	Frequency         string `json:"frequency,omitempty" yaml:"frequency,omitempty"`
}

// Empty reports whether no exercise field is populated.
func (f ExerciseFields) Empty() bool {
	return f == ExerciseFields{}
}

// IntakeFields holds structured food intake parameters, grounded on
// DosageDetailsChunk excerpts the same way ExerciseFields are grounded on
// ExerciseDetailsChunk excerpts.
type IntakeFields struct {
	Dosage      string `json:"dosage,omitempty" yaml:"dosage,omitempty"`
	Timing      string `json:"timing,omitempty" yaml:"timing,omitempty"`
	Preparation string `json:"preparation,omitempty" yaml:"preparation,omitempty"`
	Frequency   string `json:"frequency,omitempty" yaml:"frequency,omitempty"`
}

// Empty reports whether no intake field is populated.
func (f IntakeFields) Empty() bool {
	return f == IntakeFields{}
}

// RecommendationDraft is a model-proposed recommendation before provenance
// validation.
type RecommendationDraft struct {
	// Type is food or activity.
	Type RecommendationType `json:"type" yaml:"type"`

	// Name is the specific food or activity ("Running", "Omega-3 fatty acids").
	Name string `json:"name" yaml:"name"`

	// Category is beneficial or risky.
	Category RecommendationCategory `json:"category" yaml:"category"`

	// Mechanism explains how the item affects the condition.
	Mechanism string `json:"mechanism,omitempty" yaml:"mechanism,omitempty"`

	// Summary is a short description of the recommendation.
	Summary string `json:"summary" yaml:"summary"`

	// Exercise holds structured activity parameters, if any survived.
	Exercise ExerciseFields `json:"exerciseFields,omitempty" yaml:"exercise_fields,omitempty"`

	// Intake holds structured food parameters, if any survived.
	Intake IntakeFields `json:"intakeFields,omitempty" yaml:"intake_fields,omitempty"`

	// Evidence lists the citations supporting the recommendation.
	Evidence []EvidenceDraft `json:"evidence" yaml:"evidence"`
}

// ValidatedRecommendation is a RecommendationDraft that passed every
// validation step, with evidence URLs and DOIs reconciled against the source
// documents.
type ValidatedRecommendation = RecommendationDraft

// TechnicalTerm pairs a technical term with its plain-language explanation.
type TechnicalTerm struct {
	Term        string `json:"term" yaml:"term"`
	Explanation string `json:"explanation" yaml:"explanation"`
}

// SimplifiedText is the outcome of one simplification item. Simplified equals
// Original whenever the paraphrase was rejected or the batch call failed.
type SimplifiedText struct {
	Original       string          `json:"original" yaml:"original"`
	Simplified     string          `json:"simplified" yaml:"simplified"`
	TechnicalTerms []TechnicalTerm `json:"technicalTerms" yaml:"technical_terms"`
}

// BudgetOption is a low-cost alternative sourced from a named public-health
// authority.
type BudgetOption struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Source      string `json:"source" yaml:"source"`
	SourceURL   string `json:"sourceUrl,omitempty" yaml:"source_url,omitempty"`
	Cost        string `json:"cost,omitempty" yaml:"cost,omitempty"`
}

// HealthAnalysisResult is the terminal artifact of a pipeline run. It is
// always well formed: a failed extraction stage yields empty slices, never an
// error, so presentation callers have no error path to special-case.
type HealthAnalysisResult struct {
	// Condition is the raw condition string the run was asked about.
	Condition string `json:"condition" yaml:"condition"`

	// Mechanisms lists condition-level mechanism statements from the model.
	Mechanisms []string `json:"mechanisms" yaml:"mechanisms"`

	// Recommendations lists the recommendations that survived validation.
	Recommendations []ValidatedRecommendation `json:"recommendations" yaml:"recommendations"`

	// Glossary aggregates the unique technical terms explained by the
	// simplification pass.
	Glossary []TechnicalTerm `json:"glossary,omitempty" yaml:"glossary,omitempty"`

	// BudgetOptions lists low-cost alternatives, present only when the budget
	// pass was requested and succeeded.
	BudgetOptions []BudgetOption `json:"budgetOptions,omitempty" yaml:"budget_options,omitempty"`
}

// EmptyResult returns a well-formed result with no findings for condition.
func EmptyResult(condition string) *HealthAnalysisResult {
	return &HealthAnalysisResult{
		Condition:       condition,
		Mechanisms:      []string{},
		Recommendations: []ValidatedRecommendation{},
	}
}

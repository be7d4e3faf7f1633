// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

// placeholderRe matches field values that state the absence of a value.
// Such fields are deleted outright: absence must be structural, never a
// displayable string.
var placeholderRe = regexp.MustCompile(
	`(?i)^\s*(not\s+(specified|reported|provided|mentioned|available|stated)|unknown|unspecified|n/?a|none(\s+(specified|reported|mentioned))?)\s*\.?\s*$`)

// genericNames are bare nouns too unspecific to display as a recommendation.
var genericNames = map[string]bool{
	"exercise":  true,
	"activity":  true,
	"diet":      true,
	"nutrition": true,
	"food":      true,
	"therapy":   true,
}

// genericNamePatterns reject qualifier-plus-generic names like
// "Submaximal Exercise", "Stretching (general)", or "Dietary Interventions".
var genericNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(low|light|moderate|vigorous|intense|high|submaximal|maximal|gentle|regular|general|physical)([- ]intensity)?\s+exercises?$`),
	regexp.MustCompile(`\(general\)$`),
	regexp.MustCompile(`^(dietary|nutritional)\s+interventions?$`),
}

// vaguePhrases flag mechanism statements that assert benefit without saying
// anything. A vague phrase alone is not disqualifying: statements at or above
// vagueMechanismLen are assumed to carry enough specific content around it.
var vaguePhrases = []string{
	"acts as a way",
	"is beneficial",
	"helps improve",
	"can help",
	"is good for",
	"helps with treatment",
}

const vagueMechanismLen = 50

// Condition-domain keyword sets for the relevance filter.
var (
	metabolicKeywords = []string{
		"diabetes", "insulin", "glucose", "metabolic", "glycemic", "blood sugar",
	}
	neurologicalKeywords = []string{
		"concussion", "brain", "cognitive", "tbi", "neurological", "neural", "cerebral",
	}
)

// Validator enforces chunk-grounding and the specificity and relevance
// heuristics over model-proposed drafts. It holds no state across Validate
// calls beyond the run's query and source documents.
type Validator struct {
	query  types.ConditionQuery
	byID   map[string]types.SourceDocument
	byName map[string]types.SourceDocument
	logger *slog.Logger
}

// NewValidator builds a Validator for one pipeline run.
func NewValidator(query types.ConditionQuery, docs []types.SourceDocument, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Validator{
		query:  query,
		byID:   make(map[string]types.SourceDocument, len(docs)),
		byName: make(map[string]types.SourceDocument, len(docs)),
		logger: logger,
	}
	for _, d := range docs {
		if d.ID != "" {
			v.byID[d.ID] = d
		}
		if key := foldText(d.Title); key != "" {
			v.byName[key] = d
		}
	}
	return v
}

// Validate filters and transforms drafts into validated recommendations.
// Dropped drafts and stripped fields are expected outcomes, logged for
// diagnostics only; Validate never fails.
func (v *Validator) Validate(drafts []types.RecommendationDraft) []types.ValidatedRecommendation {
	out := make([]types.ValidatedRecommendation, 0, len(drafts))

	for _, draft := range drafts {
		v.scrubPlaceholders(&draft)
		v.gateOnChunks(&draft)

		if reason := v.rejectName(draft.Name); reason != "" {
			v.logger.Debug("dropping recommendation", "name", draft.Name, "reason", reason)
			continue
		}
		if v.mechanismTooVague(draft.Mechanism) {
			v.logger.Debug("dropping recommendation", "name", draft.Name, "reason", "vague mechanism")
			continue
		}
		if v.offDomain(draft.Mechanism) {
			v.logger.Debug("dropping recommendation", "name", draft.Name, "reason", "off-domain mechanism")
			continue
		}

		v.reconcileEvidence(&draft)
		out = append(out, draft)
	}

	return out
}

// scrubPlaceholders deletes every field whose text is a "not specified"
// variant, including chunk and section sub-fields on evidence entries.
func (v *Validator) scrubPlaceholders(r *types.RecommendationDraft) {
	scrub := func(s *string) {
		if placeholderRe.MatchString(*s) {
			*s = ""
		}
	}

	scrub(&r.Mechanism)
	scrub(&r.Summary)
	scrub(&r.Exercise.SpecificExercises)
	scrub(&r.Exercise.Reps)
	scrub(&r.Exercise.Sets)
	scrub(&r.Exercise.Duration)
	scrub(&r.Exercise.Frequency)
	scrub(&r.Intake.Dosage)
	scrub(&r.Intake.Timing)
	scrub(&r.Intake.Preparation)
	scrub(&r.Intake.Frequency)

	for i := range r.Evidence {
		e := &r.Evidence[i]
		scrub(&e.Quote)
		scrub(&e.SectionForExercises)
		scrub(&e.ExerciseDetailsChunk)
		scrub(&e.SectionForDosage)
		scrub(&e.DosageDetailsChunk)
	}
}

// gateOnChunks enforces the grounding invariant. Exercise fields survive only
// when some evidence entry carries an exercise chunk, and each populated
// field value must appear in one of those chunks as a case-insensitive
// substring. Intake fields are gated the same way on dosage chunks.
func (v *Validator) gateOnChunks(r *types.RecommendationDraft) {
	var exerciseChunks, dosageChunks []string
	for _, e := range r.Evidence {
		if e.ExerciseDetailsChunk != "" {
			exerciseChunks = append(exerciseChunks, strings.ToLower(e.ExerciseDetailsChunk))
		}
		if e.DosageDetailsChunk != "" {
			dosageChunks = append(dosageChunks, strings.ToLower(e.DosageDetailsChunk))
		}
	}

	if len(exerciseChunks) == 0 {
		r.Exercise = types.ExerciseFields{}
		for i := range r.Evidence {
			r.Evidence[i].SectionForExercises = ""
			r.Evidence[i].ExerciseDetailsChunk = ""
		}
	} else {
		groundField(&r.Exercise.SpecificExercises, exerciseChunks)
		groundField(&r.Exercise.Reps, exerciseChunks)
		groundField(&r.Exercise.Sets, exerciseChunks)
		groundField(&r.Exercise.Duration, exerciseChunks)
		groundField(&r.Exercise.Frequency, exerciseChunks)
	}

	if len(dosageChunks) == 0 {
		r.Intake = types.IntakeFields{}
		for i := range r.Evidence {
			r.Evidence[i].SectionForDosage = ""
			r.Evidence[i].DosageDetailsChunk = ""
		}
	} else {
		groundField(&r.Intake.Dosage, dosageChunks)
		groundField(&r.Intake.Timing, dosageChunks)
		groundField(&r.Intake.Preparation, dosageChunks)
		groundField(&r.Intake.Frequency, dosageChunks)
	}
}

// groundField clears a field whose value is not a substring of any chunk.
func groundField(field *string, chunks []string) {
	if *field == "" {
		return
	}
	needle := strings.ToLower(*field)
	for _, chunk := range chunks {
		if strings.Contains(chunk, needle) {
			return
		}
	}
	*field = ""
}

// rejectName returns a non-empty reason when the recommendation name is too
// generic to display.
func (v *Validator) rejectName(name string) string {
	lower := strings.TrimSpace(strings.ToLower(name))
	if lower == "" {
		return "empty name"
	}
	if genericNames[lower] {
		return "generic name"
	}
	for _, re := range genericNamePatterns {
		if re.MatchString(lower) {
			return "generic name pattern"
		}
	}
	return ""
}

// mechanismTooVague reports whether the mechanism is both short and built on
// a known vague phrase.
func (v *Validator) mechanismTooVague(mechanism string) bool {
	if len(mechanism) >= vagueMechanismLen {
		return false
	}
	lower := strings.ToLower(mechanism)
	for _, phrase := range vaguePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// offDomain rejects mechanisms from the wrong condition domain: a
// neurological-only condition drops metabolic-keyword mechanisms that mention
// neither a neurological keyword nor the condition itself, and symmetrically
// for metabolic-only conditions. Conditions matching neither or both domains
// are exempt.
func (v *Validator) offDomain(mechanism string) bool {
	condition := strings.ToLower(v.query.BaseCondition)
	isMetabolic := containsAny(condition, metabolicKeywords)
	isNeurological := containsAny(condition, neurologicalKeywords)
	if isMetabolic == isNeurological {
		return false
	}

	mech := strings.ToLower(mechanism)
	if strings.Contains(mech, condition) {
		return false
	}

	if isNeurological {
		return containsAny(mech, metabolicKeywords) && !containsAny(mech, neurologicalKeywords)
	}
	return containsAny(mech, neurologicalKeywords) && !containsAny(mech, metabolicKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// reconcileEvidence overwrites model-supplied URLs and DOIs with the
// authoritative values from the matching source document, found by ID first,
// then by exact title.
func (v *Validator) reconcileEvidence(r *types.RecommendationDraft) {
	for i := range r.Evidence {
		e := &r.Evidence[i]

		doc, ok := v.byID[e.PaperID]
		if !ok {
			doc, ok = v.byName[foldText(e.PaperTitle)]
		}
		if !ok {
			continue
		}

		if doc.URL != "" {
			e.PaperURL = doc.URL
		}
		if doc.DOI != "" {
			e.DOI = doc.DOI
		}
		if e.PaperID == "" {
			e.PaperID = doc.ID
		}
	}
}

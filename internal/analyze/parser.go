// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

// ErrMalformedOutput reports that the model response was not the expected
// JSON document. The cause is prompt or model non-compliance, not transient
// infrastructure, so the run is not retried and yields an empty result.
var ErrMalformedOutput = errors.New("malformed model output")

// AnalysisDraft is the model's full response before validation: condition
// mechanisms plus proposed recommendations.
type AnalysisDraft struct {
	Mechanisms      []string                    `json:"mechanisms"`
	Recommendations []types.RecommendationDraft `json:"recommendations"`
}

// ParseAnalysis turns raw model output into an AnalysisDraft. It tolerates a
// Markdown code-fence wrapper but nothing else: the remainder must be one
// JSON object.
func ParseAnalysis(raw string) (*AnalysisDraft, error) {
	cleaned := stripCodeFences(raw)
	if strings.TrimSpace(cleaned) == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedOutput)
	}

	var draft AnalysisDraft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return &draft, nil
}

// stripCodeFences removes a surrounding ``` or ```json fence pair, if
// present. Inner content is returned unchanged.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop a language tag on the opening fence line.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		first := strings.TrimSpace(s[:i])
		if first == "" || isFenceTag(first) {
			s = s[i+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// isFenceTag reports whether s looks like a code-fence language tag rather
// than JSON content.
func isFenceTag(s string) bool {
	for _, r := range s {
		if r == '{' || r == '[' {
			return false
		}
	}
	return len(s) <= 10
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// connectorPhrases split a raw condition string into a base condition and an
// attributed cause. Matched in order, case-insensitively, on word boundaries
// formed by surrounding spaces.
var connectorPhrases = []string{
	"after",
	"from",
	"due to",
	"caused by",
	"following",
}

// ConditionQuery is a health condition query split into its base condition
// and, when a connector phrase was present, an attributed cause.
type ConditionQuery struct {
	// Raw is the original user-supplied condition string.
	Raw string `json:"raw" yaml:"raw"`

	// BaseCondition is the condition itself ("insomnia" in "insomnia after
	// concussion"). Always non-empty.
	BaseCondition string `json:"base_condition" yaml:"base_condition"`

	// Cause is the attributed cause ("concussion" above), empty when the raw
	// query contains no connector phrase.
	Cause string `json:"cause,omitempty" yaml:"cause,omitempty"`
}

// HasCause reports whether a connector phrase was found in the raw query.
func (q ConditionQuery) HasCause() bool { return q.Cause != "" }

// ParseConditionQuery derives a ConditionQuery from free text by splitting on
// the first connector phrase found. Splits that would leave an empty base
// condition are ignored so BaseCondition is always non-empty.
func ParseConditionQuery(raw string) ConditionQuery {
	trimmed := strings.Join(strings.Fields(raw), " ")
	q := ConditionQuery{Raw: raw, BaseCondition: trimmed}

	lower := strings.ToLower(trimmed)
	for _, conn := range connectorPhrases {
		needle := " " + conn + " "
		idx := strings.Index(lower, needle)
		if idx <= 0 {
			continue
		}
		base := strings.TrimSpace(trimmed[:idx])
		cause := strings.TrimSpace(trimmed[idx+len(needle):])
		if base == "" || cause == "" {
			continue
		}
		q.BaseCondition = base
		q.Cause = cause
		return q
	}
	return q
}

// NormalizedKey returns the cache key for the query: the raw text lowercased
// with collapsed whitespace.
func (q ConditionQuery) NormalizedKey() string {
	return strings.Join(strings.Fields(strings.ToLower(q.Raw)), " ")
}

package analyze

import (
	"errors"
	"testing"
)

const validDraftJSON = `{
	"mechanisms": ["impaired insulin signaling"],
	"recommendations": [
		{
			"type": "activity",
			"name": "Running",
			"category": "beneficial",
			"mechanism": "improves insulin sensitivity in skeletal muscle",
			"summary": "regular running lowers fasting glucose",
			"evidence": [{"paperTitle": "Exercise and T2D", "paperId": "pmid:1"}]
		}
	]
}`

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"bare JSON", validDraftJSON, false},
		{"fenced JSON", "```json\n" + validDraftJSON + "\n```", false},
		{"fence without tag", "```\n" + validDraftJSON + "\n```", false},
		{"leading whitespace", "\n\n  " + validDraftJSON, false},
		{"empty", "", true},
		{"prose instead of JSON", "I could not find any recommendations.", true},
		{"truncated JSON", validDraftJSON[:40], true},
		{"array instead of object", `[1, 2, 3]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := ParseAnalysis(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, ErrMalformedOutput) {
					t.Errorf("error = %v, want ErrMalformedOutput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAnalysis: %v", err)
			}
			if len(draft.Mechanisms) != 1 || len(draft.Recommendations) != 1 {
				t.Errorf("draft = %+v, want 1 mechanism and 1 recommendation", draft)
			}
			if draft.Recommendations[0].Name != "Running" {
				t.Errorf("name = %q, want Running", draft.Recommendations[0].Name)
			}
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json tag", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence on one line", "```{\"a\": 1}```", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.in); got != tt.want {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

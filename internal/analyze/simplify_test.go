package analyze

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/pdiddy/evidence-engine/internal/gateway"
)

// scriptedGenerator returns queued responses in order, recording each request.
type scriptedGenerator struct {
	responses []string
	err       error
	requests  []gateway.GenerateRequest
}

func (g *scriptedGenerator) Generate(_ context.Context, req gateway.GenerateRequest) (string, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return "", g.err
	}
	if len(g.responses) == 0 {
		return "", errors.New("scripted generator exhausted")
	}
	resp := g.responses[0]
	g.responses = g.responses[1:]
	return resp, nil
}

func TestSimplifyReplacesTextAndCollectsTerms(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`[
			{"simplified": "Your body gets better at moving sugar out of the blood.", "technicalTerms": [{"term": "insulin sensitivity", "explanation": "how well the body responds to insulin"}]},
			{"simplified": "Swelling in the body goes down.", "technicalTerms": []}
		]`,
	}}
	s := NewSimplifier(gen, 0, nil)

	out := s.Simplify(context.Background(), []SimplifyInput{
		{Text: "Aerobic exercise increases insulin sensitivity via GLUT4 translocation."},
		{Text: "Omega-3 fatty acids attenuate systemic inflammation."},
	})

	if len(out) != 2 {
		t.Fatalf("got %d outputs, want 2", len(out))
	}
	if out[0].Simplified != "Your body gets better at moving sugar out of the blood." {
		t.Errorf("out[0].Simplified = %q", out[0].Simplified)
	}
	if out[0].Original != "Aerobic exercise increases insulin sensitivity via GLUT4 translocation." {
		t.Errorf("out[0].Original = %q", out[0].Original)
	}
	if len(out[0].TechnicalTerms) != 1 || out[0].TechnicalTerms[0].Term != "insulin sensitivity" {
		t.Errorf("out[0].TechnicalTerms = %+v", out[0].TechnicalTerms)
	}
	if out[1].Simplified != "Swelling in the body goes down." {
		t.Errorf("out[1].Simplified = %q", out[1].Simplified)
	}

	if len(gen.requests) != 1 {
		t.Fatalf("made %d model calls, want 1", len(gen.requests))
	}
	if !gen.requests[0].JSONMode {
		t.Error("request did not ask for JSON mode")
	}
}

func TestSimplifyRejectsEcho(t *testing.T) {
	original := "Aerobic exercise increases insulin sensitivity via GLUT4 translocation."
	tests := []struct {
		name     string
		returned string
	}{
		{"identical", original},
		{"case and whitespace only", "aerobic  exercise increases INSULIN sensitivity via glut4 translocation."},
		{"near identical", "Aerobic exercise increases insulin sensitivity via GLUT4 translocations."},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &scriptedGenerator{responses: []string{
				`[{"simplified": ` + strconv.Quote(tt.returned) + `, "technicalTerms": []}]`,
			}}
			s := NewSimplifier(gen, 0, nil)
			out := s.Simplify(context.Background(), []SimplifyInput{{Text: original}})
			if out[0].Simplified != original {
				t.Errorf("echo accepted: %q", out[0].Simplified)
			}
		})
	}
}

func TestSimplifyLengthMismatchFailsClosed(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`[{"simplified": "Sugar control improves with movement.", "technicalTerms": []}]`,
	}}
	s := NewSimplifier(gen, 0, nil)

	inputs := []SimplifyInput{
		{Text: "Aerobic exercise increases insulin sensitivity."},
		{Text: "Omega-3 fatty acids attenuate systemic inflammation."},
	}
	out := s.Simplify(context.Background(), inputs)

	for i := range inputs {
		if out[i].Simplified != inputs[i].Text {
			t.Errorf("out[%d].Simplified = %q, want original on length mismatch", i, out[i].Simplified)
		}
	}
}

func TestSimplifyFallsBackOnFailures(t *testing.T) {
	input := SimplifyInput{Text: "Aerobic exercise increases insulin sensitivity."}

	tests := []struct {
		name string
		gen  *scriptedGenerator
	}{
		{"model error", &scriptedGenerator{err: errors.New("backend down")}},
		{"unparseable response", &scriptedGenerator{responses: []string{"not json at all"}}},
		{"object instead of array", &scriptedGenerator{responses: []string{`{"simplified": "x"}`}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSimplifier(tt.gen, 0, nil)
			out := s.Simplify(context.Background(), []SimplifyInput{input})
			if len(out) != 1 {
				t.Fatalf("got %d outputs, want 1", len(out))
			}
			if out[0].Simplified != input.Text {
				t.Errorf("Simplified = %q, want original", out[0].Simplified)
			}
			if out[0].TechnicalTerms == nil {
				t.Error("TechnicalTerms is nil, want empty slice")
			}
		})
	}
}

func TestSimplifyEmptyBatchMakesNoCall(t *testing.T) {
	gen := &scriptedGenerator{}
	s := NewSimplifier(gen, 0, nil)
	out := s.Simplify(context.Background(), nil)
	if len(out) != 0 {
		t.Errorf("got %d outputs, want 0", len(out))
	}
	if len(gen.requests) != 0 {
		t.Errorf("made %d model calls, want 0", len(gen.requests))
	}
}

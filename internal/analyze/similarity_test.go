package analyze

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	// Case/whitespace variants fold to identical strings: similarity 1.0,
	// well above the echo ceiling.
	a := foldText("Aerobic exercise improves  insulin sensitivity")
	b := foldText("aerobic EXERCISE improves insulin sensitivity")
	if got := similarity(a, b); got != 1.0 {
		t.Errorf("folded variants similarity = %f, want 1.0", got)
	}

	// A full rewording lands well under the ceiling.
	orig := foldText("Aerobic exercise improves insulin sensitivity in skeletal muscle")
	reworded := foldText("Working out regularly helps your muscles respond better to insulin")
	if got := similarity(orig, reworded); got >= 0.9 {
		t.Errorf("reworded similarity = %f, want < 0.9", got)
	}

	// A near-echo with one word changed stays above it.
	nearEcho := foldText("Aerobic exercise improves insulin sensitivity in skeletal muscles")
	if got := similarity(orig, nearEcho); got < 0.9 {
		t.Errorf("near-echo similarity = %f, want >= 0.9", got)
	}
}

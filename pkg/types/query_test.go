// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestParseConditionQuery(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantBase  string
		wantCause string
	}{
		{"plain condition", "diabetes", "diabetes", ""},
		{"after connector", "headaches after concussion", "headaches", "concussion"},
		{"from connector", "fatigue from anemia", "fatigue", "anemia"},
		{"due to connector", "neuropathy due to diabetes", "neuropathy", "diabetes"},
		{"caused by connector", "insomnia caused by stress", "insomnia", "stress"},
		{"following connector", "dizziness following surgery", "dizziness", "surgery"},
		{"first connector wins", "pain after falls from ladders", "pain", "falls from ladders"},
		{"case insensitive", "Headaches AFTER Concussion", "Headaches", "Concussion"},
		{"connector inside word ignored", "aftershock syndrome", "aftershock syndrome", ""},
		{"leading connector ignored", "after effects", "after effects", ""},
		{"trailing connector ignored", "pain after ", "pain after", ""},
		{"whitespace collapsed", "  headaches   after   concussion  ", "headaches", "concussion"},
		{"empty input", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ParseConditionQuery(tt.raw)
			if q.Raw != tt.raw {
				t.Errorf("Raw = %q, want %q", q.Raw, tt.raw)
			}
			if q.BaseCondition != tt.wantBase {
				t.Errorf("BaseCondition = %q, want %q", q.BaseCondition, tt.wantBase)
			}
			if q.Cause != tt.wantCause {
				t.Errorf("Cause = %q, want %q", q.Cause, tt.wantCause)
			}
			if q.HasCause() != (tt.wantCause != "") {
				t.Errorf("HasCause() = %v", q.HasCause())
			}
		})
	}
}

func TestNormalizedKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Diabetes", "diabetes"},
		{"  Headaches   After  Concussion ", "headaches after concussion"},
		{"headaches after concussion", "headaches after concussion"},
	}

	for _, tt := range tests {
		q := ParseConditionQuery(tt.raw)
		if got := q.NormalizedKey(); got != tt.want {
			t.Errorf("NormalizedKey(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

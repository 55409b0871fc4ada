package models

import (
	"errors"
	"testing"
)

func TestNormalizeFillsSentinels(t *testing.T) {
	p := &CandidateProfile{FullName: "Jane Doe"}
	p.Normalize()

	if p.Residence != ResidenceNotSpecified {
		t.Errorf("residence = %q", p.Residence)
	}
	if len(p.Languages) != 1 || p.Languages[0] != LanguageNotSpecified {
		t.Errorf("languages = %v", p.Languages)
	}
	if p.Skills == nil || p.Experiences == nil || p.Education == nil || p.Certifications == nil || p.Projects == nil {
		t.Error("nil list survived Normalize")
	}
}

func TestNormalizeKeepsExistingValues(t *testing.T) {
	p := &CandidateProfile{
		Residence: "Lyon",
		Languages: []string{"French"},
	}
	p.Normalize()

	if p.Residence != "Lyon" || p.Languages[0] != "French" {
		t.Errorf("normalize overwrote real values: %+v", p)
	}
}

func TestEmptyProfile(t *testing.T) {
	p := EmptyProfile()
	if !p.IsEmpty() {
		t.Error("EmptyProfile should report empty")
	}
	if p.Residence != ResidenceNotSpecified {
		t.Errorf("residence = %q", p.Residence)
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		full  string
		first string
		last  string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jean-Pierre de la Fontaine", "Jean-Pierre", "de la Fontaine"},
		{"Prince", "Prince", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		p := &CandidateProfile{FullName: tt.full}
		first, last := p.SplitName()
		if first != tt.first || last != tt.last {
			t.Errorf("SplitName(%q) = %q/%q, want %q/%q", tt.full, first, last, tt.first, tt.last)
		}
	}
}

func TestPipelineErrorKindMatching(t *testing.T) {
	inner := errors.New("deadline exceeded")
	err := NewPipelineError(ErrModelTimeout, "model stalled", inner)

	if !errors.Is(err, NewPipelineError(ErrModelTimeout, "", nil)) {
		t.Error("kind matching failed")
	}
	if errors.Is(err, NewPipelineError(ErrMalformedOutput, "", nil)) {
		t.Error("matched wrong kind")
	}
	if !errors.Is(err, inner) {
		t.Error("cause not unwrapped")
	}
}

func TestFailedMatch(t *testing.T) {
	m := FailedMatch("model unreachable")
	if m.OverallScore != 0 || len(m.Domains) != 0 {
		t.Errorf("failed match not zeroed: %+v", m)
	}
	if m.Synthesis != "model unreachable" {
		t.Errorf("synthesis = %q", m.Synthesis)
	}
}

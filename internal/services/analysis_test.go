package services

import (
	"errors"
	"strings"
	"testing"
)

const validAnalysisJSON = `{
  "candidate_summary": {
    "education": "B.Sc. Computer Science",
    "experience": "3 years backend development",
    "core_competencies": "Go, PostgreSQL, distributed systems",
    "career_level": "mid-level"
  },
  "recommended_roles": [
    {"title": "Backend Engineer", "suitability_score": 88, "justification": "Strong Go background"},
    {"title": "Platform Engineer", "suitability_score": 71.5, "justification": "Infra projects"}
  ],
  "skill_gaps": {
    "critical_skills": ["Kubernetes"],
    "recommended_skills": ["Terraform"],
    "nice_to_have": ["Rust"],
    "missing_from_resume": ["CI/CD"]
  },
  "learning_advice": {
    "courses": ["CKA"],
    "development_tips": ["Contribute to open source"],
    "resume_improvements": ["Quantify impact"]
  }
}`

func TestParseAnalysis_Valid(t *testing.T) {
	a, err := ParseAnalysis(validAnalysisJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.CandidateSummary.CareerLevel != "mid-level" {
		t.Errorf("career_level = %q", a.CandidateSummary.CareerLevel)
	}
	if len(a.RecommendedRoles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(a.RecommendedRoles))
	}
	if a.RecommendedRoles[1].SuitabilityScore != 71.5 {
		t.Errorf("score = %v, want 71.5", a.RecommendedRoles[1].SuitabilityScore)
	}
	if got := a.SkillGaps.MissingFromResume; len(got) != 1 || got[0] != "CI/CD" {
		t.Errorf("missing_from_resume = %v", got)
	}
}

func TestParseAnalysis_StripsFencesAndProse(t *testing.T) {
	inputs := map[string]string{
		"fenced":      "```json\n" + validAnalysisJSON + "\n```",
		"bare fence":  "```\n" + validAnalysisJSON + "\n```",
		"prose":       "Here is the analysis:\n" + validAnalysisJSON + "\nGood luck!",
		"leading ws":  "\n\n   " + validAnalysisJSON,
		"fence+prose": "Sure.\n```json\n" + validAnalysisJSON + "\n```\nDone.",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseAnalysis(in); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseAnalysis_MissingFromResumeOptional(t *testing.T) {
	in := strings.Replace(validAnalysisJSON, `,
    "missing_from_resume": ["CI/CD"]`, "", 1)
	a, err := ParseAnalysis(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.SkillGaps.MissingFromResume != nil {
		t.Errorf("expected nil missing_from_resume, got %v", a.SkillGaps.MissingFromResume)
	}
}

func TestParseAnalysis_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     ValidationKind
		sentinel error
		field    string
	}{
		{
			name:     "no json",
			input:    "I cannot help with that.",
			kind:     KindMalformedJSON,
			sentinel: ErrMalformedAnalysis,
		},
		{
			name:     "truncated",
			input:    `{"candidate_summary": {"education": "x"}`,
			kind:     KindMalformedJSON,
			sentinel: ErrMalformedAnalysis,
		},
		{
			name:     "missing top-level key",
			input:    strings.Replace(validAnalysisJSON, `"learning_advice"`, `"advice"`, 1),
			kind:     KindMissingField,
			sentinel: ErrMissingField,
			field:    "learning_advice",
		},
		{
			name:     "null object",
			input:    strings.Replace(validAnalysisJSON, `"skill_gaps": {`, `"skill_gaps": null, "unused": {`, 1),
			kind:     KindMissingField,
			sentinel: ErrMissingField,
			field:    "skill_gaps",
		},
		{
			name:     "missing nested key",
			input:    strings.Replace(validAnalysisJSON, `"career_level"`, `"level"`, 1),
			kind:     KindMissingField,
			sentinel: ErrMissingField,
			field:    "candidate_summary.career_level",
		},
		{
			name:     "missing role key",
			input:    strings.Replace(validAnalysisJSON, `"suitability_score": 71.5`, `"score": 71.5`, 1),
			kind:     KindMissingField,
			sentinel: ErrMissingField,
			field:    "recommended_roles[1].suitability_score",
		},
		{
			name:     "roles not a list",
			input:    strings.Replace(validAnalysisJSON, `"recommended_roles": [`, `"recommended_roles": "none", "x": [`, 1),
			kind:     KindInvalidValue,
			sentinel: ErrInvalidValue,
			field:    "recommended_roles",
		},
		{
			name:     "score wrong type",
			input:    strings.Replace(validAnalysisJSON, `"suitability_score": 88`, `"suitability_score": "high"`, 1),
			kind:     KindInvalidValue,
			sentinel: ErrInvalidValue,
		},
		{
			name:     "score above range",
			input:    strings.Replace(validAnalysisJSON, `"suitability_score": 88`, `"suitability_score": 120`, 1),
			kind:     KindInvalidValue,
			sentinel: ErrInvalidValue,
			field:    "recommended_roles[0].suitability_score",
		},
		{
			name:     "score below range",
			input:    strings.Replace(validAnalysisJSON, `"suitability_score": 71.5`, `"suitability_score": -1`, 1),
			kind:     KindInvalidValue,
			sentinel: ErrInvalidValue,
			field:    "recommended_roles[1].suitability_score",
		},
		{
			name:     "empty summary",
			input:    strings.Replace(validAnalysisJSON, `"B.Sc. Computer Science"`, `"  "`, 1),
			kind:     KindInvalidValue,
			sentinel: ErrInvalidValue,
			field:    "candidate_summary.education",
		},
		{
			name: "no roles",
			input: strings.Replace(validAnalysisJSON,
				`{"title": "Backend Engineer", "suitability_score": 88, "justification": "Strong Go background"},
    {"title": "Platform Engineer", "suitability_score": 71.5, "justification": "Infra projects"}`, "", 1),
			kind:     KindInvalidValue,
			sentinel: ErrInvalidValue,
			field:    "recommended_roles",
		},
		{
			name:     "empty title",
			input:    strings.Replace(validAnalysisJSON, `"Backend Engineer"`, `""`, 1),
			kind:     KindInvalidValue,
			sentinel: ErrInvalidValue,
			field:    "recommended_roles[0].title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnalysis(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var verr *AnalysisValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *AnalysisValidationError, got %T: %v", err, err)
			}
			if verr.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", verr.Kind, tt.kind)
			}
			if tt.field != "" && verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
		})
	}
}

func TestAnalysisValidationError_IsOnlyOwnKind(t *testing.T) {
	err := missingField("skill_gaps")
	if errors.Is(err, ErrInvalidValue) || errors.Is(err, ErrMalformedAnalysis) {
		t.Error("missing field error matched another kind")
	}
	if !errors.Is(err, ErrMissingField) {
		t.Error("missing field error did not match ErrMissingField")
	}
	if got := err.Error(); got != "analysis missing_field: skill_gaps" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidateAnalysis_Nil(t *testing.T) {
	if err := ValidateAnalysis(nil); !errors.Is(err, ErrMalformedAnalysis) {
		t.Errorf("expected ErrMalformedAnalysis, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{`x {"a":{"b":2}} y`, `{"a":{"b":2}}`},
		{"no braces", ""},
		{"} reversed {", ""},
	}
	for _, tt := range tests {
		if got := extractJSON(tt.in); got != tt.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

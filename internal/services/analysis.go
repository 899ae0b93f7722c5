package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"alfredoptarigan/resume-advisor/internal/models"
)

type ValidationKind string

const (
	KindMalformedJSON ValidationKind = "malformed_json"
	KindMissingField  ValidationKind = "missing_field"
	KindInvalidValue  ValidationKind = "invalid_value"
)

var (
	ErrMalformedAnalysis = errors.New("malformed analysis json")
	ErrMissingField      = errors.New("missing analysis field")
	ErrInvalidValue      = errors.New("invalid analysis value")
)

// AnalysisValidationError describes why a generated analysis was rejected.
type AnalysisValidationError struct {
	Kind   ValidationKind
	Field  string
	Detail string
}

func (e *AnalysisValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("analysis %s: %s", e.Kind, e.Detail)
	}
	if e.Detail == "" {
		return fmt.Sprintf("analysis %s: %s", e.Kind, e.Field)
	}
	return fmt.Sprintf("analysis %s: %s: %s", e.Kind, e.Field, e.Detail)
}

func (e *AnalysisValidationError) Is(target error) bool {
	switch e.Kind {
	case KindMalformedJSON:
		return target == ErrMalformedAnalysis
	case KindMissingField:
		return target == ErrMissingField
	case KindInvalidValue:
		return target == ErrInvalidValue
	}
	return false
}

func missingField(field string) error {
	return &AnalysisValidationError{Kind: KindMissingField, Field: field}
}

func invalidValue(field, detail string) error {
	return &AnalysisValidationError{Kind: KindInvalidValue, Field: field, Detail: detail}
}

// Required keys per object, checked on the raw JSON so that absent fields
// are told apart from empty ones.
var requiredAnalysisKeys = map[string][]string{
	"":                  {"candidate_summary", "recommended_roles", "skill_gaps", "learning_advice"},
	"candidate_summary": {"education", "experience", "core_competencies", "career_level"},
	"skill_gaps":        {"critical_skills", "recommended_skills", "nice_to_have"},
	"learning_advice":   {"courses", "development_tips", "resume_improvements"},
}

var requiredRoleKeys = []string{"title", "suitability_score", "justification"}

// ParseAnalysis decodes a generated response into a CareerAnalysis and
// validates it. Markdown fences and text around the JSON object are ignored.
func ParseAnalysis(response string) (*models.CareerAnalysis, error) {
	jsonStr := extractJSON(response)
	if jsonStr == "" {
		return nil, &AnalysisValidationError{Kind: KindMalformedJSON, Detail: "no JSON object in response"}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, &AnalysisValidationError{Kind: KindMalformedJSON, Detail: err.Error()}
	}
	if err := checkRequiredKeys(raw); err != nil {
		return nil, err
	}

	var analysis models.CareerAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, invalidValue(typeErr.Field, fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
		}
		return nil, &AnalysisValidationError{Kind: KindMalformedJSON, Detail: err.Error()}
	}

	if err := ValidateAnalysis(&analysis); err != nil {
		return nil, err
	}

	return &analysis, nil
}

func checkRequiredKeys(root map[string]json.RawMessage) error {
	for _, key := range requiredAnalysisKeys[""] {
		if isNullOrAbsent(root, key) {
			return missingField(key)
		}
	}

	for _, object := range []string{"candidate_summary", "skill_gaps", "learning_advice"} {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(root[object], &fields); err != nil {
			return invalidValue(object, "expected an object")
		}
		for _, key := range requiredAnalysisKeys[object] {
			if isNullOrAbsent(fields, key) {
				return missingField(object + "." + key)
			}
		}
	}

	var roles []map[string]json.RawMessage
	if err := json.Unmarshal(root["recommended_roles"], &roles); err != nil {
		return invalidValue("recommended_roles", "expected a list of objects")
	}
	for i, role := range roles {
		for _, key := range requiredRoleKeys {
			if isNullOrAbsent(role, key) {
				return missingField(fmt.Sprintf("recommended_roles[%d].%s", i, key))
			}
		}
	}

	return nil
}

func isNullOrAbsent(m map[string]json.RawMessage, key string) bool {
	v, ok := m[key]
	return !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// ValidateAnalysis checks the value constraints of a decoded analysis.
func ValidateAnalysis(a *models.CareerAnalysis) error {
	if a == nil {
		return &AnalysisValidationError{Kind: KindMalformedJSON, Detail: "nil analysis"}
	}

	summary := []struct {
		field string
		value string
	}{
		{"candidate_summary.education", a.CandidateSummary.Education},
		{"candidate_summary.experience", a.CandidateSummary.Experience},
		{"candidate_summary.core_competencies", a.CandidateSummary.CoreCompetencies},
		{"candidate_summary.career_level", a.CandidateSummary.CareerLevel},
	}
	for _, s := range summary {
		if strings.TrimSpace(s.value) == "" {
			return invalidValue(s.field, "must not be empty")
		}
	}

	if len(a.RecommendedRoles) == 0 {
		return invalidValue("recommended_roles", "at least one role is required")
	}
	for i, role := range a.RecommendedRoles {
		if strings.TrimSpace(role.Title) == "" {
			return invalidValue(fmt.Sprintf("recommended_roles[%d].title", i), "must not be empty")
		}
		if role.SuitabilityScore < 0 || role.SuitabilityScore > 100 {
			return invalidValue(
				fmt.Sprintf("recommended_roles[%d].suitability_score", i),
				fmt.Sprintf("%v is outside 0-100", role.SuitabilityScore),
			)
		}
	}

	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}

	return text[start : end+1]
}

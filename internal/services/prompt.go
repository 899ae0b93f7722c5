package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/resume-advisor/internal/models"
)

const maxQueryChars = 2000

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// FormatSections renders the non-empty sections as "=== NAME ===" blocks in
// the fixed section order.
func FormatSections(sections models.SectionMap) string {
	var parts []string
	for _, s := range models.AllSections {
		text := strings.TrimSpace(sections[s])
		if text == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("=== %s ===\n%s", strings.ToUpper(string(s)), text))
	}
	return strings.Join(parts, "\n\n")
}

// FormatResume renders the resume for the prompt. Resumes without any
// recognized section are sent as their whole normalized text.
func FormatResume(resume *models.ParsedResume) string {
	if content := FormatSections(resume.Sections); content != "" {
		return content
	}
	return "=== RESUME ===\n" + strings.TrimSpace(resume.Text)
}

// BuildCareerAnalysisPrompt creates the prompt for the career analysis
func (pb *PromptBuilder) BuildCareerAnalysisPrompt(resume *models.ParsedResume, referenceContext string, roleCount int) string {
	if roleCount <= 0 {
		roleCount = 5
	}
	if strings.TrimSpace(referenceContext) == "" {
		referenceContext = "No reference material available."
	}

	return fmt.Sprintf(`You are an expert career advisor AI. Analyze the resume sections below and provide a detailed, personalized analysis in JSON format.

RESUME CONTENT:
%s

REFERENCE MATERIAL (role profiles and course catalogs, use when relevant):
%s

Instructions:
- Carefully read the candidate's skills, experience, and education.
- Recommend %d different job roles, prioritized by best fit for the candidate's background. Each role must be relevant to their unique skills and experience.
- For each recommended role, provide a suitability score (0-100) and a justification based on the resume.
- In the skill_gaps section, list:
    - critical_skills: essential skills missing for the top roles,
    - recommended_skills: skills that would improve the candidate's profile,
    - nice_to_have: additional skills that could be beneficial,
    - missing_from_resume: important skills or keywords relevant to the target roles that are not present in the resume and should be added.
- In learning_advice, suggest specific courses, development tips, and resume improvements tailored to the candidate.

Respond ONLY in this JSON format:
{
  "candidate_summary": {
    "education": "...",
    "experience": "...",
    "core_competencies": "...",
    "career_level": "fresher/junior/mid-level/senior"
  },
  "recommended_roles": [
    {
      "title": "...",
      "suitability_score": <0-100>,
      "justification": "..."
    }
  ],
  "skill_gaps": {
    "critical_skills": [],
    "recommended_skills": [],
    "nice_to_have": [],
    "missing_from_resume": []
  },
  "learning_advice": {
    "courses": [],
    "development_tips": [],
    "resume_improvements": []
  }
}`, FormatResume(resume), referenceContext, roleCount)
}

// BuildRetrievalQuery creates the query used to look up reference material.
// Skills and experience describe the candidate best; education, then the
// start of the whole text, are the fallbacks.
func (pb *PromptBuilder) BuildRetrievalQuery(resume *models.ParsedResume) string {
	sections := resume.Sections
	var parts []string
	for _, s := range []models.Section{models.SectionSkills, models.SectionExperience, models.SectionProjects} {
		if text := strings.TrimSpace(sections[s]); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		if text := strings.TrimSpace(sections[models.SectionEducation]); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		text := strings.TrimSpace(resume.Text)
		if len(text) > maxQueryChars {
			text = text[:maxQueryChars]
		}
		if text == "" {
			return ""
		}
		parts = append(parts, text)
	}
	return "Career roles and courses for a candidate with: " + strings.Join(parts, "\n")
}

// FormatReferenceContext renders retrieved reference chunks for the prompt.
func FormatReferenceContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Reference %d (%s, score: %.2f) ---\n%s",
			i+1, result.DocType, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}

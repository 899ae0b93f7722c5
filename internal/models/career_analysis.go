package models

type CandidateSummary struct {
	Education        string `json:"education"`
	Experience       string `json:"experience"`
	CoreCompetencies string `json:"core_competencies"`
	CareerLevel      string `json:"career_level"`
}

type RecommendedRole struct {
	Title            string  `json:"title"`
	SuitabilityScore float64 `json:"suitability_score"`
	Justification    string  `json:"justification"`
}

type SkillGaps struct {
	CriticalSkills    []string `json:"critical_skills"`
	RecommendedSkills []string `json:"recommended_skills"`
	NiceToHave        []string `json:"nice_to_have"`
	MissingFromResume []string `json:"missing_from_resume,omitempty"`
}

type LearningAdvice struct {
	Courses            []string `json:"courses"`
	DevelopmentTips    []string `json:"development_tips"`
	ResumeImprovements []string `json:"resume_improvements"`
}

// CareerAnalysis is the structured response expected from the text model.
type CareerAnalysis struct {
	CandidateSummary CandidateSummary  `json:"candidate_summary"`
	RecommendedRoles []RecommendedRole `json:"recommended_roles"`
	SkillGaps        SkillGaps         `json:"skill_gaps"`
	LearningAdvice   LearningAdvice    `json:"learning_advice"`
}

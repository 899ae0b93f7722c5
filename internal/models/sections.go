package models

// Section names one of the fixed resume sections.
type Section string

const (
	SectionEducation      Section = "education"
	SectionExperience     Section = "experience"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
)

// AllSections lists every section in prompt order.
var AllSections = []Section{
	SectionEducation,
	SectionExperience,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
}

// SectionMap maps every section to its accumulated text. A map built by
// NewSectionMap always carries all five keys.
type SectionMap map[Section]string

func NewSectionMap() SectionMap {
	m := make(SectionMap, len(AllSections))
	for _, s := range AllSections {
		m[s] = ""
	}
	return m
}

// IsEmpty reports whether no section holds any text.
func (m SectionMap) IsEmpty() bool {
	for _, v := range m {
		if v != "" {
			return false
		}
	}
	return true
}

// ParsedResume is the normalized text of a resume and its sections.
type ParsedResume struct {
	Text      string     `json:"text"`
	Sections  SectionMap `json:"sections"`
	PageCount int        `json:"page_count,omitempty"`
}

package services

import (
	"strings"

	"alfredoptarigan/resume-advisor/internal/models"
)

type sectionRule struct {
	section  models.Section
	keywords []string
}

// Order matters: the first rule whose keyword appears in a line wins, so a
// "Projects and Skills" header belongs to projects.
var sectionRules = []sectionRule{
	{section: models.SectionEducation, keywords: []string{"education"}},
	{section: models.SectionExperience, keywords: []string{"experience", "work history"}},
	{section: models.SectionProjects, keywords: []string{"project"}},
	{section: models.SectionSkills, keywords: []string{"skill"}},
	{section: models.SectionCertifications, keywords: []string{"certification", "course"}},
}

// ClassifyHeader reports which section a line opens, if any.
func ClassifyHeader(line string) (models.Section, bool) {
	l := strings.ToLower(strings.TrimSpace(line))
	for _, rule := range sectionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(l, kw) {
				return rule.section, true
			}
		}
	}
	return "", false
}

// SegmentSections splits resume text into the fixed sections in one pass.
//
// A line containing a section keyword is a header: it closes the section
// being collected and opens its own, and is never stored. Other non-blank
// lines go to the open section; lines before the first header are dropped.
// When a section is seen more than once its later text is appended to the
// earlier text on a new line.
func SegmentSections(text string) models.SectionMap {
	sections := models.NewSectionMap()

	var current models.Section
	var buffer []string

	flush := func() {
		if current == "" || len(buffer) == 0 {
			return
		}
		chunk := strings.TrimSpace(strings.Join(buffer, "\n"))
		if chunk == "" {
			return
		}
		if prev := sections[current]; prev != "" {
			sections[current] = prev + "\n" + chunk
		} else {
			sections[current] = chunk
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if header, ok := ClassifyHeader(line); ok {
			flush()
			current = header
			buffer = buffer[:0]
			continue
		}

		if current != "" && strings.TrimSpace(line) != "" {
			buffer = append(buffer, line)
		}
	}
	flush()

	return sections
}

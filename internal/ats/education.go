package ats

import (
	"strings"

	"atscan/internal/types"
)

// educationReport carries the education category score and its signals.
type educationReport struct {
	Score        int
	Present      bool
	Degrees      []string
	Institutions []string
	Certs        []string
}

// Education scoring bands.
const (
	eduBasePresent   = 40
	eduDegreeBonus   = 20
	eduInstBonus     = 10
	eduCertBonusOne  = 20
	eduCertBonusMany = 30
)

// analyzeEducation scores the education category from degree words and
// institution keywords in the education section, with a bonus for
// recognized certifications anywhere in the resume. An absent section
// scores 0 regardless of certifications.
func analyzeEducation(scan sectionScan, resumeText string, dicts *Dictionaries) educationReport {
	report := educationReport{
		Certs: findSkills(resumeText, dicts.Certifications),
	}

	section := scan.Sections[types.SectionEducation]
	if !section.Present || strings.TrimSpace(section.Content) == "" {
		return report
	}
	report.Present = true

	normContent := normalizeText(section.Content)
	for _, word := range dicts.DegreeWords {
		if containsPhrase(normContent, word) {
			report.Degrees = append(report.Degrees, word)
		}
	}
	for _, word := range dicts.InstitutionKeywords {
		if containsPhrase(normContent, word) {
			report.Institutions = append(report.Institutions, word)
		}
	}

	score := eduBasePresent
	if len(report.Degrees) > 0 {
		score += eduDegreeBonus
	}
	if len(report.Institutions) > 0 {
		score += eduInstBonus
	}
	switch {
	case len(report.Certs) >= 2:
		score += eduCertBonusMany
	case len(report.Certs) == 1:
		score += eduCertBonusOne
	}
	report.Score = clampScore(score)
	return report
}

package ats

import (
	"strings"

	"atscan/internal/types"
)

// skillsReport is the skills classifier's output.
type skillsReport struct {
	Skills             types.SkillSet
	Required           types.SkillSet
	JobMatchPercentage int
	Score              int
	Industry           string
}

// industrySignals maps job title words to technical dictionary partitions.
var industrySignals = map[string]string{
	"engineer":   "technology",
	"developer":  "technology",
	"software":   "technology",
	"data":       "technology",
	"devops":     "technology",
	"programmer": "technology",
	"architect":  "technology",
	"financial":  "finance",
	"finance":    "finance",
	"accountant": "finance",
	"analyst":    "finance",
	"banker":     "finance",
	"auditor":    "finance",
	"nurse":      "healthcare",
	"medical":    "healthcare",
	"clinical":   "healthcare",
	"physician":  "healthcare",
	"healthcare": "healthcare",
	"therapist":  "healthcare",
	"marketing":  "marketing",
	"brand":      "marketing",
	"seo":        "marketing",
	"content":    "marketing",
	"sales":      "sales",
	"account":    "sales",
}

// detectIndustry infers a technical dictionary partition from job title
// words. An empty or unrecognized title selects no extra partition.
func detectIndustry(jobTitle string) string {
	for _, word := range tokenize(jobTitle) {
		if industry, ok := industrySignals[word]; ok {
			return industry
		}
	}
	return ""
}

// classifySkills extracts technical and soft skills from the resume and,
// when a job description is supplied, the required skill set and the overlap
// percentage. Matching is phrase containment with edit distance tolerance of
// one for longer single words.
func classifySkills(resumeText, jobTitle, jobDescription string, cfg Config, dicts *Dictionaries) skillsReport {
	industry := detectIndustry(jobTitle)

	technical := dicts.TechnicalSkills["general"]
	if industry != "" {
		technical = append(append([]string{}, technical...), dicts.TechnicalSkills[industry]...)
	}

	report := skillsReport{
		Industry: industry,
		Skills: types.SkillSet{
			Technical: findSkills(resumeText, technical),
			Soft:      findSkills(resumeText, dicts.SoftSkills),
		},
	}

	if strings.TrimSpace(jobDescription) == "" {
		report.Score = cfg.NeutralSkillsScore
		return report
	}

	report.Required = types.SkillSet{
		Technical: findSkills(jobDescription, technical),
		Soft:      findSkills(jobDescription, dicts.SoftSkills),
	}
	report.JobMatchPercentage = overlapPercentage(report.Skills, report.Required)
	report.Score = report.JobMatchPercentage
	return report
}

// findSkills returns the vocabulary entries present in the text, in
// vocabulary order. Single words of five or more characters also match with
// one character of misspelling tolerance.
func findSkills(text string, vocabulary []string) []string {
	normText := normalizeText(text)
	var tokens []string

	found := make([]string, 0)
	for _, skill := range vocabulary {
		if containsPhrase(normText, skill) {
			found = append(found, skill)
			continue
		}
		if strings.Contains(skill, " ") || len(skill) < 5 {
			continue
		}
		if tokens == nil {
			tokens = tokenize(text)
		}
		for _, t := range tokens {
			if editDistanceAtMostOne(t, skill) {
				found = append(found, skill)
				break
			}
		}
	}
	return found
}

// overlapPercentage computes |found ∩ required| / |required| over the union
// of technical and soft skills, as a rounded percentage. Zero when nothing
// is required.
func overlapPercentage(found, required types.SkillSet) int {
	requiredSet := make(map[string]struct{})
	for _, s := range required.Technical {
		requiredSet[s] = struct{}{}
	}
	for _, s := range required.Soft {
		requiredSet[s] = struct{}{}
	}
	if len(requiredSet) == 0 {
		return 0
	}

	matched := 0
	seen := make(map[string]struct{})
	for _, s := range append(append([]string{}, found.Technical...), found.Soft...) {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := requiredSet[s]; ok {
			matched++
		}
	}
	return roundHalfUp(float64(matched) / float64(len(requiredSet)) * 100)
}

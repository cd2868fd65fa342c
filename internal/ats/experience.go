package ats

import (
	"regexp"
	"strings"

	"atscan/internal/types"
)

var (
	yearRe       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	quantifiedRe = regexp.MustCompile(`\d|%|\$|€|£`)
)

// experienceReport carries the experience category score and its signals.
type experienceReport struct {
	Score           int
	Present         bool
	ReverseChron    bool
	EntryLines      int
	ActionVerbLines int
	QuantifiedLines int
	VerbDensity     float64
	QuantifiedRatio float64
}

// analyzeExperience scores the experience section on three signals with the
// configured sub-weights: reverse-chronological ordering, action verb usage
// per entry line, and quantified achievements per entry line. An absent
// section scores 0; the rule table raises the missing-experience issue.
func analyzeExperience(section *types.Section, cfg Config, dicts *Dictionaries) experienceReport {
	report := experienceReport{}
	if section == nil || !section.Present || strings.TrimSpace(section.Content) == "" {
		return report
	}
	report.Present = true

	verbStems := make(map[string]struct{}, len(dicts.ActionVerbs))
	for _, v := range dicts.ActionVerbs {
		verbStems[stem(v)] = struct{}{}
	}

	var firstYears []int
	for _, line := range strings.Split(section.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if y := yearRe.FindString(line); y != "" {
			firstYears = append(firstYears, yearValue(y))
		}
		if !isEntryLine(line) {
			continue
		}
		report.EntryLines++
		if startsWithActionVerb(line, verbStems) {
			report.ActionVerbLines++
		}
		if quantifiedRe.MatchString(line) {
			report.QuantifiedLines++
		}
	}

	report.ReverseChron = isReverseChronological(firstYears)
	if report.EntryLines > 0 {
		report.VerbDensity = float64(report.ActionVerbLines) / float64(report.EntryLines)
		report.QuantifiedRatio = float64(report.QuantifiedLines) / float64(report.EntryLines)
	}

	ordering := 0.0
	if report.ReverseChron {
		ordering = 1.0
	}
	score := cfg.ExperienceOrderingWeight*ordering +
		cfg.ExperienceVerbWeight*report.VerbDensity +
		cfg.ExperienceQuantifiedWeight*report.QuantifiedRatio
	report.Score = clampScore(roundHalfUp(score * 100))
	return report
}

// isEntryLine picks the lines scored for verbs and quantification: bullet
// lines when the section uses bullets at all, otherwise every content line.
func isEntryLine(line string) bool {
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	// Date and title lines are short; description lines carry the verbs.
	return len(strings.Fields(line)) >= 4
}

// startsWithActionVerb checks the first three words against the verb list,
// stem-equivalently, so both "Led" and "Leading" count.
func startsWithActionVerb(line string, verbStems map[string]struct{}) bool {
	tokens := tokenize(line)
	limit := 3
	if len(tokens) < limit {
		limit = len(tokens)
	}
	for _, t := range tokens[:limit] {
		if _, ok := verbStems[stem(t)]; ok {
			return true
		}
	}
	return false
}

// isReverseChronological checks that the first year seen on each dated line
// never increases down the section. Fewer than two dated lines cannot
// violate ordering.
func isReverseChronological(firstYears []int) bool {
	for i := 1; i < len(firstYears); i++ {
		if firstYears[i] > firstYears[i-1] {
			return false
		}
	}
	return true
}

func yearValue(s string) int {
	v := 0
	for _, r := range s {
		v = v*10 + int(r-'0')
	}
	return v
}

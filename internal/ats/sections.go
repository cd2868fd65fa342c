package ats

import (
	"strings"

	"atscan/internal/types"
)

// sectionScan is the section detector's output consumed by the downstream
// analyzers and the rule table.
type sectionScan struct {
	Sections     map[types.SectionName]*types.Section
	HeadingCount int
	// PreambleLines counts non-empty lines before the first detected
	// heading. A few are normal (name, contact block); many indicate
	// structure an ATS parser will misread.
	PreambleLines int
	Preamble      string
	Duplicates    []types.SectionName
}

// maxHeadingWords and maxHeadingLen bound what a heading line can look like.
const (
	maxHeadingWords = 5
	maxHeadingLen   = 60
)

// detectSections segments the resume line by line using the heading
// vocabulary. Content of a section spans from its heading to the next
// heading or end of document. When two headings map to the same canonical
// name the later one wins and the duplicate is recorded.
func detectSections(lines []string, dicts *Dictionaries) sectionScan {
	scan := sectionScan{
		Sections: make(map[types.SectionName]*types.Section, len(types.CanonicalSections)),
	}
	for _, name := range types.CanonicalSections {
		scan.Sections[name] = &types.Section{Issues: []string{}}
	}

	type headingHit struct {
		name types.SectionName
		line int
	}
	var hits []headingHit
	for i, line := range lines {
		if name, ok := matchHeading(line, dicts); ok {
			hits = append(hits, headingHit{name: name, line: i})
		}
	}
	scan.HeadingCount = len(hits)

	firstHeading := len(lines)
	if len(hits) > 0 {
		firstHeading = hits[0].line
	}
	var preamble []string
	for _, line := range lines[:firstHeading] {
		if line != "" {
			preamble = append(preamble, line)
		}
	}
	scan.PreambleLines = len(preamble)
	scan.Preamble = strings.Join(preamble, "\n")

	for i, hit := range hits {
		end := len(lines)
		if i+1 < len(hits) {
			end = hits[i+1].line
		}
		content := strings.TrimSpace(strings.Join(lines[hit.line+1:end], "\n"))

		sec := scan.Sections[hit.name]
		if sec.Present {
			scan.Duplicates = append(scan.Duplicates, hit.name)
		}
		sec.Present = true
		sec.Content = content
	}

	// Contact details usually sit above the first heading rather than
	// under one; treat a preamble carrying an email or phone as the
	// contact section.
	contact := scan.Sections[types.SectionContact]
	if !contact.Present && scan.Preamble != "" {
		if emailRe.MatchString(scan.Preamble) || phoneRe.MatchString(scan.Preamble) {
			contact.Present = true
			contact.Content = scan.Preamble
		}
	}

	return scan
}

// matchHeading reports whether a line is a section heading and which
// canonical section it names. A heading is a short line whose text, minus a
// trailing colon, equals one of the known synonyms.
func matchHeading(line string, dicts *Dictionaries) (types.SectionName, bool) {
	if line == "" || len(line) > maxHeadingLen {
		return "", false
	}
	cleaned := strings.TrimSpace(strings.TrimSuffix(line, ":"))
	if cleaned == "" || len(strings.Fields(cleaned)) > maxHeadingWords {
		return "", false
	}
	if !looksLikeHeading(line, cleaned) {
		return "", false
	}
	lowered := strings.ToLower(cleaned)
	for _, name := range types.CanonicalSections {
		for _, synonym := range dicts.HeadingSynonyms[name] {
			if lowered == synonym {
				return name, true
			}
		}
	}
	return "", false
}

// looksLikeHeading applies the formatting heuristics: a trailing colon, all
// caps, or title case.
func looksLikeHeading(line, cleaned string) bool {
	if strings.HasSuffix(line, ":") {
		return true
	}
	if cleaned == strings.ToUpper(cleaned) {
		return true
	}
	for _, word := range strings.Fields(cleaned) {
		first := rune(word[0])
		if first >= 'a' && first <= 'z' {
			return false
		}
	}
	return true
}

// hasResumeIndicators reports whether the text contains any of the phrases
// that mark a document as resume-like even when heading detection finds
// little structure.
func hasResumeIndicators(normText string, dicts *Dictionaries) bool {
	for _, phrase := range dicts.ResumeIndicators {
		if containsPhrase(normText, phrase) {
			return true
		}
	}
	return false
}

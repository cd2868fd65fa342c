package ats

import (
	"sort"
	"strings"

	"atscan/internal/types"
)

// keywordReport is the keyword matcher's output.
type keywordReport struct {
	Score   int
	Found   []types.Keyword
	Missing []types.Keyword
	Total   int
	// Overstuffed lists keywords repeated in the resume beyond the
	// frequency ceiling.
	Overstuffed []string
}

// positionalBump is added to a keyword's ranking score when it first occurs
// in the leading quarter of the job description.
const positionalBump = 2

// matchKeywords extracts ranked keywords from the job description and marks
// each present or missing in the resume. Without a job description there is
// no requirement set to fail against, so the score is the configured neutral
// baseline and both keyword lists stay empty.
func matchKeywords(resumeText, jobDescription string, cfg Config, dicts *Dictionaries) keywordReport {
	report := keywordReport{
		Found:   []types.Keyword{},
		Missing: []types.Keyword{},
	}
	if strings.TrimSpace(jobDescription) == "" {
		report.Score = cfg.NeutralKeywordScore
		return report
	}

	keywords := extractJobKeywords(jobDescription, cfg, dicts)
	report.Total = len(keywords)
	if report.Total == 0 {
		report.Score = cfg.NeutralKeywordScore
		return report
	}

	resumeFreq := stemFrequencies(resumeText, dicts)

	totalWeight, foundWeight := 0, 0
	for _, kw := range keywords {
		totalWeight += kw.Importance.Weight()
		freq := resumeFreq[stemPhrase(kw.Text)]
		kw.Frequency = freq
		kw.Present = freq > 0
		if kw.Present {
			foundWeight += kw.Importance.Weight()
			if freq > cfg.KeywordFrequencyCeiling {
				report.Overstuffed = append(report.Overstuffed, kw.Text)
			}
			report.Found = append(report.Found, kw)
		} else {
			report.Missing = append(report.Missing, kw)
		}
	}

	report.Score = roundHalfUp(float64(foundWeight) / float64(totalWeight) * 100)
	return report
}

// extractJobKeywords tokenizes the job description, ranks unigrams and
// bigrams by frequency with a positional bump, keeps the top candidates and
// tiers them into thirds: top third high, middle third medium, remainder low.
func extractJobKeywords(jobDescription string, cfg Config, dicts *Dictionaries) []types.Keyword {
	stop := dicts.stopWordSet()
	tokens := contentTokens(jobDescription, stop)
	if len(tokens) == 0 {
		return nil
	}
	firstQuarter := len(tokens) / 4

	type candidate struct {
		text     string
		freq     int
		firstPos int
	}
	seen := make(map[string]*candidate)
	note := func(text string, pos int) {
		if c, ok := seen[text]; ok {
			c.freq++
			return
		}
		seen[text] = &candidate{text: text, freq: 1, firstPos: pos}
	}
	for i, t := range tokens {
		note(t, i)
	}
	for i, bg := range bigrams(tokens) {
		note(bg, i)
	}

	ranked := make([]*candidate, 0, len(seen))
	for _, c := range seen {
		// Bigrams must repeat or lead the document to outrank their
		// component words.
		if strings.Contains(c.text, " ") && c.freq < 2 && c.firstPos > firstQuarter {
			continue
		}
		ranked = append(ranked, c)
	}
	rankScore := func(c *candidate) int {
		s := c.freq
		if c.firstPos <= firstQuarter {
			s += positionalBump
		}
		return s
	}
	sort.Slice(ranked, func(i, j int) bool {
		si, sj := rankScore(ranked[i]), rankScore(ranked[j])
		if si != sj {
			return si > sj
		}
		return ranked[i].text < ranked[j].text
	})
	if len(ranked) > cfg.MaxJobKeywords {
		ranked = ranked[:cfg.MaxJobKeywords]
	}

	third := (len(ranked) + 2) / 3
	keywords := make([]types.Keyword, len(ranked))
	for i, c := range ranked {
		importance := types.ImportanceLow
		switch {
		case i < third:
			importance = types.ImportanceHigh
		case i < 2*third:
			importance = types.ImportanceMedium
		}
		keywords[i] = types.Keyword{Text: c.text, Importance: importance}
	}
	return keywords
}

// stemFrequencies builds a stem-equivalent frequency table of the resume's
// unigrams and bigrams.
func stemFrequencies(resumeText string, dicts *Dictionaries) map[string]int {
	stop := dicts.stopWordSet()
	tokens := contentTokens(resumeText, stop)
	freq := make(map[string]int, len(tokens)*2)
	for _, t := range tokens {
		freq[stem(t)]++
	}
	for _, bg := range bigrams(tokens) {
		freq[stemPhrase(bg)]++
	}
	return freq
}

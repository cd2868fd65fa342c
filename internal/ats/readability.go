package ats

import (
	"regexp"
	"strings"
)

// readabilityReport carries the readability category score and its inputs.
type readabilityReport struct {
	Score          int
	AvgSentenceLen float64
	GrammarIssues  int
}

var (
	sentenceSplitRe   = regexp.MustCompile(`[.!?]+(\s|$)`)
	noSpaceAfterComma = regexp.MustCompile(`,[A-Za-z]`)
	doubleSpaceRe     = regexp.MustCompile(`\S {2,}\S`)
)

// Readability banding.
const (
	readabilityBase        = 70
	bonusWordCountInBand   = 20
	bonusWordCountNearBand = 10
	bonusSentenceIdeal     = 10
	bonusSentenceOK        = 5
	deductPerGrammarIssue  = 5
	maxGrammarDeduction    = 15
)

// analyzeReadability scores how easily the text reads: word count relative
// to the configured band, average sentence length, and basic mechanical
// signals (double spaces, missing space after a comma).
func analyzeReadability(resumeText string, cfg Config) readabilityReport {
	report := readabilityReport{}
	words := countWords(resumeText)

	score := readabilityBase

	nearMin := cfg.MinWordCount / 2
	nearMax := cfg.MaxWordCount + cfg.MaxWordCount/2
	switch {
	case words >= cfg.MinWordCount && words <= cfg.MaxWordCount:
		score += bonusWordCountInBand
	case words >= nearMin && words <= nearMax:
		score += bonusWordCountNearBand
	}

	report.AvgSentenceLen = averageSentenceLength(resumeText)
	switch {
	case report.AvgSentenceLen >= 12 && report.AvgSentenceLen <= 25:
		score += bonusSentenceIdeal
	case report.AvgSentenceLen >= 8 && report.AvgSentenceLen < 12,
		report.AvgSentenceLen > 25 && report.AvgSentenceLen <= 35:
		score += bonusSentenceOK
	}

	report.GrammarIssues = len(doubleSpaceRe.FindAllString(resumeText, -1)) +
		len(noSpaceAfterComma.FindAllString(resumeText, -1))
	deduction := report.GrammarIssues * deductPerGrammarIssue
	if deduction > maxGrammarDeduction {
		deduction = maxGrammarDeduction
	}
	score -= deduction

	report.Score = clampScore(score)
	return report
}

// averageSentenceLength is the mean word count across sentences with at
// least two words. Zero when no sentence boundary is found.
func averageSentenceLength(text string) float64 {
	sentences := sentenceSplitRe.Split(text, -1)
	total, count := 0, 0
	for _, s := range sentences {
		n := len(strings.Fields(s))
		if n < 2 {
			continue
		}
		total += n
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

package ats

import (
	"regexp"
	"strings"

	"atscan/internal/types"
)

// Contact field patterns.
var (
	emailRe    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe    = regexp.MustCompile(`(\+?\d{1,2}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com/in/[A-Za-z0-9_-]+`)
)

var bulletPrefixes = []string{"-", "•", "*", "·", "▪", "‣"}

// formatReport carries the format analyzer's score and the structural
// signals the rule table triggers on.
type formatReport struct {
	Score           int
	HasEmail        bool
	HasPhone        bool
	HasLinkedIn     bool
	MissingSections []types.SectionName
	DuplicateCount  int
	PreambleAnomaly bool
	BiasTerms       []string
	HasBullets      bool
	WordCount       int

	WordCountOutOfBand bool
	WordBandMin        int
	WordBandMax        int
}

// Format deductions from the base score of 100.
const (
	deductMissingEmail    = 20
	deductMissingPhone    = 10
	deductMissingSection  = 5
	deductPreambleAnomaly = 10
	deductDuplicate       = 5
	deductNoBullets       = 10
	deductWordCountMax    = 20

	// More than this many non-empty lines before the first heading is a
	// structural anomaly; a name and contact block is expected there.
	preambleLineTolerance = 3
)

// analyzeFormat inspects the resume's structural signals and produces the
// formatting category score. Bias fields are reported but never scored.
func analyzeFormat(resumeText string, lines []string, scan sectionScan, cfg Config, dicts *Dictionaries) formatReport {
	report := formatReport{
		HasEmail:    emailRe.MatchString(resumeText),
		HasPhone:    phoneRe.MatchString(resumeText),
		HasLinkedIn: linkedinRe.MatchString(resumeText),
		WordCount:   countWords(resumeText),
		WordBandMin: cfg.MinWordCount,
		WordBandMax: cfg.MaxWordCount,
	}
	report.WordCountOutOfBand = report.WordCount < cfg.MinWordCount || report.WordCount > cfg.MaxWordCount

	for _, name := range types.CanonicalSections {
		if !scan.Sections[name].Present {
			report.MissingSections = append(report.MissingSections, name)
		}
	}
	report.DuplicateCount = len(scan.Duplicates)
	report.PreambleAnomaly = scan.PreambleLines > preambleLineTolerance
	report.HasBullets = hasBulletLines(lines)
	report.BiasTerms = findBiasTerms(resumeText, dicts)

	score := 100
	if !report.HasEmail {
		score -= deductMissingEmail
	}
	if !report.HasPhone {
		score -= deductMissingPhone
	}
	score -= deductMissingSection * len(report.MissingSections)
	if report.PreambleAnomaly {
		score -= deductPreambleAnomaly
	}
	dup := deductDuplicate * report.DuplicateCount
	if dup > 2*deductDuplicate {
		dup = 2 * deductDuplicate
	}
	score -= dup
	if !report.HasBullets {
		score -= deductNoBullets
	}
	score -= wordCountDeduction(report.WordCount, cfg)

	if score < 0 {
		score = 0
	}
	report.Score = score
	return report
}

// wordCountDeduction scales with how far the word count falls outside the
// configured band, capped at deductWordCountMax.
func wordCountDeduction(words int, cfg Config) int {
	var ratio float64
	switch {
	case words < cfg.MinWordCount:
		ratio = float64(cfg.MinWordCount-words) / float64(cfg.MinWordCount)
	case words > cfg.MaxWordCount:
		ratio = float64(words-cfg.MaxWordCount) / float64(cfg.MaxWordCount)
	default:
		return 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return roundHalfUp(ratio * deductWordCountMax)
}

func hasBulletLines(lines []string) bool {
	for _, line := range lines {
		for _, prefix := range bulletPrefixes {
			if strings.HasPrefix(line, prefix+" ") || strings.HasPrefix(line, prefix+"\t") {
				return true
			}
		}
	}
	return false
}

// findBiasTerms returns the personally-identifying field labels present in
// the text, in vocabulary order.
func findBiasTerms(resumeText string, dicts *Dictionaries) []string {
	normText := normalizeText(resumeText)
	var found []string
	for _, term := range dicts.BiasTerms {
		if containsPhrase(normText, term) {
			found = append(found, term)
		}
	}
	return found
}

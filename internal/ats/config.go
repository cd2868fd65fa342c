package ats

import "fmt"

// Category weights for the overall score. They sum to exactly 1.0 and are
// not config tunables; adjustable knobs live in Config.
const (
	WeightKeywords    = 0.40
	WeightFormatting  = 0.20
	WeightExperience  = 0.20
	WeightEducation   = 0.10
	WeightReadability = 0.10
)

// Config holds the analysis tunables. Zero values are not usable; start from
// DefaultConfig and override selectively.
type Config struct {
	// NeutralKeywordScore is the keyword category score when no job
	// description is supplied.
	NeutralKeywordScore int `mapstructure:"neutralKeywordScore"`

	// NeutralSkillsScore is the skills match value when no job description
	// is supplied.
	NeutralSkillsScore int `mapstructure:"neutralSkillsScore"`

	// DegradedScore is the category score assigned when an analyzer
	// panics and the run continues with a recovered default.
	DegradedScore int `mapstructure:"degradedScore"`

	// KeywordFrequencyCeiling caps the per-keyword resume frequency that
	// earns credit; occurrences beyond it suggest stuffing.
	KeywordFrequencyCeiling int `mapstructure:"keywordFrequencyCeiling"`

	// MaxJobKeywords bounds how many ranked keywords are extracted from a
	// job description.
	MaxJobKeywords int `mapstructure:"maxJobKeywords"`

	// MinHeadings is the not-a-resume threshold: documents with fewer
	// detected headings and no resume-indicative phrases are rejected.
	MinHeadings int `mapstructure:"minHeadings"`

	// Word count band considered ATS-friendly.
	MinWordCount int `mapstructure:"minWordCount"`
	MaxWordCount int `mapstructure:"maxWordCount"`

	// MaxJobDescriptionLen bounds the accepted job description input.
	MaxJobDescriptionLen int `mapstructure:"maxJobDescriptionLen"`

	// Experience sub-weights. Must sum to 1.0.
	ExperienceOrderingWeight   float64 `mapstructure:"experienceOrderingWeight"`
	ExperienceVerbWeight       float64 `mapstructure:"experienceVerbWeight"`
	ExperienceQuantifiedWeight float64 `mapstructure:"experienceQuantifiedWeight"`
}

// DefaultConfig returns the documented default tunables.
func DefaultConfig() Config {
	return Config{
		NeutralKeywordScore:        70,
		NeutralSkillsScore:         60,
		DegradedScore:              50,
		KeywordFrequencyCeiling:    6,
		MaxJobKeywords:             20,
		MinHeadings:                2,
		MinWordCount:               300,
		MaxWordCount:               800,
		MaxJobDescriptionLen:       5000,
		ExperienceOrderingWeight:   0.30,
		ExperienceVerbWeight:       0.30,
		ExperienceQuantifiedWeight: 0.40,
	}
}

// Validate checks the tunables for internal consistency.
func (c Config) Validate() error {
	inRange := func(name string, v int) error {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be in [0,100], got %d", name, v)
		}
		return nil
	}
	if err := inRange("neutralKeywordScore", c.NeutralKeywordScore); err != nil {
		return err
	}
	if err := inRange("neutralSkillsScore", c.NeutralSkillsScore); err != nil {
		return err
	}
	if err := inRange("degradedScore", c.DegradedScore); err != nil {
		return err
	}
	if c.KeywordFrequencyCeiling < 1 {
		return fmt.Errorf("keywordFrequencyCeiling must be at least 1, got %d", c.KeywordFrequencyCeiling)
	}
	if c.MaxJobKeywords < 1 {
		return fmt.Errorf("maxJobKeywords must be at least 1, got %d", c.MaxJobKeywords)
	}
	if c.MinHeadings < 1 {
		return fmt.Errorf("minHeadings must be at least 1, got %d", c.MinHeadings)
	}
	if c.MinWordCount < 0 || c.MaxWordCount <= c.MinWordCount {
		return fmt.Errorf("word count band [%d,%d] is invalid", c.MinWordCount, c.MaxWordCount)
	}
	if c.MaxJobDescriptionLen < 1 {
		return fmt.Errorf("maxJobDescriptionLen must be positive, got %d", c.MaxJobDescriptionLen)
	}
	sum := c.ExperienceOrderingWeight + c.ExperienceVerbWeight + c.ExperienceQuantifiedWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("experience sub-weights must sum to 1.0, got %.3f", sum)
	}
	return nil
}

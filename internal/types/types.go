package types

import (
	"time"

	"github.com/google/uuid"
)

// AnalyzeResumeInput represents the input for a full resume analysis
type AnalyzeResumeInput struct {
	ResumeText     string `json:"resume_text"`
	JobTitle       string `json:"job_title,omitempty"`
	JobDescription string `json:"job_description,omitempty"`
}

// KeywordAnalysisInput represents the input for keyword-only analysis
type KeywordAnalysisInput struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

// Importance classifies a job description keyword by weight tier
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Weight returns the scoring weight for an importance tier
func (i Importance) Weight() int {
	switch i {
	case ImportanceHigh:
		return 3
	case ImportanceMedium:
		return 2
	default:
		return 1
	}
}

// IssueType classifies the severity of a detected issue
type IssueType string

const (
	IssueCritical IssueType = "critical"
	IssueWarning  IssueType = "warning"
	IssueInfo     IssueType = "info"
)

// Priority classifies a recommendation
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// SectionName identifies one of the six canonical resume sections
type SectionName string

const (
	SectionContact        SectionName = "contact"
	SectionSummary        SectionName = "summary"
	SectionExperience     SectionName = "experience"
	SectionEducation      SectionName = "education"
	SectionSkills         SectionName = "skills"
	SectionCertifications SectionName = "certifications"
)

// CanonicalSections lists all section names in their conventional resume order
var CanonicalSections = []SectionName{
	SectionContact,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionCertifications,
}

// Section holds the detection result and per-section assessment for one
// canonical section. Content is the raw text span between this section's
// heading and the next one; it is carried for downstream analyzers but not
// serialized in API responses.
type Section struct {
	Present bool     `json:"present"`
	Content string   `json:"-"`
	Score   int      `json:"score"`
	Issues  []string `json:"issues"`
}

// Keyword represents a job-description keyword and its presence in the resume
type Keyword struct {
	Text       string     `json:"keyword"`
	Importance Importance `json:"importance"`
	Frequency  int        `json:"frequency"`
	Present    bool       `json:"present"`
}

// SkillSet groups skills found in a text by category
type SkillSet struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

// Issue represents a detected problem with the resume
type Issue struct {
	Type        IssueType `json:"type"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Suggestions []string  `json:"suggestions"`
}

// Recommendation represents an actionable improvement with an estimated
// score-point impact
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Impact      int      `json:"impact"`
}

// ScoreBreakdown holds the five category scores and the weighted overall.
// Invariant: every score is in [0,100] and Overall is the round-half-up
// weighted sum under the fixed category weight table.
type ScoreBreakdown struct {
	Keywords    int `json:"keywords"`
	Formatting  int `json:"formatting"`
	Experience  int `json:"experience"`
	Education   int `json:"education"`
	Readability int `json:"readability"`
	Overall     int `json:"overall"`
}

// AnalysisResult is the complete output of one analysis run
type AnalysisResult struct {
	OverallScore          int                     `json:"overall_score"`
	KeywordMatch          int                     `json:"keyword_match"`
	SkillsMatch           int                     `json:"skills_match"`
	FormattingReadability int                     `json:"formatting_readability"`
	ExperienceScore       int                     `json:"experience_score"`
	ScoreBreakdown        ScoreBreakdown          `json:"score_breakdown"`
	Sections              map[SectionName]Section `json:"sections"`
	Issues                []Issue                 `json:"issues"`
	Recommendations       []Recommendation        `json:"recommendations"`
	FoundKeywords         []Keyword               `json:"found_keywords"`
	MissingKeywords       []Keyword               `json:"missing_keywords"`
	TotalKeywords         int                     `json:"total_keywords"`
	Skills                SkillSet                `json:"skills"`
	JobMatchPercentage    int                     `json:"job_match_percentage"`
	WordCount             int                     `json:"word_count"`
	SectionsPresent       int                     `json:"sections_present"`
	SummaryStatement      string                  `json:"summary_statement"`
}

// KeywordAnalysisResult is the output of keyword-only analysis
type KeywordAnalysisResult struct {
	KeywordMatch    int       `json:"keyword_match"`
	FoundKeywords   []Keyword `json:"found_keywords"`
	MissingKeywords []Keyword `json:"missing_keywords"`
	TotalKeywords   int       `json:"total_keywords"`
}

// StoredAnalysis wraps an AnalysisResult with persistence metadata
type StoredAnalysis struct {
	ID             uuid.UUID      `json:"id"`
	FileName       string         `json:"file_name,omitempty"`
	JobTitle       string         `json:"job_title,omitempty"`
	JobDescription string         `json:"job_description,omitempty"`
	Result         AnalysisResult `json:"result"`
	CreatedAt      time.Time      `json:"created_at"`
}

// AnalysisHistory is a paginated page of stored analyses
type AnalysisHistory struct {
	Analyses   []StoredAnalysis `json:"analyses"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

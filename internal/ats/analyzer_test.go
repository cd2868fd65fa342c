package ats

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"atscan/internal/errors"
	"atscan/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completeResume = `John Smith
john.smith@example.com | (555) 123-4567 | linkedin.com/in/johnsmith

Professional Summary
Experienced software engineer with eight years of experience building scalable backend services and leading small teams to deliver reliable products on schedule.

Experience
Senior Software Engineer, Acme Corp (2021 - 2024)
- Led a team of 5 engineers building microservices in Go and Python
- Reduced API latency by 40% through caching and query optimization
- Delivered a Kubernetes migration that cut infrastructure costs by 25%

Software Engineer, Beta LLC (2017 - 2021)
- Developed REST APIs in Python with PostgreSQL serving 2 million users
- Implemented continuous delivery pipelines with Jenkins and Docker

Education
Bachelor of Science in Computer Science, State University, 2017

Skills
Python, Go, PostgreSQL, Docker, Kubernetes, AWS, leadership, communication

Certifications
AWS Certified Solutions Architect`

const sampleJobDescription = `Senior Software Engineer

We are looking for a senior software engineer with strong Python and Go experience. The role requires PostgreSQL, Docker and Kubernetes in a cloud environment. Experience with AWS and delivery pipelines is required. Excellent communication and leadership skills are expected. The senior software engineer will mentor junior engineers and own services end to end.`

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(DefaultConfig(), DefaultDictionaries(), nil)
	require.NoError(t, err)
	return a
}

func TestAnalyzeCompleteResume(t *testing.T) {
	a := newTestAnalyzer(t)

	result, err := a.Analyze(context.Background(), types.AnalyzeResumeInput{
		ResumeText:     completeResume,
		JobTitle:       "Senior Software Engineer",
		JobDescription: sampleJobDescription,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, result.SectionsPresent)
	for _, name := range types.CanonicalSections {
		assert.True(t, result.Sections[name].Present, "section %s should be present", name)
	}

	assertScoreRange(t, result)
	assert.Positive(t, result.WordCount)
	assert.NotEmpty(t, result.SummaryStatement)
	assert.NotEmpty(t, result.Skills.Technical)
}

func assertScoreRange(t *testing.T, result *types.AnalysisResult) {
	t.Helper()
	scores := map[string]int{
		"overall":      result.OverallScore,
		"keywords":     result.ScoreBreakdown.Keywords,
		"formatting":   result.ScoreBreakdown.Formatting,
		"experience":   result.ScoreBreakdown.Experience,
		"education":    result.ScoreBreakdown.Education,
		"readability":  result.ScoreBreakdown.Readability,
		"skills_match": result.SkillsMatch,
	}
	for name, score := range scores {
		assert.GreaterOrEqual(t, score, 0, "%s below range", name)
		assert.LessOrEqual(t, score, 100, "%s above range", name)
	}
}

// The keyword match and the overall score must both follow their documented
// weighted formulas exactly.
func TestWeightedFormulas(t *testing.T) {
	a := newTestAnalyzer(t)

	result, err := a.Analyze(context.Background(), types.AnalyzeResumeInput{
		ResumeText:     completeResume,
		JobTitle:       "Senior Software Engineer",
		JobDescription: sampleJobDescription,
	})
	require.NoError(t, err)

	require.Equal(t, result.TotalKeywords, len(result.FoundKeywords)+len(result.MissingKeywords))
	require.Positive(t, result.TotalKeywords)

	foundWeight, totalWeight := 0, 0
	for _, kw := range result.FoundKeywords {
		foundWeight += kw.Importance.Weight()
		totalWeight += kw.Importance.Weight()
	}
	for _, kw := range result.MissingKeywords {
		totalWeight += kw.Importance.Weight()
	}
	expectedMatch := roundHalfUp(float64(foundWeight) / float64(totalWeight) * 100)
	assert.Equal(t, expectedMatch, result.KeywordMatch)

	b := result.ScoreBreakdown
	expectedOverall := roundHalfUp(
		0.40*float64(b.Keywords) + 0.20*float64(b.Formatting) +
			0.20*float64(b.Experience) + 0.10*float64(b.Education) +
			0.10*float64(b.Readability))
	assert.Equal(t, expectedOverall, result.OverallScore)
	assert.Equal(t, b.Overall, result.OverallScore)
}

func TestAnalyzeRejectsEmptyInput(t *testing.T) {
	a := newTestAnalyzer(t)

	for _, text := range []string{"", "   ", "\n\t\n"} {
		_, err := a.Analyze(context.Background(), types.AnalyzeResumeInput{ResumeText: text})
		require.Error(t, err)
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.ErrCodeEmptyDocument, appErr.Code)
		assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	}
}

func TestAnalyzeRejectsNonResume(t *testing.T) {
	a := newTestAnalyzer(t)

	prose := "The weather was lovely in the mountains last spring. We hiked along the river and watched the birds. Dinner by the fire was the highlight of the trip."
	_, err := a.Analyze(context.Background(), types.AnalyzeResumeInput{ResumeText: prose})
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeNotAResume, appErr.Code)
}

func TestAnalyzeRejectsOversizedJobDescription(t *testing.T) {
	a := newTestAnalyzer(t)

	_, err := a.Analyze(context.Background(), types.AnalyzeResumeInput{
		ResumeText:     completeResume,
		JobDescription: strings.Repeat("x", 5001),
	})
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeInvalidRequest, appErr.Code)
}

// Without a job description the keyword score is the neutral baseline and
// the keyword lists stay empty.
func TestAnalyzeWithoutJobDescription(t *testing.T) {
	a := newTestAnalyzer(t)

	result, err := a.Analyze(context.Background(), types.AnalyzeResumeInput{ResumeText: completeResume})
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().NeutralKeywordScore, result.KeywordMatch)
	assert.Empty(t, result.MissingKeywords)
	assert.Empty(t, result.FoundKeywords)
	assert.Zero(t, result.TotalKeywords)
	assert.Equal(t, DefaultConfig().NeutralSkillsScore, result.SkillsMatch)
	assert.Zero(t, result.JobMatchPercentage)
}

func TestMissingContactInformation(t *testing.T) {
	a := newTestAnalyzer(t)

	noContact := strings.Replace(completeResume,
		"john.smith@example.com | (555) 123-4567 | linkedin.com/in/johnsmith\n", "", 1)
	withContact, err := a.Analyze(context.Background(), types.AnalyzeResumeInput{ResumeText: completeResume})
	require.NoError(t, err)
	without, err := a.Analyze(context.Background(), types.AnalyzeResumeInput{ResumeText: noContact})
	require.NoError(t, err)

	assert.Less(t, without.ScoreBreakdown.Formatting, withContact.ScoreBreakdown.Formatting)

	var found bool
	for _, issue := range without.Issues {
		if issue.Category == "contact" && issue.Type == types.IssueCritical {
			found = true
		}
	}
	assert.True(t, found, "expected a critical contact issue")
}

// Removing a section's heading and content zeroes that section and raises
// exactly one missing-section issue for it; categories other than the
// owning one and formatting are untouched.
func TestRemovedSection(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx := context.Background()

	base, err := a.Analyze(ctx, types.AnalyzeResumeInput{ResumeText: completeResume})
	require.NoError(t, err)
	require.True(t, base.Sections[types.SectionEducation].Present)

	trimmed := strings.Replace(completeResume,
		"Education\nBachelor of Science in Computer Science, State University, 2017\n\n", "", 1)
	result, err := a.Analyze(ctx, types.AnalyzeResumeInput{ResumeText: trimmed})
	require.NoError(t, err)

	sec := result.Sections[types.SectionEducation]
	assert.False(t, sec.Present)
	assert.Zero(t, sec.Score)

	missing := 0
	for _, issue := range result.Issues {
		if issue.Title == "Missing education section" {
			missing++
		}
	}
	assert.Equal(t, 1, missing)

	assert.Zero(t, result.ScoreBreakdown.Education)
	assert.Equal(t, base.ScoreBreakdown.Keywords, result.ScoreBreakdown.Keywords)
	assert.Equal(t, base.ScoreBreakdown.Experience, result.ScoreBreakdown.Experience)
}

// Adding missing job description keywords verbatim to the resume must never
// lower the keyword match.
func TestKeywordMatchMonotonicity(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx := context.Background()
	input := types.AnalyzeResumeInput{
		ResumeText:     completeResume,
		JobDescription: sampleJobDescription,
	}

	before, err := a.Analyze(ctx, input)
	require.NoError(t, err)

	var extra []string
	for _, kw := range before.MissingKeywords {
		extra = append(extra, kw.Text)
	}
	input.ResumeText = completeResume + "\n" + strings.Join(extra, " ")
	after, err := a.Analyze(ctx, input)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, after.KeywordMatch, before.KeywordMatch)
	assert.LessOrEqual(t, len(after.MissingKeywords), len(before.MissingKeywords))
}

// Repeated runs over identical input must serialize to identical bytes.
func TestAnalyzeIdempotence(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx := context.Background()
	input := types.AnalyzeResumeInput{
		ResumeText:     completeResume,
		JobTitle:       "Senior Software Engineer",
		JobDescription: sampleJobDescription,
	}

	first, err := a.Analyze(ctx, input)
	require.NoError(t, err)
	second, err := a.Analyze(ctx, input)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestIssueOrdering(t *testing.T) {
	a := newTestAnalyzer(t)

	minimal := `Jane Doe

Experience
Worked at a company doing various things for several employers over the years without dates

Skills
communication`
	result, err := a.Analyze(context.Background(), types.AnalyzeResumeInput{ResumeText: minimal})
	require.NoError(t, err)
	require.NotEmpty(t, result.Issues)

	rank := map[types.IssueType]int{types.IssueCritical: 0, types.IssueWarning: 1, types.IssueInfo: 2}
	for i := 1; i < len(result.Issues); i++ {
		assert.LessOrEqual(t, rank[result.Issues[i-1].Type], rank[result.Issues[i].Type],
			"issues must be ordered critical, warning, info")
	}
}

func TestStageDegradationRecovers(t *testing.T) {
	a := newTestAnalyzer(t)

	ok := a.runStage(context.Background(), "test", func() { panic("boom") })
	assert.False(t, ok)
	ok = a.runStage(context.Background(), "test", func() {})
	assert.True(t, ok)
}

// healthyFindings builds a findings value that triggers no rule in the
// table: all sections present, contact fields set, healthy stage scores.
func healthyFindings() *findings {
	sections := make(map[types.SectionName]*types.Section)
	for _, name := range types.CanonicalSections {
		sections[name] = &types.Section{Present: true, Content: "placeholder content"}
	}
	return &findings{
		Scan:        sectionScan{Sections: sections, HeadingCount: len(sections)},
		Keywords:    keywordReport{Score: 80, Found: []types.Keyword{}, Missing: []types.Keyword{}},
		Skills:      skillsReport{Score: 75},
		Format:      formatReport{Score: 90, HasEmail: true, HasPhone: true, HasLinkedIn: true, HasBullets: true},
		Readability: readabilityReport{Score: 80},
		Experience:  experienceReport{Score: 85, Present: true, ReverseChron: true, VerbDensity: 0.8, QuantifiedRatio: 0.5},
		Education:   educationReport{Score: 70, Present: true},
	}
}

var stageNames = []string{"keywords", "skills", "format", "readability", "experience", "education"}

func TestApplyNeutralDefaults(t *testing.T) {
	a := newTestAnalyzer(t)
	neutral := a.cfg.DegradedScore

	for _, name := range stageNames {
		t.Run(name, func(t *testing.T) {
			f := &findings{}
			a.applyNeutralDefault(f, name)

			switch name {
			case "keywords":
				assert.Equal(t, neutral, f.Keywords.Score)
				assert.NotNil(t, f.Keywords.Found)
				assert.NotNil(t, f.Keywords.Missing)
				assert.Empty(t, f.Keywords.Found)
				assert.Empty(t, f.Keywords.Missing)
			case "skills":
				assert.Equal(t, neutral, f.Skills.Score)
			case "format":
				assert.Equal(t, neutral, f.Format.Score)
				assert.True(t, f.Format.HasEmail)
				assert.True(t, f.Format.HasPhone)
				assert.True(t, f.Format.HasLinkedIn)
				assert.True(t, f.Format.HasBullets)
			case "readability":
				assert.Equal(t, neutral, f.Readability.Score)
			case "experience":
				assert.Equal(t, neutral, f.Experience.Score)
				assert.True(t, f.Experience.Present)
				assert.True(t, f.Experience.ReverseChron)
				assert.GreaterOrEqual(t, f.Experience.VerbDensity, 0.3)
				assert.GreaterOrEqual(t, f.Experience.QuantifiedRatio, 0.2)
			case "education":
				assert.Equal(t, neutral, f.Education.Score)
				assert.True(t, f.Education.Present)
			}
		})
	}
}

func TestNeutralDefaultsKeepRulesQuiet(t *testing.T) {
	a := newTestAnalyzer(t)

	issues, recs := generateFindings(healthyFindings())
	require.Empty(t, issues)
	require.Empty(t, recs)

	// Substituting any single stage must not start firing rules the real
	// output would not have fired.
	for _, name := range stageNames {
		t.Run(name, func(t *testing.T) {
			f := healthyFindings()
			a.applyNeutralDefault(f, name)

			issues, recs := generateFindings(f)
			assert.Empty(t, issues)
			assert.Empty(t, recs)
		})
	}
}

func TestDegradedIssueShape(t *testing.T) {
	issue := degradedIssue("format")

	assert.Equal(t, types.IssueInfo, issue.Type)
	assert.Equal(t, "format", issue.Category)
	assert.Equal(t, "Partial analysis", issue.Title)
	assert.Contains(t, issue.Description, "format")
	assert.NotNil(t, issue.Suggestions)
}

func TestAnalyzeKeywordsOnly(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx := context.Background()

	result, err := a.AnalyzeKeywords(ctx, types.KeywordAnalysisInput{
		ResumeText:     completeResume,
		JobDescription: sampleJobDescription,
	})
	require.NoError(t, err)
	assert.Equal(t, result.TotalKeywords, len(result.FoundKeywords)+len(result.MissingKeywords))
	assert.GreaterOrEqual(t, result.KeywordMatch, 0)
	assert.LessOrEqual(t, result.KeywordMatch, 100)

	_, err = a.AnalyzeKeywords(ctx, types.KeywordAnalysisInput{ResumeText: completeResume})
	require.Error(t, err)

	_, err = a.AnalyzeKeywords(ctx, types.KeywordAnalysisInput{JobDescription: sampleJobDescription})
	require.Error(t, err)
}

func TestNewAnalyzerValidatesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KeywordFrequencyCeiling = 0
	_, err := NewAnalyzer(cfg, nil, nil)
	require.Error(t, err)

	dicts := DefaultDictionaries()
	dicts.ActionVerbs = nil
	_, err = NewAnalyzer(DefaultConfig(), dicts, nil)
	require.Error(t, err)
}

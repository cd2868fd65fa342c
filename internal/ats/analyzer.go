package ats

import (
	"context"
	"fmt"
	"strings"

	"atscan/internal/errors"
	"atscan/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "atscan/ats"

// Analyzer runs the full analysis pipeline. It holds only read-only state
// (tunables, dictionaries, logger), so a single Analyzer serves concurrent
// requests without coordination.
type Analyzer struct {
	cfg    Config
	dicts  *Dictionaries
	logger *errors.Logger
	tracer trace.Tracer
}

// NewAnalyzer validates the tunables and dictionaries and returns a ready
// Analyzer. Validation failures here are configuration errors; the process
// should not serve requests past them.
func NewAnalyzer(cfg Config, dicts *Dictionaries, logger *errors.Logger) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid analysis configuration", err)
	}
	if dicts == nil {
		dicts = DefaultDictionaries()
	}
	if err := dicts.Validate(); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid reference dictionaries", err)
	}
	return &Analyzer{
		cfg:    cfg,
		dicts:  dicts,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Analyze runs the complete pipeline and returns an immutable result. The
// input text must already be plain text; extraction happens upstream.
func (a *Analyzer) Analyze(ctx context.Context, input types.AnalyzeResumeInput) (*types.AnalysisResult, error) {
	ctx, span := a.tracer.Start(ctx, "ats.analyze")
	defer span.End()

	resumeText := input.ResumeText
	if strings.TrimSpace(resumeText) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyDocument, "cannot analyze empty document", nil)
	}
	if len(input.JobDescription) > a.cfg.MaxJobDescriptionLen {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("job description exceeds %d characters", a.cfg.MaxJobDescriptionLen), nil)
	}

	lines := normalizeLines(resumeText)
	normText := normalizeText(resumeText)

	scan := a.detectSectionsStage(ctx, lines)
	if scan.HeadingCount < a.cfg.MinHeadings && !hasResumeIndicators(normText, a.dicts) {
		return nil, errors.NewValidationError(errors.ErrCodeNotAResume,
			"the document does not look like a resume", nil).
			WithContext("headings_detected", scan.HeadingCount)
	}

	hasJD := strings.TrimSpace(input.JobDescription) != ""
	f := &findings{Scan: scan, HasJD: hasJD}
	var degraded []string

	run := func(name string, fn func()) {
		if ok := a.runStage(ctx, name, fn); !ok {
			degraded = append(degraded, name)
		}
	}
	run("keywords", func() {
		f.Keywords = matchKeywords(resumeText, input.JobDescription, a.cfg, a.dicts)
	})
	run("skills", func() {
		f.Skills = classifySkills(resumeText, input.JobTitle, input.JobDescription, a.cfg, a.dicts)
	})
	run("format", func() {
		f.Format = analyzeFormat(resumeText, lines, scan, a.cfg, a.dicts)
	})
	run("readability", func() {
		f.Readability = analyzeReadability(resumeText, a.cfg)
	})
	run("experience", func() {
		f.Experience = analyzeExperience(scan.Sections[types.SectionExperience], a.cfg, a.dicts)
	})
	run("education", func() {
		f.Education = analyzeEducation(scan, resumeText, a.dicts)
	})
	for _, name := range degraded {
		a.applyNeutralDefault(f, name)
	}

	breakdown, anomalies := aggregateScores(types.ScoreBreakdown{
		Keywords:    f.Keywords.Score,
		Formatting:  f.Format.Score,
		Experience:  f.Experience.Score,
		Education:   f.Education.Score,
		Readability: f.Readability.Score,
	})
	if len(anomalies) > 0 && a.logger != nil {
		a.logger.Warn("category score out of range, clamped", "categories", anomalies)
	}

	issues, recommendations := generateFindings(f)
	for _, name := range degraded {
		issues = append(issues, degradedIssue(name))
	}
	sortIssues(issues)

	result := a.assemble(f, breakdown, issues, recommendations)

	span.SetAttributes(
		attribute.Int("ats.overall_score", result.OverallScore),
		attribute.Int("ats.issues", len(result.Issues)),
		attribute.Int("ats.degraded_stages", len(degraded)),
	)
	return result, nil
}

// AnalyzeKeywords runs only the keyword matching stage. Both inputs are
// required here; without a job description there is nothing to match.
func (a *Analyzer) AnalyzeKeywords(ctx context.Context, input types.KeywordAnalysisInput) (*types.KeywordAnalysisResult, error) {
	_, span := a.tracer.Start(ctx, "ats.analyze_keywords")
	defer span.End()

	if strings.TrimSpace(input.ResumeText) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyDocument, "cannot analyze empty document", nil)
	}
	if strings.TrimSpace(input.JobDescription) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "job description is required for keyword analysis", nil)
	}
	if len(input.JobDescription) > a.cfg.MaxJobDescriptionLen {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("job description exceeds %d characters", a.cfg.MaxJobDescriptionLen), nil)
	}

	report := matchKeywords(input.ResumeText, input.JobDescription, a.cfg, a.dicts)
	return &types.KeywordAnalysisResult{
		KeywordMatch:    report.Score,
		FoundKeywords:   report.Found,
		MissingKeywords: report.Missing,
		TotalKeywords:   report.Total,
	}, nil
}

// DictionaryInfo summarizes the loaded reference vocabularies, for health
// reporting and startup logging.
func (a *Analyzer) DictionaryInfo() map[string]any {
	skillCount := 0
	for _, skills := range a.dicts.TechnicalSkills {
		skillCount += len(skills)
	}
	return map[string]any{
		"sections":         len(a.dicts.HeadingSynonyms),
		"technical_skills": skillCount,
		"soft_skills":      len(a.dicts.SoftSkills),
		"action_verbs":     len(a.dicts.ActionVerbs),
		"certifications":   len(a.dicts.Certifications),
	}
}

func (a *Analyzer) detectSectionsStage(ctx context.Context, lines []string) sectionScan {
	_, span := a.tracer.Start(ctx, "ats.detect_sections")
	defer span.End()
	scan := detectSections(lines, a.dicts)
	span.SetAttributes(attribute.Int("ats.headings", scan.HeadingCount))
	return scan
}

// runStage executes one analyzer with panic isolation. A fault in a single
// stage degrades that category instead of aborting the run.
func (a *Analyzer) runStage(ctx context.Context, name string, fn func()) (ok bool) {
	_, span := a.tracer.Start(ctx, "ats."+name)
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if a.logger != nil {
				a.logger.Warn("analyzer stage degraded", "stage", name, "panic", fmt.Sprint(r))
			}
		}
	}()
	fn()
	return true
}

// applyNeutralDefault replaces a degraded stage's output with the documented
// neutral score.
func (a *Analyzer) applyNeutralDefault(f *findings, name string) {
	neutral := a.cfg.DegradedScore
	switch name {
	case "keywords":
		f.Keywords = keywordReport{Score: neutral, Found: []types.Keyword{}, Missing: []types.Keyword{}}
	case "skills":
		f.Skills = skillsReport{Score: neutral}
	case "format":
		f.Format = formatReport{Score: neutral, HasEmail: true, HasPhone: true, HasLinkedIn: true, HasBullets: true}
	case "readability":
		f.Readability = readabilityReport{Score: neutral}
	case "experience":
		f.Experience = experienceReport{Score: neutral, Present: true, ReverseChron: true, VerbDensity: 1, QuantifiedRatio: 1}
	case "education":
		f.Education = educationReport{Score: neutral, Present: true}
	}
}

// degradedIssue is the single info issue reported for a stage whose output
// was replaced by the neutral default.
func degradedIssue(name string) types.Issue {
	return types.Issue{
		Type:        types.IssueInfo,
		Category:    name,
		Title:       "Partial analysis",
		Description: fmt.Sprintf("The %s analysis could not be completed; a neutral score was substituted.", name),
		Suggestions: []string{},
	}
}

// assemble is the pure merge of all analyzer outputs into the final result.
func (a *Analyzer) assemble(f *findings, breakdown types.ScoreBreakdown, issues []types.Issue, recommendations []types.Recommendation) *types.AnalysisResult {
	a.fillSectionScores(f)

	sections := make(map[types.SectionName]types.Section, len(f.Scan.Sections))
	present := 0
	for name, sec := range f.Scan.Sections {
		sections[name] = *sec
		if sec.Present {
			present++
		}
	}

	return &types.AnalysisResult{
		OverallScore:          breakdown.Overall,
		KeywordMatch:          breakdown.Keywords,
		SkillsMatch:           f.Skills.Score,
		FormattingReadability: roundHalfUp((2*float64(breakdown.Formatting) + float64(breakdown.Readability)) / 3),
		ExperienceScore:       breakdown.Experience,
		ScoreBreakdown:        breakdown,
		Sections:              sections,
		Issues:                issues,
		Recommendations:       recommendations,
		FoundKeywords:         f.Keywords.Found,
		MissingKeywords:       f.Keywords.Missing,
		TotalKeywords:         f.Keywords.Total,
		Skills:                f.Skills.Skills,
		JobMatchPercentage:    f.Skills.JobMatchPercentage,
		WordCount:             f.Format.WordCount,
		SectionsPresent:       present,
		SummaryStatement:      summaryStatement(breakdown.Overall),
	}
}

// fillSectionScores assigns each present section its per-section score.
// Absent sections keep score 0.
func (a *Analyzer) fillSectionScores(f *findings) {
	set := func(name types.SectionName, score int, issues ...string) {
		sec := f.Scan.Sections[name]
		if !sec.Present {
			return
		}
		sec.Score = clampScore(score)
		sec.Issues = append(sec.Issues, issues...)
	}

	contactScore := 0
	var contactIssues []string
	if f.Format.HasEmail {
		contactScore += 50
	} else {
		contactIssues = append(contactIssues, "no email address found")
	}
	if f.Format.HasPhone {
		contactScore += 30
	} else {
		contactIssues = append(contactIssues, "no phone number found")
	}
	if f.Format.HasLinkedIn {
		contactScore += 20
	}
	set(types.SectionContact, contactScore, contactIssues...)

	summary := f.Scan.Sections[types.SectionSummary]
	summaryScore := 70
	if n := countWords(summary.Content); n >= 20 && n <= 100 {
		summaryScore = 100
	}
	set(types.SectionSummary, summaryScore)

	var expIssues []string
	if !f.Experience.ReverseChron {
		expIssues = append(expIssues, "dates are not in reverse chronological order")
	}
	if f.Experience.QuantifiedRatio < 0.2 {
		expIssues = append(expIssues, "few quantified achievements")
	}
	set(types.SectionExperience, f.Experience.Score, expIssues...)

	set(types.SectionEducation, f.Education.Score)

	skillsScore := f.Skills.Score
	if !f.HasJD {
		// Without a requirement set, grade the section on breadth.
		total := len(f.Skills.Skills.Technical) + len(f.Skills.Skills.Soft)
		skillsScore = clampScore(40 + total*5)
	}
	set(types.SectionSkills, skillsScore)

	certScore := 60
	if len(f.Education.Certs) > 0 {
		certScore = 100
	}
	set(types.SectionCertifications, certScore)
}

package ats

import (
	"fmt"
	"sort"
	"strings"

	"atscan/internal/types"
)

// findings aggregates the analyzer outputs the rule table triggers on.
type findings struct {
	Scan        sectionScan
	Keywords    keywordReport
	Skills      skillsReport
	Format      formatReport
	Readability readabilityReport
	Experience  experienceReport
	Education   educationReport
	HasJD       bool
}

// rule couples a trigger predicate with the issue and recommendation it
// produces. Either template may be nil. Impact points are documented per
// rule, not computed.
type rule struct {
	name      string
	when      func(*findings) bool
	issue     func(*findings) *types.Issue
	recommend func(*findings) *types.Recommendation
}

// Estimated score-point impacts per recommendation.
const (
	impactAddKeywords     = 15
	impactQuantify        = 10
	impactAddContact      = 8
	impactAddExperience   = 12
	impactAddSkills       = 6
	impactActionVerbs     = 6
	impactReorderHistory  = 5
	impactReadability     = 5
	impactWordCount       = 4
	impactAddBullets      = 3
	impactAddLinkedIn     = 2
)

type missingSectionRule struct {
	section  types.SectionName
	severity types.IssueType
}

// Sections whose absence the rule table reports. Contact is covered by the
// contact-field rule instead of a heading check.
var missingSectionRules = []missingSectionRule{
	{types.SectionExperience, types.IssueCritical},
	{types.SectionEducation, types.IssueWarning},
	{types.SectionSkills, types.IssueWarning},
	{types.SectionSummary, types.IssueInfo},
	{types.SectionCertifications, types.IssueInfo},
}

// ruleTable is evaluated in declaration order; output ordering comes from
// the final sort, not from rule order.
var ruleTable = buildRuleTable()

func buildRuleTable() []rule {
	rules := []rule{
		{
			name: "missing-contact-info",
			when: func(f *findings) bool { return !f.Format.HasEmail || !f.Format.HasPhone },
			issue: func(f *findings) *types.Issue {
				var missing []string
				if !f.Format.HasEmail {
					missing = append(missing, "email address")
				}
				if !f.Format.HasPhone {
					missing = append(missing, "phone number")
				}
				return &types.Issue{
					Type:        types.IssueCritical,
					Category:    "contact",
					Title:       "Missing contact information",
					Description: fmt.Sprintf("No %s found. ATS software cannot route your application without contact details.", strings.Join(missing, " or ")),
					Suggestions: []string{
						"Add a professional email address near the top of the resume",
						"Add a phone number in a standard format",
					},
				}
			},
			recommend: func(f *findings) *types.Recommendation {
				return &types.Recommendation{
					Title:       "Complete your contact details",
					Description: "Put your email address and phone number in plain text at the top of the resume, outside of headers, footers or images.",
					Priority:    types.PriorityHigh,
					Impact:      impactAddContact,
				}
			},
		},
		{
			name: "low-keyword-match",
			when: func(f *findings) bool { return f.HasJD && f.Keywords.Score < 50 },
			issue: func(f *findings) *types.Issue {
				return &types.Issue{
					Type:        types.IssueCritical,
					Category:    "keywords",
					Title:       "Low keyword match",
					Description: fmt.Sprintf("Only %d%% of the job description's weighted keywords appear in the resume.", f.Keywords.Score),
					Suggestions: []string{
						"Mirror the job description's terminology for skills and tools you actually have",
						"Work high-importance keywords into your summary and experience bullets",
					},
				}
			},
			recommend: func(f *findings) *types.Recommendation {
				return &types.Recommendation{
					Title:       "Add missing high-importance keywords",
					Description: fmt.Sprintf("%d keywords from the job description are missing. Add the ones that truthfully describe your background, starting with the high-importance tier.", len(f.Keywords.Missing)),
					Priority:    types.PriorityHigh,
					Impact:      impactAddKeywords,
				}
			},
		},
		{
			name: "keyword-overstuffing",
			when: func(f *findings) bool { return len(f.Keywords.Overstuffed) > 0 },
			issue: func(f *findings) *types.Issue {
				return &types.Issue{
					Type:        types.IssueWarning,
					Category:    "keywords",
					Title:       "Possible keyword stuffing",
					Description: fmt.Sprintf("These terms repeat unusually often: %s. Repetition beyond natural usage can trigger ATS spam filters.", strings.Join(f.Keywords.Overstuffed, ", ")),
					Suggestions: []string{"Vary the phrasing and keep each keyword to a handful of natural uses"},
				}
			},
		},
		{
			name: "low-quantification",
			when: func(f *findings) bool { return f.Experience.Present && f.Experience.QuantifiedRatio < 0.2 },
			issue: func(f *findings) *types.Issue {
				return &types.Issue{
					Type:        types.IssueWarning,
					Category:    "experience",
					Title:       "Few quantified achievements",
					Description: "Most experience bullets carry no numbers. Measurable results read far stronger to both ATS ranking and recruiters.",
					Suggestions: []string{"Add metrics such as percentages, counts, budgets or timeframes to your bullets"},
				}
			},
			recommend: func(f *findings) *types.Recommendation {
				return &types.Recommendation{
					Title:       "Quantify your achievements",
					Description: "Rewrite experience bullets to lead with measurable outcomes, e.g. \"reduced processing time by 40%\" instead of \"improved processing\".",
					Priority:    types.PriorityMedium,
					Impact:      impactQuantify,
				}
			},
		},
		{
			name: "few-action-verbs",
			when: func(f *findings) bool { return f.Experience.Present && f.Experience.VerbDensity < 0.3 },
			issue: func(f *findings) *types.Issue {
				return &types.Issue{
					Type:        types.IssueInfo,
					Category:    "experience",
					Title:       "Weak action verb usage",
					Description: "Few experience bullets start with a recognized action verb.",
					Suggestions: []string{"Start each bullet with a strong verb such as led, built, delivered or improved"},
				}
			},
			recommend: func(f *findings) *types.Recommendation {
				return &types.Recommendation{
					Title:       "Lead bullets with action verbs",
					Description: "Open each experience bullet with an action verb in the past tense to make responsibilities scan as accomplishments.",
					Priority:    types.PriorityMedium,
					Impact:      impactActionVerbs,
				}
			},
		},
		{
			name: "not-reverse-chronological",
			when: func(f *findings) bool { return f.Experience.Present && !f.Experience.ReverseChron },
			issue: func(f *findings) *types.Issue {
				return &types.Issue{
					Type:        types.IssueWarning,
					Category:    "experience",
					Title:       "Experience not in reverse chronological order",
					Description: "Dates in the experience section do not run newest to oldest. ATS parsers and recruiters expect the most recent role first.",
					Suggestions: []string{"Reorder roles so the most recent position appears first"},
				}
			},
			recommend: func(f *findings) *types.Recommendation {
				return &types.Recommendation{
					Title:       "Reorder your work history",
					Description: "List positions newest first with explicit year ranges for each role.",
					Priority:    types.PriorityMedium,
					Impact:      impactReorderHistory,
				}
			},
		},
		{
			name: "word-count-out-of-band",
			when: func(f *findings) bool { return f.Format.WordCountOutOfBand },
			issue: func(f *findings) *types.Issue {
				desc := fmt.Sprintf("The resume is %d words long; the sweet spot for ATS screening is roughly %d to %d words.",
					f.Format.WordCount, f.Format.WordBandMin, f.Format.WordBandMax)
				return &types.Issue{
					Type:        types.IssueInfo,
					Category:    "format",
					Title:       "Resume length outside recommended range",
					Description: desc,
					Suggestions: []string{"Aim for one to two pages of relevant, recent detail"},
				}
			},
			recommend: func(f *findings) *types.Recommendation {
				return &types.Recommendation{
					Title:       "Adjust resume length",
					Description: fmt.Sprintf("Trim outdated detail or expand thin sections until the resume lands between %d and %d words.", f.Format.WordBandMin, f.Format.WordBandMax),
					Priority:    types.PriorityLow,
					Impact:      impactWordCount,
				}
			},
		},
		{
			name: "bias-prone-fields",
			when: func(f *findings) bool { return len(f.Format.BiasTerms) > 0 },
			issue: func(f *findings) *types.Issue {
				return &types.Issue{
					Type:        types.IssueInfo,
					Category:    "format",
					Title:       "Personal details best left off",
					Description: fmt.Sprintf("Found references to: %s. These fields invite bias and add no screening value.", strings.Join(f.Format.BiasTerms, ", ")),
					Suggestions: []string{"Remove personal details unrelated to the job such as age, marital status or photos"},
				}
			},
		},
		{
			name: "duplicate-sections",
			when: func(f *findings) bool { return len(f.Scan.Duplicates) > 0 },
			issue: func(f *findings) *types.Issue {
				names := make([]string, len(f.Scan.Duplicates))
				for i, n := range f.Scan.Duplicates {
					names[i] = string(n)
				}
				return &types.Issue{
					Type:        types.IssueWarning,
					Category:    "structure",
					Title:       "Duplicate section headings",
					Description: fmt.Sprintf("More than one heading maps to: %s. ATS parsers may attribute content to the wrong section.", strings.Join(names, ", ")),
					Suggestions: []string{"Merge duplicate sections under a single heading"},
				}
			},
		},
		{
			name: "content-before-headings",
			when: func(f *findings) bool { return f.Format.PreambleAnomaly },
			issue: func(f *findings) *types.Issue {
				return &types.Issue{
					Type:        types.IssueWarning,
					Category:    "structure",
					Title:       "Substantial content before the first section heading",
					Description: "Several lines of content appear before any recognized section heading; ATS parsers may drop or misfile them.",
					Suggestions: []string{"Keep only your name and contact block above the first heading"},
				}
			},
		},
		{
			name: "no-bullet-points",
			when: func(f *findings) bool { return !f.Format.HasBullets },
			issue: func(f *findings) *types.Issue {
				return &types.Issue{
					Type:        types.IssueInfo,
					Category:    "format",
					Title:       "No bullet points detected",
					Description: "Dense paragraphs parse worse than bullet lists in most ATS software.",
					Suggestions: []string{"Break experience descriptions into bullet points"},
				}
			},
			recommend: func(f *findings) *types.Recommendation {
				return &types.Recommendation{
					Title:       "Use bullet points",
					Description: "Convert paragraph-style experience descriptions into short bullet lists, one achievement per bullet.",
					Priority:    types.PriorityLow,
					Impact:      impactAddBullets,
				}
			},
		},
		{
			name: "missing-linkedin",
			when: func(f *findings) bool { return !f.Format.HasLinkedIn },
			recommend: func(f *findings) *types.Recommendation {
				return &types.Recommendation{
					Title:       "Add a LinkedIn profile URL",
					Description: "A LinkedIn URL in the contact block is expected by most recruiters and parsed cleanly by ATS software.",
					Priority:    types.PriorityLow,
					Impact:      impactAddLinkedIn,
				}
			},
		},
		{
			name: "low-readability",
			when: func(f *findings) bool { return f.Readability.Score < 50 },
			recommend: func(f *findings) *types.Recommendation {
				return &types.Recommendation{
					Title:       "Improve readability",
					Description: "Shorten long sentences and fix spacing or punctuation irregularities; aim for 12 to 25 words per sentence.",
					Priority:    types.PriorityMedium,
					Impact:      impactReadability,
				}
			},
		},
	}

	for _, ms := range missingSectionRules {
		ms := ms
		r := rule{
			name: "missing-section-" + string(ms.section),
			when: func(f *findings) bool { return !f.Scan.Sections[ms.section].Present },
			issue: func(f *findings) *types.Issue {
				return &types.Issue{
					Type:        ms.severity,
					Category:    string(ms.section),
					Title:       fmt.Sprintf("Missing %s section", ms.section),
					Description: fmt.Sprintf("No %s section was detected. ATS software looks for standard headings to file content correctly.", ms.section),
					Suggestions: []string{fmt.Sprintf("Add a clearly labeled %s section with a standard heading", ms.section)},
				}
			},
		}
		switch ms.section {
		case types.SectionExperience:
			r.recommend = func(f *findings) *types.Recommendation {
				return &types.Recommendation{
					Title:       "Add a work experience section",
					Description: "List your roles newest first under an \"Experience\" heading, with dates and bulleted achievements.",
					Priority:    types.PriorityHigh,
					Impact:      impactAddExperience,
				}
			}
		case types.SectionSkills:
			r.recommend = func(f *findings) *types.Recommendation {
				return &types.Recommendation{
					Title:       "Add a skills section",
					Description: "A dedicated \"Skills\" section gives ATS keyword matching a dense, unambiguous target.",
					Priority:    types.PriorityMedium,
					Impact:      impactAddSkills,
				}
			}
		}
		rules = append(rules, r)
	}
	return rules
}

var issueRank = map[types.IssueType]int{
	types.IssueCritical: 0,
	types.IssueWarning:  1,
	types.IssueInfo:     2,
}

var priorityRank = map[types.Priority]int{
	types.PriorityHigh:   0,
	types.PriorityMedium: 1,
	types.PriorityLow:    2,
}

// generateFindings evaluates the rule table and returns issues sorted
// critical to info then by category and title, and recommendations sorted
// by priority then impact.
func generateFindings(f *findings) ([]types.Issue, []types.Recommendation) {
	issues := []types.Issue{}
	recs := []types.Recommendation{}
	for _, r := range ruleTable {
		if !r.when(f) {
			continue
		}
		if r.issue != nil {
			issues = append(issues, *r.issue(f))
		}
		if r.recommend != nil {
			recs = append(recs, *r.recommend(f))
		}
	}
	sortIssues(issues)
	sortRecommendations(recs)
	return issues, recs
}

func sortIssues(issues []types.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issueRank[issues[i].Type] != issueRank[issues[j].Type] {
			return issueRank[issues[i].Type] < issueRank[issues[j].Type]
		}
		if issues[i].Category != issues[j].Category {
			return issues[i].Category < issues[j].Category
		}
		return issues[i].Title < issues[j].Title
	})
}

func sortRecommendations(recs []types.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if priorityRank[recs[i].Priority] != priorityRank[recs[j].Priority] {
			return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
		}
		if recs[i].Impact != recs[j].Impact {
			return recs[i].Impact > recs[j].Impact
		}
		return recs[i].Title < recs[j].Title
	})
}

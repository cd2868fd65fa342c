package ats

import (
	"fmt"
	"os"

	"atscan/internal/types"

	"gopkg.in/yaml.v3"
)

// Dictionaries holds the read-only reference vocabularies consulted by the
// analyzers. A Dictionaries value is built once at process start and passed
// into the Analyzer; it must never be mutated afterwards.
type Dictionaries struct {
	// HeadingSynonyms maps each canonical section to the heading phrases
	// that identify it (lowercase).
	HeadingSynonyms map[types.SectionName][]string `yaml:"headingSynonyms"`

	// TechnicalSkills is partitioned by industry tag. The "general"
	// partition is always consulted; the partition matching the inferred
	// industry is consulted in addition.
	TechnicalSkills map[string][]string `yaml:"technicalSkills"`

	SoftSkills []string `yaml:"softSkills"`

	ActionVerbs []string `yaml:"actionVerbs"`

	StopWords []string `yaml:"stopWords"`

	// BiasTerms are personally-identifying fields that ATS best practice
	// says to leave off a resume. Flagged as info, never scored.
	BiasTerms []string `yaml:"biasTerms"`

	DegreeWords         []string `yaml:"degreeWords"`
	InstitutionKeywords []string `yaml:"institutionKeywords"`
	Certifications      []string `yaml:"certifications"`

	// ResumeIndicators are phrases whose presence keeps a document with few
	// detected headings from being rejected as not-a-resume.
	ResumeIndicators []string `yaml:"resumeIndicators"`
}

// DefaultDictionaries returns the built-in reference vocabularies.
func DefaultDictionaries() *Dictionaries {
	return &Dictionaries{
		HeadingSynonyms: map[types.SectionName][]string{
			types.SectionContact: {
				"contact", "contact information", "contact details", "personal information",
			},
			types.SectionSummary: {
				"summary", "professional summary", "career summary", "objective",
				"career objective", "profile", "about", "headline",
			},
			types.SectionExperience: {
				"experience", "work experience", "professional experience",
				"employment", "employment history", "career history",
			},
			types.SectionEducation: {
				"education", "academic background", "qualifications",
			},
			types.SectionSkills: {
				"skills", "technical skills", "core competencies", "technologies",
				"areas of expertise", "expertise",
			},
			types.SectionCertifications: {
				"certifications", "certificates", "licenses", "credentials",
				"professional certifications",
			},
		},
		TechnicalSkills: map[string][]string{
			"general": {
				"python", "java", "javascript", "typescript", "c++", "c#", "php",
				"ruby", "go", "rust", "scala", "kotlin", "swift",
				"html", "css", "react", "angular", "vue.js", "node.js", "django",
				"flask", "spring boot",
				"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch",
				"oracle", "sqlite",
				"aws", "azure", "google cloud", "docker", "kubernetes", "jenkins",
				"terraform", "ansible",
				"git", "jira", "tableau", "power bi", "excel", "figma",
			},
			"technology": {
				"software", "development", "programming", "algorithm", "database",
				"api", "framework", "debugging", "testing", "agile", "scrum",
				"devops", "cloud", "architecture", "microservices", "ci/cd",
			},
			"finance": {
				"financial", "analysis", "modeling", "risk", "compliance",
				"reporting", "budgeting", "forecasting", "accounting", "audit",
			},
			"healthcare": {
				"patient", "clinical", "medical", "healthcare", "treatment",
				"diagnosis", "therapy", "nursing", "hospital", "care",
			},
			"marketing": {
				"campaign", "branding", "social media", "content", "analytics",
				"seo", "sem", "conversion", "engagement", "strategy",
			},
			"sales": {
				"sales", "revenue", "client", "customer", "relationship",
				"negotiation", "pipeline", "quota", "territory", "crm",
			},
		},
		SoftSkills: []string{
			"leadership", "management", "communication", "teamwork", "collaboration",
			"problem solving", "analytical thinking", "creative", "organized",
			"adaptable", "detail-oriented", "time management", "critical thinking",
			"negotiation", "presentation", "customer service", "project management",
			"strategic planning", "mentoring",
		},
		ActionVerbs: []string{
			"achieved", "accomplished", "administered", "analyzed", "built",
			"collaborated", "created", "delivered", "developed", "directed",
			"enhanced", "established", "executed", "facilitated", "generated",
			"implemented", "improved", "increased", "initiated", "launched",
			"led", "managed", "optimized", "organized", "performed", "planned",
			"produced", "reduced", "resolved", "streamlined", "supervised",
			"transformed", "utilized", "coordinated", "maintained", "designed",
			"conducted",
		},
		StopWords: []string{
			"a", "an", "and", "are", "as", "at", "be", "been", "but", "by", "for",
			"from", "has", "have", "in", "is", "it", "its", "of", "on", "or",
			"our", "that", "the", "their", "this", "to", "was", "we", "were",
			"will", "with", "you", "your", "they", "them", "than", "then",
			"about", "into", "over", "after", "more", "most", "other", "some",
			"such", "can", "may", "should", "would", "all", "also", "any",
			"each", "who", "what", "when", "where", "which", "while", "work",
		},
		BiasTerms: []string{
			"age", "date of birth", "married", "single", "marital status",
			"gender", "race", "religion", "nationality", "photo", "photograph",
		},
		DegreeWords: []string{
			"bachelor", "bachelors", "master", "masters", "phd", "doctorate",
			"associate", "diploma", "mba", "bsc", "msc", "b.s.", "m.s.", "b.a.",
			"m.a.", "undergraduate", "graduate", "postgraduate",
		},
		InstitutionKeywords: []string{
			"university", "college", "institute", "school", "academy",
		},
		Certifications: []string{
			"pmp", "project management professional", "aws certified",
			"azure certified", "google certified", "cissp", "cisa", "cism",
			"comptia", "cisco certified", "microsoft certified",
			"salesforce certified", "scrum master", "csm", "six sigma", "itil",
			"cfa", "cpa",
		},
		ResumeIndicators: []string{
			"objective", "experience", "education", "skills", "employment",
			"curriculum vitae", "resume",
		},
	}
}

// LoadDictionaries returns the defaults overlaid with any non-empty fields
// from the YAML file at path. An empty path returns the defaults unchanged.
// A missing or malformed file is a configuration error: the process cannot
// serve analyses with broken reference data.
func LoadDictionaries(path string) (*Dictionaries, error) {
	dicts := DefaultDictionaries()
	if path == "" {
		return dicts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file %s: %w", path, err)
	}

	var overlay Dictionaries
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary file %s: %w", path, err)
	}

	dicts.merge(&overlay)
	if err := dicts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dictionary file %s: %w", path, err)
	}
	return dicts, nil
}

// merge overlays non-empty fields from o
func (d *Dictionaries) merge(o *Dictionaries) {
	if len(o.HeadingSynonyms) > 0 {
		d.HeadingSynonyms = o.HeadingSynonyms
	}
	if len(o.TechnicalSkills) > 0 {
		d.TechnicalSkills = o.TechnicalSkills
	}
	if len(o.SoftSkills) > 0 {
		d.SoftSkills = o.SoftSkills
	}
	if len(o.ActionVerbs) > 0 {
		d.ActionVerbs = o.ActionVerbs
	}
	if len(o.StopWords) > 0 {
		d.StopWords = o.StopWords
	}
	if len(o.BiasTerms) > 0 {
		d.BiasTerms = o.BiasTerms
	}
	if len(o.DegreeWords) > 0 {
		d.DegreeWords = o.DegreeWords
	}
	if len(o.InstitutionKeywords) > 0 {
		d.InstitutionKeywords = o.InstitutionKeywords
	}
	if len(o.Certifications) > 0 {
		d.Certifications = o.Certifications
	}
	if len(o.ResumeIndicators) > 0 {
		d.ResumeIndicators = o.ResumeIndicators
	}
}

// Validate checks that every vocabulary the pipeline depends on is non-empty.
func (d *Dictionaries) Validate() error {
	for _, name := range types.CanonicalSections {
		if len(d.HeadingSynonyms[name]) == 0 {
			return fmt.Errorf("no heading synonyms for section %q", name)
		}
	}
	if len(d.TechnicalSkills["general"]) == 0 {
		return fmt.Errorf("technical skills must include a %q partition", "general")
	}
	if len(d.SoftSkills) == 0 {
		return fmt.Errorf("soft skills vocabulary is empty")
	}
	if len(d.ActionVerbs) == 0 {
		return fmt.Errorf("action verb vocabulary is empty")
	}
	if len(d.ResumeIndicators) == 0 {
		return fmt.Errorf("resume indicator vocabulary is empty")
	}
	return nil
}

// stopWordSet builds a lookup set from the stop word list
func (d *Dictionaries) stopWordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.StopWords))
	for _, w := range d.StopWords {
		set[w] = struct{}{}
	}
	return set
}

package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"atscan/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "KeywordAnalysisResult", &KeywordTextFormatter{})
	registry.RegisterFormatter("markdown", "KeywordAnalysisResult", &KeywordMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult:
		return "AnalysisResult"
	case types.KeywordAnalysisResult:
		return "KeywordAnalysisResult"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for full analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %d/100\n", result.OverallScore))
	output.WriteString(result.SummaryStatement)
	output.WriteString("\n\n")

	output.WriteString("=== SCORE BREAKDOWN ===\n")
	output.WriteString(fmt.Sprintf("Keywords:    %d/100\n", result.ScoreBreakdown.Keywords))
	output.WriteString(fmt.Sprintf("Formatting:  %d/100\n", result.ScoreBreakdown.Formatting))
	output.WriteString(fmt.Sprintf("Experience:  %d/100\n", result.ScoreBreakdown.Experience))
	output.WriteString(fmt.Sprintf("Education:   %d/100\n", result.ScoreBreakdown.Education))
	output.WriteString(fmt.Sprintf("Readability: %d/100\n\n", result.ScoreBreakdown.Readability))

	output.WriteString("=== SECTIONS ===\n")
	for _, name := range types.CanonicalSections {
		section, ok := result.Sections[name]
		if !ok {
			continue
		}
		status := "missing"
		if section.Present {
			status = fmt.Sprintf("%d/100", section.Score)
		}
		output.WriteString(fmt.Sprintf("%-15s %s\n", string(name)+":", status))
	}
	output.WriteString(fmt.Sprintf("\nWord count: %d\n\n", result.WordCount))

	if result.TotalKeywords > 0 {
		output.WriteString("=== KEYWORDS ===\n")
		output.WriteString(fmt.Sprintf("Match: %d%% (%d of %d found)\n", result.KeywordMatch, len(result.FoundKeywords), result.TotalKeywords))
		writeKeywordListText(&output, "Found", result.FoundKeywords)
		writeKeywordListText(&output, "Missing", result.MissingKeywords)
		output.WriteString("\n")
	}

	if len(result.Issues) > 0 {
		output.WriteString("=== ISSUES ===\n\n")
		for i, issue := range result.Issues {
			output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, strings.ToUpper(string(issue.Type)), issue.Title))
			output.WriteString("   ")
			output.WriteString(issue.Description)
			output.WriteString("\n")
			for _, suggestion := range issue.Suggestions {
				output.WriteString(fmt.Sprintf("   - %s\n", suggestion))
			}
			output.WriteString("\n")
		}
	} else {
		output.WriteString("No issues found.\n\n")
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("=== RECOMMENDATIONS ===\n")
		for i, rec := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s (priority: %s, impact: +%d)\n", i+1, rec.Title, rec.Priority, rec.Impact))
			output.WriteString("   ")
			output.WriteString(rec.Description)
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

func writeKeywordListText(output *strings.Builder, label string, keywords []types.Keyword) {
	if len(keywords) == 0 {
		return
	}
	output.WriteString(label + ":\n")
	for _, kw := range keywords {
		output.WriteString(fmt.Sprintf("- %s (%s)\n", kw.Text, kw.Importance))
	}
}

// AnalysisMarkdownFormatter handles markdown formatting for full analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", result.OverallScore))
	output.WriteString(result.SummaryStatement)
	output.WriteString("\n\n")

	output.WriteString("## Score Breakdown\n\n")
	output.WriteString("| Category | Score |\n")
	output.WriteString("|----------|-------|\n")
	output.WriteString(fmt.Sprintf("| Keywords | %d |\n", result.ScoreBreakdown.Keywords))
	output.WriteString(fmt.Sprintf("| Formatting | %d |\n", result.ScoreBreakdown.Formatting))
	output.WriteString(fmt.Sprintf("| Experience | %d |\n", result.ScoreBreakdown.Experience))
	output.WriteString(fmt.Sprintf("| Education | %d |\n", result.ScoreBreakdown.Education))
	output.WriteString(fmt.Sprintf("| Readability | %d |\n\n", result.ScoreBreakdown.Readability))

	output.WriteString("## Sections\n\n")
	for _, name := range types.CanonicalSections {
		section, ok := result.Sections[name]
		if !ok {
			continue
		}
		if section.Present {
			output.WriteString(fmt.Sprintf("- **%s**: %d/100\n", name, section.Score))
		} else {
			output.WriteString(fmt.Sprintf("- **%s**: missing\n", name))
		}
	}
	output.WriteString(fmt.Sprintf("\n**Word count:** %d\n\n", result.WordCount))

	if result.TotalKeywords > 0 {
		output.WriteString("## Keywords\n\n")
		output.WriteString(fmt.Sprintf("**Match:** %d%% (%d of %d found)\n\n", result.KeywordMatch, len(result.FoundKeywords), result.TotalKeywords))
		writeKeywordListMarkdown(&output, "Found", result.FoundKeywords)
		writeKeywordListMarkdown(&output, "Missing", result.MissingKeywords)
	}

	if len(result.Issues) > 0 {
		output.WriteString("## Issues\n\n")
		for i, issue := range result.Issues {
			output.WriteString(fmt.Sprintf("### %d. %s (%s)\n\n", i+1, issue.Title, issue.Type))
			output.WriteString(issue.Description)
			output.WriteString("\n\n")
			for _, suggestion := range issue.Suggestions {
				output.WriteString(fmt.Sprintf("- %s\n", suggestion))
			}
			output.WriteString("\n")
		}
	} else {
		output.WriteString("## No Issues Found\n\n")
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		for i, rec := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. **%s** (priority: %s, impact: +%d)\n", i+1, rec.Title, rec.Priority, rec.Impact))
			output.WriteString("   ")
			output.WriteString(rec.Description)
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

func writeKeywordListMarkdown(output *strings.Builder, label string, keywords []types.Keyword) {
	if len(keywords) == 0 {
		return
	}
	output.WriteString(fmt.Sprintf("### %s\n\n", label))
	for _, kw := range keywords {
		output.WriteString(fmt.Sprintf("- %s (*%s*)\n", kw.Text, kw.Importance))
	}
	output.WriteString("\n")
}

// KeywordTextFormatter handles text formatting for keyword-only results
type KeywordTextFormatter struct{}

func (ktf *KeywordTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.KeywordAnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected KeywordAnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== KEYWORD ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Match: %d%% (%d of %d found)\n\n", result.KeywordMatch, len(result.FoundKeywords), result.TotalKeywords))
	writeKeywordListText(&output, "Found", result.FoundKeywords)
	writeKeywordListText(&output, "Missing", result.MissingKeywords)

	return output.String(), nil
}

func (ktf *KeywordTextFormatter) SupportedType() string {
	return "KeywordAnalysisResult"
}

// KeywordMarkdownFormatter handles markdown formatting for keyword-only results
type KeywordMarkdownFormatter struct{}

func (kmf *KeywordMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.KeywordAnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected KeywordAnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Keyword Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Match:** %d%% (%d of %d found)\n\n", result.KeywordMatch, len(result.FoundKeywords), result.TotalKeywords))
	writeKeywordListMarkdown(&output, "Found", result.FoundKeywords)
	writeKeywordListMarkdown(&output, "Missing", result.MissingKeywords)

	return output.String(), nil
}

func (kmf *KeywordMarkdownFormatter) SupportedType() string {
	return "KeywordAnalysisResult"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()

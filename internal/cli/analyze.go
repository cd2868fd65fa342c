package cli

import (
	"fmt"
	"os"

	"atscan/internal/common"
	"atscan/internal/extract"
	"atscan/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file]",
	Short: "Analyze a resume for ATS compatibility",
	Long: `Analyze a resume the way an applicant tracking system would. The resume
may be plain text, PDF or DOCX; text is extracted before analysis.

The analysis includes:
- Section detection and completeness scoring
- Keyword matching against a job description (when one is supplied)
- Formatting and parseability checks
- Experience and education scoring
- Readability assessment

Supply a job description with --job-file to get keyword match scoring
and job-specific recommendations.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

var (
	analyzeJobFile  string
	analyzeJobTitle string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVar(&analyzeJobFile, "job-file", "", "Job description file for keyword matching")
	analyzeCmd.Flags().StringVar(&analyzeJobTitle, "job-title", "", "Target job title")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	analyzer, err := buildAnalyzer(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	// The resume goes through text extraction so PDF and DOCX files work
	// the same as plain text.
	extractor := extract.New(cfg.App.MaxFileSize, cfg.App.AllowedFileTypes, logger)
	resumeText, err := extractor.FromFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	var jobDescription string
	if analyzeJobFile != "" {
		data, err := os.ReadFile(analyzeJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jobDescription = string(data)
	}

	logger.Info("Starting resume analysis",
		"resume_file", args[0],
		"resume_chars", len(resumeText),
		"job_chars", len(jobDescription),
		"output_format", analyzeConfig.OutputFormat)

	input := types.AnalyzeResumeInput{
		ResumeText:     resumeText,
		JobTitle:       analyzeJobTitle,
		JobDescription: jobDescription,
	}

	result, err := analyzer.Analyze(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(*result, analyzeConfig); err != nil {
		return err
	}

	logger.Info("Resume analysis completed successfully",
		"overall_score", result.OverallScore,
		"issues", len(result.Issues))
	return nil
}

package cli

import (
	"context"
	"fmt"

	"atscan/internal/common"
	"atscan/internal/types"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [resume-file] [job-description-file]",
	Short: "Match resume keywords against a job description",
	Long: `Run only the keyword matching stage: extract keywords from the job
description and report which ones the resume covers. Faster than a full
analysis when you only care about keyword coverage.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if keywordsConfig.OutputFormat == "" {
			keywordsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(keywordsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runKeywords,
}

var keywordsConfig common.CommandConfig

func init() {
	keywordsCmd.Flags().StringVarP(&keywordsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	keywordsCmd.Flags().StringVar(&keywordsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = keywordsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	analyzer, err := buildAnalyzer(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	createInput := func(contents []string) (types.KeywordAnalysisInput, error) {
		if len(contents) != 2 {
			return types.KeywordAnalysisInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.KeywordAnalysisInput{
			ResumeText:     contents[0],
			JobDescription: contents[1],
		}, nil
	}

	logDetails := func(input types.KeywordAnalysisInput, cfg common.CommandConfig) {
		logger.Info("Starting keyword analysis",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	keywordOperation := func(ctx context.Context, input types.KeywordAnalysisInput) (types.KeywordAnalysisResult, error) {
		result, err := analyzer.AnalyzeKeywords(ctx, input)
		if err != nil {
			return types.KeywordAnalysisResult{}, err
		}
		return *result, nil
	}

	err = common.RunAnalysisCommand(
		cmd.Context(),
		logger,
		keywordsConfig,
		args,
		createInput,
		keywordOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze keywords: %w", err)
	}
	logger.Info("Keyword analysis completed successfully")
	return nil
}

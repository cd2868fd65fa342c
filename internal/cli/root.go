package cli

import (
	"context"

	"atscan/internal/ats"
	"atscan/internal/config"
	"atscan/internal/errors"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "atscan",
	Short: "A CLI tool for deterministic ATS resume analysis",
	Long: `Atscan is a command-line tool that analyzes resumes the way applicant
tracking systems do: section detection, keyword matching against a job
description, formatting checks and readability scoring. All scoring is
deterministic, so the same input always produces the same report.`,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// buildAnalyzer constructs the analysis pipeline from configuration,
// loading the dictionary file when one is set.
func buildAnalyzer(cfg *config.Config, logger *errors.Logger) (*ats.Analyzer, error) {
	dicts, err := ats.LoadDictionaries(cfg.Analysis.DictionaryFile)
	if err != nil {
		return nil, err
	}
	return ats.NewAnalyzer(cfg.Analysis.Config, dicts, logger)
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

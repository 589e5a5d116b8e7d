package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/config"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/log"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/model"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/pipeline"
)

// NewAskCmd creates the ask command.
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]...",
		Short: "Answer questions over previously saved crawl results",
		Long: `Ask answers questions over the flattened text produced by a previous
"cherpy run" or "cherpy crawl". Questions come from the command line or,
when none are given, from the configuration file.

Examples:
  # Ask a single question over saved results
  cherpy ask "What does the organization do?"

  # Answer the configured questions over a custom output directory
  cherpy ask -o results

The completion API key is read from the ` + config.APIKeyEnv + ` environment
variable.`,
		Args: cobra.ArbitraryArgs,
		RunE: runAskCmd,
	}

	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory containing the saved crawl artifacts")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .cherpy in current or home directory)")
	cmd.Flags().String("answers-file", config.DefaultAnswersFile,
		"Path of the question/answer report")
	cmd.Flags().BoolP("markdown", "m", false,
		"Additionally write a Markdown run report next to the answers file")

	return cmd
}

// runAskCmd executes the ask command.
func runAskCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
	if err != nil {
		return err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg.AnswersFile, err = cmd.Flags().GetString("answers-file")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Command-line questions take precedence over the config file.
	if len(args) > 0 {
		cfg.Questions = args
	}
	if len(cfg.Questions) == 0 {
		return fmt.Errorf("no questions given (pass them as arguments or list them in %s)", config.DefaultConfigFile)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	engine := buildAnswerEngine(cfg, logger)
	if engine == nil {
		return fmt.Errorf("no API key set (export %s to enable answering)", config.APIKeyEnv)
	}

	flattenedPath := filepath.Join(cfg.OutputDir, pipeline.TextResultFile)
	if _, err := os.Stat(flattenedPath); err != nil {
		return fmt.Errorf("no saved crawl results at %s (run \"cherpy crawl\" first): %w", flattenedPath, err)
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddStep(pipeline.NewAnswerStep(engine, cfg.Questions, pipeline.WithAnswerLogger(logger)))

	outputOpts := []pipeline.AnswerOutputStepOption{pipeline.WithOutputLogger(logger)}
	if cfg.MarkdownReport {
		outputOpts = append(outputOpts, pipeline.WithMarkdownReport(markdownReportPath(cfg.AnswersFile)))
	}
	p.AddStep(pipeline.NewAnswerOutputStep(cfg.AnswersFile, outputOpts...))

	runReport := model.NewRunReport("")
	runReport.FlattenedPath = flattenedPath

	if err := p.Execute(ctx, runReport); err != nil {
		return err
	}

	fmt.Printf("Answered %d of %d questions, answers in %s\n",
		runReport.AnsweredCount(), len(runReport.Answers), cfg.AnswersFile)

	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/answer"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/config"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/crawler"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/database"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/extract"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/log"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/model"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/pipeline"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [url]",
		Short: "Crawl a website and answer the configured questions",
		Long: `Run crawls the given website, writes the results to the output directory,
and answers the questions from the configuration file over the flattened
site text.

Examples:
  # Crawl a site and answer the configured questions
  cherpy run https://example.com

  # Crawl at most 10 pages without OCR
  cherpy run --max-pages 10 --no-ocr https://example.com

  # Repeat the full run three times
  cherpy run --repeat 3 https://example.com

Configuration file (.cherpy) example:
  questions:
    - What does the organization do?
    - How can I contact them?
  llm:
    model: gpt-4o-mini
    maxTokens: 500

The completion API key is read from the ` + config.APIKeyEnv + ` environment
variable; it is never stored in the configuration file.`,
		Args: cobra.ExactArgs(1),
		RunE: runRunCmd,
	}

	addCrawlFlags(cmd)

	cmd.Flags().IntP("repeat", "r", 1,
		"Number of full runs to execute sequentially")
	cmd.Flags().BoolP("markdown", "m", false,
		"Additionally write a Markdown run report next to the answers file")
	cmd.Flags().String("answers-file", config.DefaultAnswersFile,
		"Path of the question/answer report")
	cmd.Flags().Bool("no-db", false,
		"Do not persist results to the history database")

	return cmd
}

// addCrawlFlags registers the flags shared by run and crawl.
func addCrawlFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of unique pages to crawl")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .cherpy in current or home directory)")
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory for crawl result artifacts")
	cmd.Flags().Bool("no-ocr", false,
		"Disable OCR of images")
	cmd.Flags().String("ocr-language", config.DefaultOCRLanguage,
		"Language hint passed to the OCR engine")
	cmd.Flags().BoolP("download-documents", "d", false,
		"Keep downloaded PDFs in the documents directory")
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	cfg.Repeat, err = cmd.Flags().GetInt("repeat")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	cfg.AnswersFile, err = cmd.Flags().GetString("answers-file")
	if err != nil {
		return err
	}
	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return err
	}
	cfg.SaveToDB = !noDB
	cfg.DBDir = config.XDGDataDir()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runPipeline(ctx, cfg, logger)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// buildConfig creates a Config from cobra command flags shared by run
// and crawl, plus the configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.RootURL = args[0]

	var err error

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
	if err != nil {
		return nil, err
	}
	noOCR, err := cmd.Flags().GetBool("no-ocr")
	if err != nil {
		return nil, err
	}
	cfg.OCREnabled = !noOCR
	cfg.OCRLanguage, err = cmd.Flags().GetString("ocr-language")
	if err != nil {
		return nil, err
	}
	cfg.DownloadDocuments, err = cmd.Flags().GetBool("download-documents")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// Load questions and completion settings from the config file.
	// If the user explicitly specified a path, a missing file is an error.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildSpider constructs the extractor and spider from the configuration.
func buildSpider(cfg *config.Config, logger *slog.Logger) *crawler.Spider {
	client := &http.Client{Timeout: cfg.Timeout}

	extractorOpts := []extract.Option{
		extract.WithMaxFileSize(cfg.MaxFileSize),
		extract.WithExtractorUserAgent(cfg.UserAgent),
		extract.WithExtractorLogger(logger),
	}

	if cfg.OCREnabled {
		ocr := extract.NewTesseract()
		if ocr.Available() {
			extractorOpts = append(extractorOpts, extract.WithOCR(ocr, cfg.OCRLanguage))
		} else {
			logger.Warn("tesseract binary not found, OCR disabled")
		}
	}

	if cfg.DownloadDocuments {
		extractorOpts = append(extractorOpts, extract.WithDocumentDownloads(cfg.DocumentsDir))
	}

	extractor := extract.NewExtractor(client, extractorOpts...)

	return crawler.NewSpider(client, extractor,
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithPageLinkLimit(cfg.PageLinkLimit),
		crawler.WithPDFPerPage(cfg.PDFPerPage),
		crawler.WithMaxBodySize(cfg.MaxFileSize),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithLogger(logger),
	)
}

// buildAnswerEngine constructs the answer engine from the environment and
// configuration. Returns nil when no API key is set.
func buildAnswerEngine(cfg *config.Config, logger *slog.Logger) *answer.Engine {
	apiKey := os.Getenv(config.APIKeyEnv)
	if apiKey == "" {
		return nil
	}

	client := answer.NewClient(apiKey, cfg.BaseURL)
	return answer.NewEngine(client,
		answer.WithModel(cfg.Model),
		answer.WithMaxTokens(cfg.MaxAnswerTokens),
		answer.WithTemperature(float32(cfg.Temperature)),
		answer.WithContextLimit(cfg.ContextLimit),
		answer.WithLogger(logger),
	)
}

// runPipeline executes the full crawl-and-answer pipeline, repeating it
// cfg.Repeat times. Each run uses a fresh report.
func runPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting run",
		"site", cfg.RootURL,
		"maxPages", cfg.MaxPages,
		"repeat", cfg.Repeat,
		"saveToDB", cfg.SaveToDB,
	)

	var db *database.CrawlDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	spider := buildSpider(cfg, logger)
	engine := buildAnswerEngine(cfg, logger)
	if engine == nil && len(cfg.Questions) > 0 {
		logger.Warn("no API key set, questions will not be answered",
			"env", config.APIKeyEnv)
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddStep(pipeline.NewCrawlStep(spider, pipeline.WithCrawlLogger(logger)))
	p.AddStep(pipeline.NewSaveResultsStep(cfg.OutputDir, pipeline.WithSaveLogger(logger)))

	if engine != nil && len(cfg.Questions) > 0 {
		p.AddStep(pipeline.NewAnswerStep(engine, cfg.Questions, pipeline.WithAnswerLogger(logger)))

		outputOpts := []pipeline.AnswerOutputStepOption{pipeline.WithOutputLogger(logger)}
		if cfg.MarkdownReport {
			mdPath := markdownReportPath(cfg.AnswersFile)
			outputOpts = append(outputOpts, pipeline.WithMarkdownReport(mdPath))
		}
		p.AddStep(pipeline.NewAnswerOutputStep(cfg.AnswersFile, outputOpts...))
	}

	if db != nil {
		p.AddStep(pipeline.NewPersistStep(db, pipeline.WithPersistLogger(logger)))
	}

	for i := 0; i < cfg.Repeat; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if cfg.Repeat > 1 {
			fmt.Printf("Run %d/%d: %s\n", i+1, cfg.Repeat, cfg.RootURL)
		} else {
			fmt.Printf("Crawling %s...\n", cfg.RootURL)
		}
		startTime := time.Now()

		runReport := model.NewRunReport(cfg.RootURL)
		if err := p.Execute(ctx, runReport); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logger.Error("run failed", "run", i+1, "error", err)
			fmt.Fprintf(os.Stderr, "Run %d error: %v\n", i+1, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Completed in %s: %d pages, %d answers\n\n",
			elapsed.Round(time.Millisecond), runReport.PagesVisited, runReport.AnsweredCount())
	}

	return nil
}

// markdownReportPath derives the Markdown report path from the answers
// file path by swapping the extension.
func markdownReportPath(answersPath string) string {
	ext := filepath.Ext(answersPath)
	return strings.TrimSuffix(answersPath, ext) + ".md"
}

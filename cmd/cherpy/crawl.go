package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/log"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/model"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/pipeline"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]",
		Short: "Crawl a website and save the results without answering questions",
		Long: `Crawl walks the given website and writes the structured JSON and
flattened text artifacts to the output directory. No questions are
answered; use "cherpy ask" afterwards to answer questions over the
saved results.

Examples:
  # Crawl a site with defaults
  cherpy crawl https://example.com

  # Crawl into a custom output directory
  cherpy crawl -o results https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	addCrawlFlags(cmd)

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	spider := buildSpider(cfg, logger)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddStep(pipeline.NewCrawlStep(spider, pipeline.WithCrawlLogger(logger)))
	p.AddStep(pipeline.NewSaveResultsStep(cfg.OutputDir, pipeline.WithSaveLogger(logger)))

	fmt.Printf("Crawling %s...\n", cfg.RootURL)

	runReport := model.NewRunReport(cfg.RootURL)
	if err := p.Execute(ctx, runReport); err != nil {
		return err
	}

	fmt.Printf("Crawled %d pages, results in %s\n", runReport.PagesVisited, cfg.OutputDir)

	return nil
}

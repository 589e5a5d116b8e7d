package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/answer"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/crawler"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/database"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/model"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/report"
)

// Result artifact file names inside the output directory.
const (
	// JSONResultFile holds the full structured crawl results.
	JSONResultFile = "full_data.json"

	// TextResultFile holds the flattened plain-text form of the results.
	TextResultFile = "full_data.txt"
)

// CrawlStep walks the target site and collects page records.
type CrawlStep struct {
	// spider performs the breadth-first site walk.
	spider *crawler.Spider

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a new crawl step around a configured spider.
func NewCrawlStep(spider *crawler.Spider, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		spider: spider,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step. The spider state is reset first so the
// step can run repeatedly on the same spider.
func (s *CrawlStep) Do(ctx context.Context, rpt *model.RunReport) error {
	s.spider.Reset()

	records, err := s.spider.Crawl(ctx, rpt.RootURL)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	rpt.Records = records
	rpt.PagesVisited = s.spider.Stats().URLsVisited

	s.logger.Info("crawl finished",
		"site", rpt.RootURL,
		"pages", rpt.PagesVisited,
	)

	return nil
}

// SaveResultsStep writes the crawl results to the output directory as
// JSON and as flattened text, and records the flattened file's path on
// the report for the answer step.
type SaveResultsStep struct {
	// outputDir is the directory for result artifacts.
	outputDir string

	// logger for structured logging.
	logger *slog.Logger
}

// SaveResultsStepOption configures a SaveResultsStep.
type SaveResultsStepOption func(*SaveResultsStep)

// WithSaveLogger sets a custom logger for the save step.
func WithSaveLogger(logger *slog.Logger) SaveResultsStepOption {
	return func(s *SaveResultsStep) {
		s.logger = logger
	}
}

// NewSaveResultsStep creates a step that writes result artifacts to outputDir.
func NewSaveResultsStep(outputDir string, opts ...SaveResultsStepOption) *SaveResultsStep {
	s := &SaveResultsStep{
		outputDir: outputDir,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *SaveResultsStep) Name() string {
	return "save_results"
}

// Do writes full_data.json and full_data.txt into the output directory.
func (s *SaveResultsStep) Do(_ context.Context, rpt *model.RunReport) error {
	if err := os.MkdirAll(s.outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	jsonPath := filepath.Join(s.outputDir, JSONResultFile)
	jsonFile, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jsonPath, err)
	}
	defer jsonFile.Close()

	if _, err := report.NewJSONWriter(jsonFile).Write(rpt.Records); err != nil {
		return fmt.Errorf("failed to write JSON results: %w", err)
	}

	textPath := filepath.Join(s.outputDir, TextResultFile)
	textFile, err := os.Create(textPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", textPath, err)
	}
	defer textFile.Close()

	if _, err := report.NewTextWriter(textFile).Write(rpt.Records); err != nil {
		return fmt.Errorf("failed to write text results: %w", err)
	}

	rpt.FlattenedPath = textPath

	s.logger.Info("results saved",
		"json", jsonPath,
		"text", textPath,
	)

	return nil
}

// AnswerStep reads the flattened text artifact back from disk and
// answers the configured questions over it.
type AnswerStep struct {
	// engine generates the answers.
	engine *answer.Engine

	// questions to answer, in order.
	questions []string

	// logger for structured logging.
	logger *slog.Logger
}

// AnswerStepOption configures an AnswerStep.
type AnswerStepOption func(*AnswerStep)

// WithAnswerLogger sets a custom logger for the answer step.
func WithAnswerLogger(logger *slog.Logger) AnswerStepOption {
	return func(s *AnswerStep) {
		s.logger = logger
	}
}

// NewAnswerStep creates a step that answers questions from the
// flattened crawl text.
func NewAnswerStep(engine *answer.Engine, questions []string, opts ...AnswerStepOption) *AnswerStep {
	s := &AnswerStep{
		engine:    engine,
		questions: questions,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *AnswerStep) Name() string {
	return "answer"
}

// Do reads the flattened text from disk and answers each question.
// The text is read back from the file rather than rebuilt from the
// report, so the answers reflect exactly what was persisted. A missing
// artifact fails the step.
func (s *AnswerStep) Do(ctx context.Context, rpt *model.RunReport) error {
	if len(s.questions) == 0 {
		s.logger.Info("no questions configured, skipping answering")
		return nil
	}

	if rpt.FlattenedPath == "" {
		return fmt.Errorf("no flattened text artifact recorded for this run")
	}

	data, err := os.ReadFile(rpt.FlattenedPath)
	if err != nil {
		return fmt.Errorf("failed to read flattened text: %w", err)
	}

	rpt.Answers = s.engine.AnswerAll(ctx, string(data), s.questions)

	s.logger.Info("questions answered",
		"total", len(rpt.Answers),
		"succeeded", rpt.AnsweredCount(),
	)

	return nil
}

// AnswerOutputStep appends the run's answers to the answers file and
// optionally writes a Markdown run report.
type AnswerOutputStep struct {
	// answersPath is the answers text file. Output is appended so
	// repeated runs accumulate in one file.
	answersPath string

	// markdownPath is the optional Markdown report path. Empty disables it.
	markdownPath string

	// logger for structured logging.
	logger *slog.Logger
}

// AnswerOutputStepOption configures an AnswerOutputStep.
type AnswerOutputStepOption func(*AnswerOutputStep)

// WithMarkdownReport enables writing a Markdown run report to the given path.
func WithMarkdownReport(path string) AnswerOutputStepOption {
	return func(s *AnswerOutputStep) {
		s.markdownPath = path
	}
}

// WithOutputLogger sets a custom logger for the output step.
func WithOutputLogger(logger *slog.Logger) AnswerOutputStepOption {
	return func(s *AnswerOutputStep) {
		s.logger = logger
	}
}

// NewAnswerOutputStep creates a step that writes answer files.
func NewAnswerOutputStep(answersPath string, opts ...AnswerOutputStepOption) *AnswerOutputStep {
	s := &AnswerOutputStep{
		answersPath: answersPath,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *AnswerOutputStep) Name() string {
	return "answer_output"
}

// Do appends answers to the answers file and writes the Markdown
// report if configured.
func (s *AnswerOutputStep) Do(_ context.Context, rpt *model.RunReport) error {
	if len(rpt.Answers) == 0 {
		s.logger.Info("no answers to write")
		return nil
	}

	f, err := os.OpenFile(s.answersPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open answers file: %w", err)
	}
	defer f.Close()

	if _, err := report.NewAnswersWriter(f).Write(rpt.Answers); err != nil {
		return fmt.Errorf("failed to write answers: %w", err)
	}

	if s.markdownPath != "" {
		md, err := os.Create(s.markdownPath)
		if err != nil {
			return fmt.Errorf("failed to create markdown report: %w", err)
		}
		defer md.Close()

		if _, err := report.NewMarkdownWriter(md).Write(rpt); err != nil {
			return fmt.Errorf("failed to write markdown report: %w", err)
		}
	}

	s.logger.Info("answers written", "path", s.answersPath)

	return nil
}

// PersistStep stores the crawled pages and the finished run report in
// the database. It should run after answering so the stored run
// includes the answers.
type PersistStep struct {
	// db is the open crawl database.
	db *database.CrawlDB

	// logger for structured logging.
	logger *slog.Logger
}

// PersistStepOption configures a PersistStep.
type PersistStepOption func(*PersistStep)

// WithPersistLogger sets a custom logger for the persist step.
func WithPersistLogger(logger *slog.Logger) PersistStepOption {
	return func(s *PersistStep) {
		s.logger = logger
	}
}

// NewPersistStep creates a step that saves run data to the database.
func NewPersistStep(db *database.CrawlDB, opts ...PersistStepOption) *PersistStep {
	s := &PersistStep{
		db:     db,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do stores every crawled page and the run report with its answers.
func (s *PersistStep) Do(ctx context.Context, rpt *model.RunReport) error {
	for _, record := range rpt.Records {
		if _, err := s.db.InsertPageRecord(ctx, rpt.RootURL, record); err != nil {
			return fmt.Errorf("failed to persist page %s: %w", record.URL, err)
		}
	}

	runID, err := s.db.SaveRunReport(ctx, rpt)
	if err != nil {
		return fmt.Errorf("failed to persist run report: %w", err)
	}

	s.logger.Info("run persisted",
		"run_id", runID,
		"pages", len(rpt.Records),
	)

	return nil
}

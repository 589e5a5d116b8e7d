package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout is the per-request timeout for page fetches.
	// Network I/O dominates the crawl, so a generous but bounded timeout
	// keeps slow servers from stalling the whole run.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages is the maximum number of unique URLs visited per
	// crawl. This is the hard global cap that guarantees termination.
	DefaultMaxPages = 20

	// DefaultPageLinkLimit is the per-page fan-out cap: at most this many
	// internal links discovered on a page are followed.
	DefaultPageLinkLimit = 5

	// DefaultPDFPerPage is the per-page cap on PDF links whose text is
	// extracted and attached to the page record.
	DefaultPDFPerPage = 3

	// DefaultMaxFileSize limits downloads of images and PDFs.
	// Oversized files are skipped rather than truncated.
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB

	// DefaultOCRLanguage is the language hint passed to the OCR engine.
	// Russian-language sites are the primary target.
	DefaultOCRLanguage = "rus"

	// DefaultContextLimit is the character budget for the flattened crawl
	// text embedded in each completion prompt. The cut is hard, with no
	// sentence-boundary awareness.
	DefaultContextLimit = 40000

	// DefaultModel is the chat-completion model used by the answer engine.
	DefaultModel = "gpt-4o-mini"

	// DefaultMaxAnswerTokens bounds each completion response.
	DefaultMaxAnswerTokens = 500

	// DefaultTemperature keeps answers close to deterministic.
	DefaultTemperature = 0.3

	// DefaultOutputDir is where the crawl artifacts are written.
	DefaultOutputDir = "scrape_results"

	// DefaultDocumentsDir is where downloaded PDFs are retained when
	// document downloading is enabled.
	DefaultDocumentsDir = "downloaded_documents"

	// DefaultAnswersFile is the question/answer report path.
	DefaultAnswersFile = "answers.txt"

	// DefaultUserAgent identifies the crawler in HTTP requests. A browser
	// string is used because some sites refuse obvious bot agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// APIKeyEnv is the environment variable holding the completion API
	// key. The key is never read from the configuration file.
	APIKeyEnv = "CHERPY_API_KEY"

	// AppName is the application name used for XDG directory paths.
	AppName = "cherpy"
)

// Config holds all options for a Cherpy run.
// It is populated from CLI flags and the optional YAML file, then passed
// through the application via dependency injection rather than global state.
type Config struct {
	// RootURL is the crawl's starting address.
	RootURL string

	// MaxPages is the maximum number of unique URLs visited per crawl.
	MaxPages int

	// PageLinkLimit is the per-page internal-link fan-out cap.
	PageLinkLimit int

	// PDFPerPage is the per-page PDF extraction cap.
	PDFPerPage int

	// Timeout is the per-request timeout for page fetches.
	Timeout time.Duration

	// MaxFileSize is the download size cap for images and PDFs in bytes.
	MaxFileSize int64

	// OCREnabled toggles image text recognition. When false every img
	// element is skipped and page records carry no image entries.
	OCREnabled bool

	// OCRLanguage is the language hint passed to the OCR engine.
	OCRLanguage string

	// DownloadDocuments retains fetched PDFs under DocumentsDir.
	DownloadDocuments bool

	// OutputDir is the directory for the structured and flattened
	// crawl artifacts.
	OutputDir string

	// DocumentsDir is the directory for retained PDFs.
	DocumentsDir string

	// AnswersFile is the path of the question/answer report.
	AnswersFile string

	// MarkdownReport additionally writes a Markdown run report next to
	// AnswersFile.
	MarkdownReport bool

	// Questions is the ordered list of questions answered after the
	// crawl, loaded from the configuration file.
	Questions []string

	// BaseURL is the chat-completion endpoint. Empty means the client
	// library's default endpoint.
	BaseURL string

	// Model is the chat-completion model name.
	Model string

	// ContextLimit is the character budget for the flattened text
	// embedded in each prompt.
	ContextLimit int

	// MaxAnswerTokens bounds each completion response.
	MaxAnswerTokens int

	// Temperature is the completion sampling temperature.
	Temperature float64

	// UserAgent is sent with every crawl request.
	UserAgent string

	// Repeat is the number of full pipeline runs to execute. Each run is
	// independent and sequential, with fresh state.
	Repeat int

	// Verbose enables debug-level logging.
	Verbose bool

	// SaveToDB persists crawl records and answers to the SQLite history
	// database under DBDir.
	SaveToDB bool

	// DBDir is the directory for the SQLite database. Defaults to the
	// XDG data directory.
	DBDir string

	// ConfigFilePath is an explicit configuration file path. Empty means
	// search for .cherpy in the current and home directories.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because many defaults are non-zero (timeouts, caps, model name). It also
// documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:        DefaultMaxPages,
		PageLinkLimit:   DefaultPageLinkLimit,
		PDFPerPage:      DefaultPDFPerPage,
		Timeout:         DefaultTimeout,
		MaxFileSize:     DefaultMaxFileSize,
		OCREnabled:      true,
		OCRLanguage:     DefaultOCRLanguage,
		OutputDir:       DefaultOutputDir,
		DocumentsDir:    DefaultDocumentsDir,
		AnswersFile:     DefaultAnswersFile,
		Model:           DefaultModel,
		ContextLimit:    DefaultContextLimit,
		MaxAnswerTokens: DefaultMaxAnswerTokens,
		Temperature:     DefaultTemperature,
		UserAgent:       DefaultUserAgent,
		Repeat:          1,
	}
}

// XDGDataDir returns the XDG data directory for Cherpy.
// On Linux: ~/.local/share/cherpy
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for Cherpy.
// On Linux: ~/.config/cherpy
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first error found; fixing one error often makes the
// rest irrelevant.
func (c *Config) Validate() error {
	if c.RootURL == "" {
		return ErrNoRootURL
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.PageLinkLimit < 0 || c.PDFPerPage < 0 {
		return ErrInvalidFanOut
	}
	if c.MaxFileSize <= 0 {
		return ErrInvalidMaxFileSize
	}
	if c.ContextLimit <= 0 {
		return ErrInvalidContextLimit
	}
	if c.Repeat <= 0 {
		return ErrInvalidRepeat
	}
	return nil
}

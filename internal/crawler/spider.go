package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/extract"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/model"
)

// Spider crawls web pages within a single domain.
// It manages a queue of URLs to visit and enforces the page cap and the
// per-page fan-out limits.
//
// Design decision: traversal uses an explicit FIFO queue of (url, depth)
// items instead of recursive descent. Breadth-first order matches the
// discovery order of links, makes crawl results reproducible, and avoids
// deep call-stack growth on large sites.
type Spider struct {
	// client is the HTTP client used for page fetches. It carries the
	// per-request timeout.
	client *http.Client

	// extractor produces page content, OCR results, and PDF text.
	extractor *extract.Extractor

	// maxPages limits the total number of unique URLs visited.
	// This is the hard global cap that guarantees termination.
	maxPages int

	// pageLinkLimit caps how many internal links are followed per page.
	pageLinkLimit int

	// pdfPerPage caps how many PDF links are extracted per page.
	pdfPerPage int

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// userAgent is the User-Agent header to send.
	userAgent string

	// logger is used for structured logging.
	logger *slog.Logger

	// visited tracks normalized URLs already visited, including pages
	// that were skipped or failed. Marked before fetching.
	visited map[string]bool
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxPages sets the maximum number of unique URLs to visit.
func WithMaxPages(n int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = n
	}
}

// WithPageLinkLimit sets the per-page internal-link fan-out cap.
func WithPageLinkLimit(n int) SpiderOption {
	return func(s *Spider) {
		s.pageLinkLimit = n
	}
}

// WithPDFPerPage sets the per-page PDF extraction cap.
func WithPDFPerPage(n int) SpiderOption {
	return func(s *Spider) {
		s.pdfPerPage = n
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		s.maxBodySize = size
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) SpiderOption {
	return func(s *Spider) {
		s.userAgent = ua
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a new Spider.
//
// Design decision: we require an external client and extractor because:
//  1. The caller owns client lifecycle and timeout configuration
//  2. Tests can inject httptest-backed clients and stub capabilities
//  3. It keeps the spider free of global state
func NewSpider(client *http.Client, extractor *extract.Extractor, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:        client,
		extractor:     extractor,
		maxPages:      20,
		pageLinkLimit: 5,
		pdfPerPage:    3,
		maxBodySize:   10 * 1024 * 1024,
		userAgent:     "Mozilla/5.0 (compatible; Cherpy/1.0)",
		logger:        slog.Default(),
		visited:       make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// queueItem is an entry in the crawl frontier.
type queueItem struct {
	url   string
	depth int
}

// Crawl walks the site starting from rootURL and returns the page records in
// traversal order. A record is appended for every successfully fetched,
// HTML-typed, same-domain page; fetch failures and non-HTML responses are
// logged and skipped without aborting the crawl.
func (s *Spider) Crawl(ctx context.Context, rootURL string) ([]*model.PageRecord, error) {
	start, err := url.Parse(rootURL)
	if err != nil {
		return nil, fmt.Errorf("invalid root URL: %w", err)
	}
	if start.Scheme != "http" && start.Scheme != "https" {
		start.Scheme = "https"
	}
	if start.Host == "" {
		return nil, fmt.Errorf("root URL has no host: %q", rootURL)
	}

	records := make([]*model.PageRecord, 0)
	queue := []queueItem{{url: start.String(), depth: 0}}

	for len(queue) > 0 && len(s.visited) < s.maxPages {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		item := queue[0]
		queue = queue[1:]

		if s.isVisited(item.url) {
			continue
		}
		// Mark before fetching so a failing URL still counts against the
		// cap and is never retried.
		s.markVisited(item.url)

		record, links, err := s.visitPage(ctx, item.url)
		if err != nil {
			s.logger.Warn("page fetch failed", "url", item.url, "error", err)
			continue
		}
		if record == nil {
			// Non-HTML content: visited but not recorded.
			continue
		}

		records = append(records, record)

		for i, link := range links {
			if i >= s.pageLinkLimit {
				break
			}
			if !s.isVisited(link) {
				queue = append(queue, queueItem{url: link, depth: item.depth + 1})
			}
		}
	}

	return records, nil
}

// visitPage fetches a single URL and builds its page record.
// It returns (nil, nil, nil) for non-HTML responses.
func (s *Spider) visitPage(ctx context.Context, pageURL string) (*model.PageRecord, []string, error) {
	s.logger.Debug("fetching page", "url", pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		s.logger.Debug("skipping non-HTML content", "url", pageURL, "contentType", contentType)
		return nil, nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, nil, err
	}

	page, err := s.extractor.ExtractPage(ctx, pageURL, body)
	if err != nil {
		return nil, nil, err
	}

	rootHost := ""
	if u, err := url.Parse(pageURL); err == nil {
		rootHost = u.Host
	}
	links := ClassifyLinks(rootHost, page.Anchors)

	record := &model.PageRecord{
		URL:          pageURL,
		Text:         page.Text,
		Images:       page.Images,
		Metadata:     page.Metadata,
		Links:        links,
		FilesContent: make([]model.FileContent, 0),
	}

	for i, pdfURL := range links.Files.PDF {
		if i >= s.pdfPerPage {
			break
		}
		content, ok := s.extractor.ExtractPDF(ctx, pdfURL, len(s.visited))
		if ok {
			record.FilesContent = append(record.FilesContent, content)
		}
	}

	return record, links.Internal, nil
}

// isVisited checks if a URL has been visited.
func (s *Spider) isVisited(pageURL string) bool {
	return s.visited[normalizeURL(pageURL)]
}

// markVisited marks a URL as visited.
func (s *Spider) markVisited(pageURL string) {
	s.visited[normalizeURL(pageURL)] = true
}

// normalizeURL normalizes a URL for deduplication: fragment dropped,
// scheme and host lowercased, empty path treated as "/".
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

// Stats returns current crawl statistics.
func (s *Spider) Stats() Stats {
	return Stats{URLsVisited: len(s.visited)}
}

// Reset clears the spider's state, allowing it to be reused for a new crawl.
func (s *Spider) Reset() {
	s.visited = make(map[string]bool)
}

// Stats contains crawl statistics.
type Stats struct {
	// URLsVisited is the number of unique URLs visited, including pages
	// that were skipped or failed.
	URLsVisited int
}

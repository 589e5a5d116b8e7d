package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/model"
	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/textutil"
)

// Placeholder strings recorded inline when image recognition cannot produce
// text. OCR failures are non-fatal; the placeholder documents what happened.
const (
	placeholderFetchFailed = "image fetch failed"
	placeholderTooLarge    = "image too large"
	placeholderNotAnImage  = "URL does not point to an image"
	placeholderOCRFailed   = "image processing failed"
	placeholderNoText      = "no text recognized"
)

// ocrImageExtensions are the image types handed to OCR. GIF and BMP links
// are classified as image files but not recognized.
var ocrImageExtensions = []string{".jpg", ".jpeg", ".png"}

// PageData is the extraction result for one HTML page, before link
// classification and PDF extraction.
type PageData struct {
	// Text is the normalized visible body text.
	Text string

	// Metadata holds title, description, keywords, and OpenGraph pairs.
	Metadata model.Metadata

	// Images holds OCR results in document order. Empty when OCR is off.
	Images []model.ImageText

	// Anchors holds all resolved absolute anchor URLs in document order,
	// including duplicates.
	Anchors []string
}

// Extractor produces text from HTML pages, images, and PDF files.
// It owns no network configuration of its own: the HTTP client, OCR engine,
// and PDF reader are injected.
type Extractor struct {
	// client fetches images and PDF files.
	client *http.Client

	// ocr is the recognition capability. Nil disables image OCR
	// entirely: no img element is processed.
	ocr OCR

	// pdfText is the PDF text-extraction capability.
	pdfText PDFText

	// ocrLanguage is the language hint passed to the OCR engine.
	ocrLanguage string

	// maxFileSize is the download size cap for images and PDFs.
	maxFileSize int64

	// downloadDocuments retains fetched PDFs under documentsDir.
	downloadDocuments bool

	// documentsDir is the directory for retained PDFs.
	documentsDir string

	// tempDir receives transient image files, deleted after OCR.
	tempDir string

	// userAgent is sent with file fetches.
	userAgent string

	// logger is used for structured logging.
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithOCR sets the recognition capability and its language.
// Passing a nil engine disables image OCR.
func WithOCR(engine OCR, language string) Option {
	return func(e *Extractor) {
		e.ocr = engine
		e.ocrLanguage = language
	}
}

// WithPDFText sets the PDF text-extraction capability.
func WithPDFText(p PDFText) Option {
	return func(e *Extractor) {
		e.pdfText = p
	}
}

// WithMaxFileSize sets the download size cap for images and PDFs.
func WithMaxFileSize(size int64) Option {
	return func(e *Extractor) {
		e.maxFileSize = size
	}
}

// WithDocumentDownloads retains fetched PDFs in dir.
func WithDocumentDownloads(dir string) Option {
	return func(e *Extractor) {
		e.downloadDocuments = true
		e.documentsDir = dir
	}
}

// WithTempDir sets the directory for transient image files.
func WithTempDir(dir string) Option {
	return func(e *Extractor) {
		e.tempDir = dir
	}
}

// WithExtractorUserAgent sets the User-Agent for file fetches.
func WithExtractorUserAgent(ua string) Option {
	return func(e *Extractor) {
		e.userAgent = ua
	}
}

// WithExtractorLogger sets a custom logger.
func WithExtractorLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an Extractor using the given HTTP client.
func NewExtractor(client *http.Client, opts ...Option) *Extractor {
	e := &Extractor{
		client:      client,
		pdfText:     NewPDFReader(),
		maxFileSize: 10 * 1024 * 1024,
		tempDir:     os.TempDir(),
		userAgent:   "Mozilla/5.0 (compatible; Cherpy/1.0)",
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ExtractPage parses HTML and produces the page's text, metadata, OCR
// results, and resolved anchors. Individual sub-step failures degrade to
// placeholders or omissions; only an unparsable document is an error.
func (e *Extractor) ExtractPage(ctx context.Context, pageURL string, body []byte) (*PageData, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	// These subtrees must not contribute to visible text.
	doc.Find("script, style, iframe, noscript").Remove()

	data := &PageData{
		Text:     visibleText(doc),
		Metadata: extractMetadata(doc),
		Images:   make([]model.ImageText, 0),
		Anchors:  make([]string, 0),
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if resolved := resolveURL(base, href); resolved != "" {
			data.Anchors = append(data.Anchors, resolved)
		}
	})

	if e.ocr != nil {
		doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
			src, _ := sel.Attr("src")
			imgURL := resolveURL(base, src)
			if imgURL == "" || !hasOCRExtension(imgURL) {
				return
			}
			data.Images = append(data.Images, model.ImageText{
				URL:     imgURL,
				AltText: sel.AttrOr("alt", ""),
				OCRText: e.recognizeImage(ctx, imgURL),
			})
		})
	}

	return data, nil
}

// visibleText collects all text nodes in document order, joined by newline
// with blank lines removed.
func visibleText(doc *goquery.Document) string {
	var lines []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			for _, line := range strings.Split(n.Data, "\n") {
				if trimmed := strings.TrimSpace(line); trimmed != "" {
					lines = append(lines, trimmed)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, root := range doc.Nodes {
		walk(root)
	}

	return strings.Join(lines, "\n")
}

// extractMetadata pulls title, description, keywords, and OpenGraph pairs
// from the document head. On duplicate OpenGraph properties the last
// occurrence wins.
func extractMetadata(doc *goquery.Document) model.Metadata {
	meta := model.Metadata{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		OG:    make(map[string]string),
	}

	meta.Description = doc.Find(`meta[name="description"]`).First().AttrOr("content", "")
	meta.Keywords = doc.Find(`meta[name="keywords"]`).First().AttrOr("content", "")

	doc.Find(`meta[property^="og:"]`).Each(func(_ int, sel *goquery.Selection) {
		property, _ := sel.Attr("property")
		content, ok := sel.Attr("content")
		if property != "" && ok {
			meta.OG[property] = content
		}
	})

	return meta
}

// resolveURL resolves href against the base URL, dropping pseudo-links.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		href == "#" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return base.ResolveReference(u).String()
}

// hasOCRExtension reports whether the URL path ends in a recognizable
// image extension.
func hasOCRExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	lower := strings.ToLower(u.Path)
	for _, ext := range ocrImageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// recognizeImage downloads an image and runs OCR on it, returning normalized
// text or a placeholder. The temp file is removed regardless of outcome.
func (e *Extractor) recognizeImage(ctx context.Context, imgURL string) string {
	body, ok := e.fetchFile(ctx, imgURL, "image")
	if !ok {
		return placeholderFetchFailed
	}
	if body == nil {
		return placeholderNotAnImage
	}
	if int64(len(body)) > e.maxFileSize {
		return placeholderTooLarge
	}

	tempPath := filepath.Join(e.tempDir, tempImageName(imgURL))
	if err := os.WriteFile(tempPath, body, 0600); err != nil {
		e.logger.Warn("temp image write failed", "url", imgURL, "error", err)
		return placeholderOCRFailed
	}
	defer os.Remove(tempPath)

	text, err := e.ocr.Recognize(ctx, tempPath, e.ocrLanguage)
	if err != nil {
		e.logger.Warn("ocr failed", "url", imgURL, "error", err)
		return placeholderOCRFailed
	}

	cleaned := textutil.Clean(text)
	if cleaned == "" {
		return placeholderNoText
	}
	return cleaned
}

// ExtractPDF downloads a PDF, extracts and normalizes its text, and
// optionally retains the raw file. seq numbers the retained file. The second
// return value is false when no text could be produced; such entries are not
// attached to the page record.
func (e *Extractor) ExtractPDF(ctx context.Context, pdfURL string, seq int) (model.FileContent, bool) {
	body, ok := e.fetchFile(ctx, pdfURL, "")
	if !ok || int64(len(body)) > e.maxFileSize {
		e.logger.Warn("pdf fetch failed or oversized", "url", pdfURL)
		return model.FileContent{}, false
	}

	content := model.FileContent{
		Type: "PDF",
		URL:  pdfURL,
	}

	if e.downloadDocuments {
		if localPath, err := e.saveDocument(body, seq); err != nil {
			e.logger.Warn("document save failed", "url", pdfURL, "error", err)
		} else {
			content.LocalPath = localPath
		}
	}

	text, err := e.pdfText.ExtractText(body)
	if err != nil {
		e.logger.Warn("pdf extraction failed", "url", pdfURL, "error", err)
		return model.FileContent{}, false
	}

	content.Content = textutil.Clean(text)
	if content.Content == "" {
		return model.FileContent{}, false
	}
	content.TruncateContent()

	return content, true
}

// fetchFile downloads a URL subject to the size cap. The first return is the
// body, nil when wantType is set and the response content type does not
// match. The second return is false on network or status errors.
func (e *Extractor) fetchFile(ctx context.Context, fileURL, wantType string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Debug("file fetch failed", "url", fileURL, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Debug("file fetch status", "url", fileURL, "status", resp.StatusCode)
		return nil, false
	}

	if wantType != "" && !strings.Contains(resp.Header.Get("Content-Type"), wantType) {
		return nil, true
	}

	// Read one byte past the cap so oversized bodies are detectable.
	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxFileSize+1))
	if err != nil {
		return nil, false
	}

	return body, true
}

// saveDocument writes PDF bytes under the documents directory.
func (e *Extractor) saveDocument(body []byte, seq int) (string, error) {
	if err := os.MkdirAll(e.documentsDir, 0750); err != nil {
		return "", err
	}

	localPath := filepath.Join(e.documentsDir, fmt.Sprintf("document_%d.pdf", seq))
	if err := os.WriteFile(localPath, body, 0600); err != nil {
		return "", err
	}

	return localPath, nil
}

// tempImageName derives a safe temp file name from the image URL.
func tempImageName(imgURL string) string {
	u, err := url.Parse(imgURL)
	if err != nil {
		return "cherpy_image"
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "cherpy_image"
	}
	return name
}

package model

// PageRecord represents one successfully fetched, HTML-typed, same-domain page.
// A URL appears in at most one PageRecord per crawl; the record is immutable
// once appended to the crawl's result list.
//
// Design decision: Links and file contents are ordered slices rather than
// sets. Unordered sets would make the "first N" fan-out selection
// non-deterministic between runs; insertion order of discovery keeps crawl
// results reproducible.
type PageRecord struct {
	// URL is the canonical address that was fetched.
	URL string `json:"url"`

	// Text is the normalized visible body text of the page.
	Text string `json:"text"`

	// Images holds OCR results for images referenced by the page,
	// in document order. Empty when OCR is disabled.
	Images []ImageText `json:"images"`

	// Metadata holds the page's title, meta description/keywords,
	// and OpenGraph properties.
	Metadata Metadata `json:"metadata"`

	// Links holds all classified anchor URLs discovered on the page.
	Links LinkSet `json:"links"`

	// FilesContent holds extracted text from linked files, at most
	// three entries per page (the PDF fan-out cap).
	FilesContent []FileContent `json:"files_content"`
}

// ImageText is the OCR result for a single image.
type ImageText struct {
	// URL is the absolute image address.
	URL string `json:"url"`

	// AltText is the img element's alt attribute, possibly empty.
	AltText string `json:"alt_text"`

	// OCRText is the normalized recognized text, or a human-readable
	// placeholder describing why recognition was not possible.
	OCRText string `json:"ocr_text"`
}

// Metadata holds page-level metadata extracted from the document head.
type Metadata struct {
	// Title is the document title, empty if absent.
	Title string `json:"title,omitempty"`

	// Description is the meta description, empty if absent.
	Description string `json:"description,omitempty"`

	// Keywords is the meta keywords value, empty if absent.
	Keywords string `json:"keywords,omitempty"`

	// OG maps OpenGraph property names (e.g. "og:title") to content
	// values. On duplicate properties the last occurrence wins.
	OG map[string]string `json:"og"`
}

// LinkSet partitions a page's resolved anchor URLs.
// Every classified URL lands in exactly one bucket.
type LinkSet struct {
	// Internal holds same-host page links.
	Internal []string `json:"internal"`

	// External holds links to other hosts.
	External []string `json:"external"`

	// Files holds same-host links to typed files.
	Files FileLinks `json:"files"`
}

// FileLinks groups same-host file links by type.
type FileLinks struct {
	// PDF holds links whose path ends in .pdf.
	PDF []string `json:"pdf"`

	// Images holds links whose path ends in an image extension.
	Images []string `json:"images"`

	// Other holds links whose final path segment contains a dot but
	// matched no known extension.
	Other []string `json:"other"`
}

// MaxFileContentChars is the maximum number of characters of extracted file
// text stored per entry. Longer texts are truncated with an ellipsis marker.
const MaxFileContentChars = 10000

// FileContent is the extracted text of one linked file.
type FileContent struct {
	// Type is the file type label (currently always "PDF").
	Type string `json:"type"`

	// URL is the absolute file address.
	URL string `json:"url"`

	// Content is the normalized extracted text, truncated to
	// MaxFileContentChars with a trailing "..." when over the limit.
	Content string `json:"content"`

	// LocalPath is the on-disk path of the downloaded file when
	// document downloading is enabled, empty otherwise.
	LocalPath string `json:"local_path,omitempty"`
}

// TruncateContent enforces the per-file content limit.
// Call this after setting Content. The limit counts characters, not bytes,
// so multibyte text keeps its full budget and is never cut mid-rune.
func (f *FileContent) TruncateContent() {
	if len(f.Content) <= MaxFileContentChars {
		return
	}
	runes := []rune(f.Content)
	if len(runes) > MaxFileContentChars {
		f.Content = string(runes[:MaxFileContentChars]) + "..."
	}
}

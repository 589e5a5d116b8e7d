// Package extract turns fetched resources into text.
//
// The Extractor parses HTML with goquery, producing visible body text, page
// metadata, resolved anchor URLs, and OCR results for referenced images. It
// also extracts text from linked PDF files on behalf of the crawler.
//
// OCR and PDF text extraction are consumed as capability interfaces rather
// than reimplemented: the shipped implementations shell out to the tesseract
// binary and use a pure-Go PDF reader. Every extraction sub-step degrades
// gracefully; a failed image or file never aborts processing of its page.
package extract

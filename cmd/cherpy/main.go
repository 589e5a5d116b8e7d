// Package main provides the entry point for the Cherpy CLI.
//
// Cherpy crawls a single website, extracts its text (including OCR'd
// image text and PDF contents), and answers questions about the site
// using an OpenAI-compatible completion API.
//
// Usage:
//
//	cherpy run <url>
//	cherpy crawl <url>
//	cherpy ask
//
// See --help for all available options.
package main

// main is the entry point for Cherpy.
func main() {
	Execute()
}

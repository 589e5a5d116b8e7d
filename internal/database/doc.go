// Package database provides SQLite-based storage for cherpy.
//
// This package implements the CrawlDB, which stores:
//   - Crawled page records with extracted text and metadata
//   - Run reports for historical analysis
//   - Question/answer pairs produced for each run
//
// SQLite (via modernc.org/sqlite) keeps the whole history in a single
// file and its CGO-free implementation allows easy cross-compilation.
// WAL mode provides good concurrent read performance.
package database

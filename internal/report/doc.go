// Package report serializes crawl results and answers.
//
// It provides the structured JSON artifact, the flattened human-readable
// text artifact consumed by the answer engine, the question/answer report,
// and an optional Markdown run summary.
package report

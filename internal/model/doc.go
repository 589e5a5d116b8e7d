// Package model defines the core data structures used throughout Cherpy.
//
// This package contains the following main types:
//   - PageRecord: Represents a crawled page with extracted content
//   - LinkSet: Classified links discovered on a page
//   - RunReport: The accumulated result of one pipeline run
//   - AnswerRecord: One question/answer pair from the answer engine
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, extract, report, answer) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for artifact output and
// database storage.
package model

package model

import "time"

// RunReport is the accumulated state of one pipeline run.
// It is created fresh at run start, mutated only by pipeline steps, and
// read-only once the pipeline returns.
type RunReport struct {
	// RootURL is the crawl's starting address.
	RootURL string `json:"root_url"`

	// DateStarted is when the run began.
	DateStarted time.Time `json:"date_started"`

	// Records holds the crawl's page records in traversal order.
	Records []*PageRecord `json:"records"`

	// PagesVisited is the number of unique URLs visited, including
	// pages that were skipped or failed. Always <= the page cap.
	PagesVisited int `json:"pages_visited"`

	// FlattenedPath is the path of the flattened text artifact written
	// by the result sink. The answer step reads it back from disk.
	FlattenedPath string `json:"flattened_path,omitempty"`

	// Answers holds the question/answer pairs in question order.
	Answers []AnswerRecord `json:"answers,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// ErrorMessage records a step failure that aborted the run, if any.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewRunReport creates a RunReport for the given root URL.
func NewRunReport(rootURL string) *RunReport {
	return &RunReport{
		RootURL:     rootURL,
		DateStarted: time.Now(),
		Records:     make([]*PageRecord, 0),
	}
}

// AnsweredCount returns the number of questions that produced an answer.
func (r *RunReport) AnsweredCount() int {
	n := 0
	for _, a := range r.Answers {
		if !a.Failed {
			n++
		}
	}
	return n
}

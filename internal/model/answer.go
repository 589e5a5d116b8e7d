package model

// AnswerRecord is one question/answer pair produced by the answer engine.
//
// Design decision: A failed completion is an explicit outcome rather than a
// silently missing value. Dropping failed entries would desynchronize the
// question/answer pairing; with an explicit flag the caller can always render
// "answer unavailable" in question order.
type AnswerRecord struct {
	// Question is the question as supplied in configuration.
	Question string `json:"question"`

	// Answer is the model's reply. Empty when Failed is true.
	Answer string `json:"answer"`

	// Failed is true when the completion request for this question
	// did not produce an answer.
	Failed bool `json:"failed,omitempty"`

	// FailReason describes why the completion failed, for reporting.
	FailReason string `json:"fail_reason,omitempty"`
}

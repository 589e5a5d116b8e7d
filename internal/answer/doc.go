// Package answer generates answers to user questions from crawled site
// text using an OpenAI-compatible chat completion API.
//
// The engine answers strictly from the supplied site content. Each
// question is sent as an independent completion request so one failure
// never blocks the remaining questions.
package answer

// Package pipeline orchestrates the crawl-and-answer workflow as a
// sequence of discrete steps.
//
// Each step implements the Step interface and mutates the shared run
// report: crawling the site, writing result artifacts, persisting to
// the database, answering questions, and writing answer files. Steps
// run strictly in order; the pipeline stops on the first failure unless
// configured to continue.
package pipeline

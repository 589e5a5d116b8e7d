package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This allows callers to use errors.Is()
// for programmatic error handling while still providing human-readable
// messages.
var (
	// ErrNoRootURL is returned when no crawl target is specified.
	ErrNoRootURL = errors.New("no root URL specified: provide a site address to crawl")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page cap is not positive.
	// A cap of zero would mean no crawling at all.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidFanOut is returned when a per-page fan-out cap is negative.
	// Use 0 to disable link following or PDF extraction.
	ErrInvalidFanOut = errors.New("invalid fan-out limit: must be non-negative")

	// ErrInvalidMaxFileSize is returned when the download size cap is not
	// positive.
	ErrInvalidMaxFileSize = errors.New("invalid max file size: must be positive")

	// ErrInvalidContextLimit is returned when the prompt character budget
	// is not positive.
	ErrInvalidContextLimit = errors.New("invalid context limit: must be positive")

	// ErrInvalidRepeat is returned when the repeat count is not positive.
	ErrInvalidRepeat = errors.New("invalid repeat count: must be positive")
)

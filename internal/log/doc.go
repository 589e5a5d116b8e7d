// Package log provides logging with automatic masking of credentials,
// built on top of the standard slog package.
//
// Cherpy talks to a chat-completion API with a bearer key, and verbose mode
// logs request metadata. The RedactingHandler masks API keys, authorization
// headers, and similar values before they reach the underlying handler, so
// debug logs can be shared without leaking the key.
//
// Usage:
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Info("answering", "question", q, "api_key", key) // key is masked
package log

package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// newTestLogger returns a debug-level redacting logger writing to a buffer.
func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)
	return logger, &buf
}

// TestRedactingHandler tests credential masking.
func TestRedactingHandler(t *testing.T) {
	t.Parallel()

	t.Run("masks sensitive keys", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger()
		logger.Info("request",
			slog.String("api_key", "super-secret-value"),
			slog.String("password", "hunter2"),
			slog.String("Authorization", "some auth header"),
		)

		out := buf.String()
		if strings.Contains(out, "super-secret-value") || strings.Contains(out, "hunter2") {
			t.Errorf("sensitive values leaked: %s", out)
		}
		if strings.Count(out, MaskValue) != 3 {
			t.Errorf("expected 3 masked attrs, got output: %s", out)
		}
	})

	t.Run("masks credential-shaped values regardless of key", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger()
		logger.Info("request",
			slog.String("header", "Bearer abc123def456"),
			slog.String("key", "sk-abcdefghijklmnopqrstuvwx"),
		)

		out := buf.String()
		if strings.Contains(out, "abc123def456") || strings.Contains(out, "sk-abcdefghijklmnop") {
			t.Errorf("credential-shaped values leaked: %s", out)
		}
	})

	t.Run("keeps ordinary attributes", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger()
		logger.Info("crawl", slog.String("url", "https://example.com"), slog.Int("pages", 5))

		out := buf.String()
		if !strings.Contains(out, "https://example.com") {
			t.Errorf("ordinary value should survive: %s", out)
		}
		if strings.Contains(out, MaskValue) {
			t.Errorf("nothing should be masked: %s", out)
		}
	})

	t.Run("masks inside groups", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger()
		logger.Info("request",
			slog.Group("http",
				slog.String("cookie", "session=abc"),
				slog.String("method", "GET"),
			),
		)

		out := buf.String()
		if strings.Contains(out, "session=abc") {
			t.Errorf("grouped sensitive value leaked: %s", out)
		}
		if !strings.Contains(out, "GET") {
			t.Errorf("grouped ordinary value should survive: %s", out)
		}
	})

	t.Run("masks attrs added via With", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger()
		logger.With(slog.String("token", "tok-value")).Info("hello")

		out := buf.String()
		if strings.Contains(out, "tok-value") {
			t.Errorf("With-attached sensitive value leaked: %s", out)
		}
	})
}

// TestNewLoggerLevels tests verbosity control.
func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("hidden")
		logger.Warn("visible")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Error("info should be suppressed without verbose")
		}
		if !strings.Contains(out, "visible") {
			t.Error("warn should be logged")
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("details")

		if !strings.Contains(buf.String(), "details") {
			t.Error("debug should be logged with verbose")
		}
	})
}

package extract

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeFakeBinary writes an executable shell script standing in for
// tesseract.
func writeFakeBinary(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fake-tesseract")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0700); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestTesseractAvailable tests binary lookup.
func TestTesseractAvailable(t *testing.T) {
	t.Parallel()

	t.Run("missing binary", func(t *testing.T) {
		t.Parallel()

		tess := NewTesseract(WithBinary("definitely-not-a-real-binary"))
		if tess.Available() {
			t.Error("expected Available to be false for a missing binary")
		}
	})

	t.Run("existing binary", func(t *testing.T) {
		t.Parallel()

		bin := writeFakeBinary(t, "exit 0")
		tess := NewTesseract(WithBinary(bin))
		if !tess.Available() {
			t.Error("expected Available to be true for an existing binary")
		}
	})
}

// TestTesseractRecognize tests recognition output and error reporting.
func TestTesseractRecognize(t *testing.T) {
	t.Parallel()

	t.Run("returns stdout", func(t *testing.T) {
		t.Parallel()

		bin := writeFakeBinary(t, `echo "recognized words"`)
		tess := NewTesseract(WithBinary(bin))

		text, err := tess.Recognize(context.Background(), "/tmp/img.png", "eng")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(text) != "recognized words" {
			t.Errorf("got %q", text)
		}
	})

	t.Run("reports stderr on failure", func(t *testing.T) {
		t.Parallel()

		bin := writeFakeBinary(t, `echo "cannot open image" >&2; exit 1`)
		tess := NewTesseract(WithBinary(bin))

		_, err := tess.Recognize(context.Background(), "/tmp/img.png", "eng")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "cannot open image") {
			t.Errorf("error should carry stderr, got %v", err)
		}
	})
}

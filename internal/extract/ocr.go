package extract

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// OCR is the optical character recognition capability.
// Implementations convert an image file on disk to text for the given
// language code (e.g. "rus", "eng").
type OCR interface {
	// Recognize runs recognition on the image at path.
	// An empty string with nil error means the image held no readable text.
	Recognize(ctx context.Context, path, language string) (string, error)
}

// Tesseract runs the tesseract binary for recognition.
//
// Design decision: we exec the binary rather than bind libtesseract via cgo.
// The CLI is how tesseract is packaged everywhere, it keeps the build pure
// Go, and a missing binary degrades to inline placeholders instead of a
// build-time dependency.
type Tesseract struct {
	// binary is the tesseract executable name or path.
	binary string
}

// TesseractOption configures a Tesseract.
type TesseractOption func(*Tesseract)

// WithBinary overrides the tesseract executable path.
func WithBinary(path string) TesseractOption {
	return func(t *Tesseract) {
		t.binary = path
	}
}

// NewTesseract creates a Tesseract OCR capability.
func NewTesseract(opts ...TesseractOption) *Tesseract {
	t := &Tesseract{binary: "tesseract"}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Available reports whether the tesseract binary can be found.
// Callers should disable OCR up front when it cannot.
func (t *Tesseract) Available() bool {
	_, err := exec.LookPath(t.binary)
	return err == nil
}

// Recognize runs tesseract on the image and returns the raw recognized text.
func (t *Tesseract) Recognize(ctx context.Context, path, language string) (string, error) {
	args := []string{path, "stdout"}
	if language != "" {
		args = append(args, "-l", language)
	}

	cmd := exec.CommandContext(ctx, t.binary, args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("tesseract: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}

	return string(out), nil
}

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/config"
)

// TestNewRunCmd tests the run command definition.
func TestNewRunCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRunCmd()

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{
			"max-pages", "timeout", "config", "output-dir",
			"no-ocr", "ocr-language", "download-documents",
			"repeat", "markdown", "answers-file", "no-db",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		t.Parallel()

		if err := cmd.Args(cmd, []string{}); err == nil {
			t.Error("expected error for missing URL argument")
		}
		if err := cmd.Args(cmd, []string{"https://example.com"}); err != nil {
			t.Errorf("unexpected error for single argument: %v", err)
		}
		if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
			t.Error("expected error for two arguments")
		}
	})
}

// TestBuildConfig tests config construction from flags.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewRunCmd()
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.RootURL != "https://example.com" {
			t.Errorf("expected root URL from args, got %q", cfg.RootURL)
		}
		if cfg.MaxPages != config.DefaultMaxPages {
			t.Errorf("expected default max pages, got %d", cfg.MaxPages)
		}
		if !cfg.OCREnabled {
			t.Error("expected OCR enabled by default")
		}
		if cfg.OutputDir != config.DefaultOutputDir {
			t.Errorf("expected default output dir, got %q", cfg.OutputDir)
		}
	})

	t.Run("flag overrides", func(t *testing.T) {
		t.Parallel()

		cmd := NewRunCmd()
		if err := cmd.Flags().Set("max-pages", "7"); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("timeout", "5s"); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("no-ocr", "true"); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MaxPages != 7 {
			t.Errorf("expected 7 max pages, got %d", cfg.MaxPages)
		}
		if cfg.Timeout != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", cfg.Timeout)
		}
		if cfg.OCREnabled {
			t.Error("expected OCR disabled with --no-ocr")
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		t.Parallel()

		cmd := NewRunCmd()
		if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
			t.Fatal(err)
		}

		if _, err := buildConfig(cmd, []string{"https://example.com"}); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})

	t.Run("loads questions from config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".cherpy")
		content := "questions:\n  - What does the site sell?\nllm:\n  model: test-model\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cmd := NewRunCmd()
		if err := cmd.Flags().Set("config", path); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Questions) != 1 || cfg.Questions[0] != "What does the site sell?" {
			t.Errorf("unexpected questions: %v", cfg.Questions)
		}
		if cfg.Model != "test-model" {
			t.Errorf("expected model override, got %q", cfg.Model)
		}
	})
}

// TestMarkdownReportPath tests report path derivation.
func TestMarkdownReportPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"answers.txt", "answers.md"},
		{"out/answers.txt", "out/answers.md"},
		{"answers", "answers.md"},
	}

	for _, tt := range tests {
		if got := markdownReportPath(tt.input); got != tt.want {
			t.Errorf("markdownReportPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

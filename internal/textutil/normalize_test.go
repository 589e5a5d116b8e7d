package textutil

import (
	"testing"
)

// TestClean tests text normalization.
func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "plain text unchanged",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "collapses whitespace runs",
			input: "hello   \t world",
			want:  "hello world",
		},
		{
			name:  "newlines become spaces",
			input: "line one\nline two",
			want:  "line one line two",
		},
		{
			name:  "trims leading and trailing whitespace",
			input: "  padded  ",
			want:  "padded",
		},
		{
			name:  "strips emoji and symbols",
			input: "hello \U0001F600 world ™",
			want:  "hello world",
		},
		{
			name:  "keeps basic punctuation",
			input: "Wait, what?! (Really: yes; no.)",
			want:  "Wait, what?! (Really: yes; no.)",
		},
		{
			name:  "keeps cyrillic text",
			input: "Привет, мир!",
			want:  "Привет, мир!",
		},
		{
			name:  "repairs hyphenated line breaks",
			input: "exam-\nple",
			want:  "example",
		},
		{
			name:  "hyphen inside word survives",
			input: "well-known",
			want:  "well-known",
		},
		{
			name:  "strips control characters",
			input: "a\x00b\x07c",
			want:  "abc",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestCleanIdempotent verifies that applying Clean twice equals applying
// it once.
func TestCleanIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"hello   world",
		"exam-\nple with\ttabs and\nnewlines",
		"Привет,   мир! ™",
		"- leading hyphen break",
		"trailing hyphen -",
	}

	for _, input := range inputs {
		once := Clean(input)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

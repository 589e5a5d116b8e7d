package crawler

import (
	"reflect"
	"testing"
)

// TestClassifyLinks tests link partitioning relative to a root host.
func TestClassifyLinks(t *testing.T) {
	t.Parallel()

	t.Run("partitions every link into exactly one bucket", func(t *testing.T) {
		t.Parallel()

		links := []string{
			"https://example.com/about",
			"https://other.example/x",
			"https://example.com/doc.pdf",
			"https://example.com/pic.jpg",
			"https://example.com/data.csv",
		}

		set := ClassifyLinks("example.com", links)

		if !reflect.DeepEqual(set.Internal, []string{"https://example.com/about"}) {
			t.Errorf("unexpected internal: %v", set.Internal)
		}
		if !reflect.DeepEqual(set.External, []string{"https://other.example/x"}) {
			t.Errorf("unexpected external: %v", set.External)
		}
		if !reflect.DeepEqual(set.Files.PDF, []string{"https://example.com/doc.pdf"}) {
			t.Errorf("unexpected pdf: %v", set.Files.PDF)
		}
		if !reflect.DeepEqual(set.Files.Images, []string{"https://example.com/pic.jpg"}) {
			t.Errorf("unexpected images: %v", set.Files.Images)
		}
		if !reflect.DeepEqual(set.Files.Other, []string{"https://example.com/data.csv"}) {
			t.Errorf("unexpected other: %v", set.Files.Other)
		}

		total := len(set.Internal) + len(set.External) +
			len(set.Files.PDF) + len(set.Files.Images) + len(set.Files.Other)
		if total != len(links) {
			t.Errorf("expected %d classified links, got %d", len(links), total)
		}
	})

	t.Run("preserves discovery order and deduplicates", func(t *testing.T) {
		t.Parallel()

		links := []string{
			"https://example.com/b",
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/c",
		}

		set := ClassifyLinks("example.com", links)

		want := []string{"https://example.com/b", "https://example.com/a", "https://example.com/c"}
		if !reflect.DeepEqual(set.Internal, want) {
			t.Errorf("expected %v, got %v", want, set.Internal)
		}
	})

	t.Run("extension matching is case-insensitive", func(t *testing.T) {
		t.Parallel()

		set := ClassifyLinks("example.com", []string{
			"https://example.com/REPORT.PDF",
			"https://example.com/Photo.JPG",
		})

		if len(set.Files.PDF) != 1 {
			t.Errorf("expected uppercase .PDF to classify as pdf: %v", set.Files.PDF)
		}
		if len(set.Files.Images) != 1 {
			t.Errorf("expected uppercase .JPG to classify as image: %v", set.Files.Images)
		}
	})

	t.Run("host comparison is case-insensitive", func(t *testing.T) {
		t.Parallel()

		set := ClassifyLinks("example.com", []string{"https://EXAMPLE.COM/page"})

		if len(set.Internal) != 1 {
			t.Errorf("expected uppercase host to be internal: %+v", set)
		}
	})

	t.Run("dot in directory does not make a file link", func(t *testing.T) {
		t.Parallel()

		set := ClassifyLinks("example.com", []string{"https://example.com/v1.2/docs"})

		if len(set.Internal) != 1 {
			t.Errorf("expected path with dotted directory to be internal: %+v", set)
		}
	})

	t.Run("excludes unparseable and hostless links", func(t *testing.T) {
		t.Parallel()

		set := ClassifyLinks("example.com", []string{
			"://bad",
			"/relative/path",
			"https://example.com/ok",
		})

		total := len(set.Internal) + len(set.External) +
			len(set.Files.PDF) + len(set.Files.Images) + len(set.Files.Other)
		if total != 1 {
			t.Errorf("expected only the valid link to be classified, got %+v", set)
		}
	})

	t.Run("empty input yields empty non-nil buckets", func(t *testing.T) {
		t.Parallel()

		set := ClassifyLinks("example.com", nil)

		if set.Internal == nil || set.External == nil ||
			set.Files.PDF == nil || set.Files.Images == nil || set.Files.Other == nil {
			t.Error("buckets should be empty slices, not nil")
		}
	})
}

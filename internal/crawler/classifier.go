package crawler

import (
	"net/url"
	"strings"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/model"
)

// imageExtensions are the path suffixes classified as image file links.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}

// ClassifyLinks partitions resolved absolute anchor URLs into the buckets of
// a model.LinkSet, relative to the crawl's root host.
//
// Classification rules, applied in order:
//   - no host after parsing: excluded entirely
//   - different host: external
//   - path ends in ".pdf" (case-insensitive): files.pdf
//   - path ends in an image extension (case-insensitive): files.images
//   - final path segment contains a ".": files.other
//   - otherwise: internal
//
// Each URL lands in exactly one bucket. Buckets preserve discovery order and
// are deduplicated, so the "first N" fan-out selections are reproducible.
// The function is pure: no I/O, no side effects.
func ClassifyLinks(rootHost string, links []string) model.LinkSet {
	set := model.LinkSet{
		Internal: make([]string, 0),
		External: make([]string, 0),
		Files: model.FileLinks{
			PDF:    make([]string, 0),
			Images: make([]string, 0),
			Other:  make([]string, 0),
		},
	}

	seen := make(map[string]bool)
	for _, link := range links {
		if seen[link] {
			continue
		}
		seen[link] = true

		u, err := url.Parse(link)
		if err != nil || u.Host == "" {
			continue
		}

		if !strings.EqualFold(u.Host, rootHost) {
			set.External = append(set.External, link)
			continue
		}

		path := strings.ToLower(u.Path)
		switch {
		case strings.HasSuffix(path, ".pdf"):
			set.Files.PDF = append(set.Files.PDF, link)
		case hasImageExtension(path):
			set.Files.Images = append(set.Files.Images, link)
		case lastSegmentHasDot(u.Path):
			set.Files.Other = append(set.Files.Other, link)
		default:
			set.Internal = append(set.Internal, link)
		}
	}

	return set
}

// hasImageExtension reports whether the lowercased path ends in a known
// image extension.
func hasImageExtension(path string) bool {
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// lastSegmentHasDot reports whether the final path segment contains a dot,
// the heuristic for "links to a file of some other type".
func lastSegmentHasDot(path string) bool {
	segment := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		segment = path[idx+1:]
	}
	return strings.Contains(segment, ".")
}

package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/extract"
)

// countingHandler wraps a handler and records how many times each path
// was fetched.
type countingHandler struct {
	mu      sync.Mutex
	counts  map[string]int
	handler http.Handler
}

func newCountingHandler(handler http.Handler) *countingHandler {
	return &countingHandler{
		counts:  make(map[string]int),
		handler: handler,
	}
}

func (c *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.counts[r.URL.Path]++
	c.mu.Unlock()
	c.handler.ServeHTTP(w, r)
}

func (c *countingHandler) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[path]
}

// newTestSpider builds a spider backed by the given server.
func newTestSpider(srv *httptest.Server, opts ...SpiderOption) *Spider {
	extractor := extract.NewExtractor(srv.Client())
	return NewSpider(srv.Client(), extractor, opts...)
}

// htmlPage writes a minimal HTML page with the given body fragment.
func htmlPage(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<html><head><title>t</title></head><body>%s</body></html>", body)
}

// TestCrawlSinglePage tests a crawl of a site with one page.
func TestCrawlSinglePage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		htmlPage(w, "<p>hello world</p>")
	}))
	defer srv.Close()

	spider := newTestSpider(srv)

	records, err := spider.Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if !strings.Contains(records[0].Text, "hello world") {
		t.Errorf("unexpected page text: %q", records[0].Text)
	}
	if spider.Stats().URLsVisited != 1 {
		t.Errorf("expected 1 visited URL, got %d", spider.Stats().URLsVisited)
	}
}

// TestCrawlFollowsInternalLinks tests breadth-first traversal of
// same-host links.
func TestCrawlFollowsInternalLinks(t *testing.T) {
	t.Parallel()

	var baseURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		htmlPage(w, fmt.Sprintf(`<a href="%s/a">a</a> <a href="%s/b">b</a>`, baseURL, baseURL))
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		htmlPage(w, "<p>page a</p>")
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		htmlPage(w, "<p>page b</p>")
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	baseURL = srv.URL

	spider := newTestSpider(srv)

	records, err := spider.Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	// Root first, then discovery order.
	if records[1].URL != srv.URL+"/a" || records[2].URL != srv.URL+"/b" {
		t.Errorf("unexpected traversal order: %s, %s", records[1].URL, records[2].URL)
	}
}

// TestCrawlRespectsMaxPages tests the global page cap.
func TestCrawlRespectsMaxPages(t *testing.T) {
	t.Parallel()

	var baseURL string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Every page links to two fresh pages, an unbounded tree.
		htmlPage(w, fmt.Sprintf(`<a href="%s%sx">x</a> <a href="%s%sy">y</a>`,
			baseURL, r.URL.Path, baseURL, r.URL.Path))
	})

	srv := httptest.NewServer(handler)
	defer srv.Close()
	baseURL = srv.URL

	spider := newTestSpider(srv, WithMaxPages(5))

	records, err := spider.Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) > 5 {
		t.Errorf("expected at most 5 records, got %d", len(records))
	}
	if got := spider.Stats().URLsVisited; got > 5 {
		t.Errorf("expected at most 5 visited URLs, got %d", got)
	}
}

// TestCrawlNoDuplicateFetch tests that each URL is fetched at most once
// even when pages link to each other.
func TestCrawlNoDuplicateFetch(t *testing.T) {
	t.Parallel()

	var baseURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		htmlPage(w, fmt.Sprintf(`<a href="%s/a">a</a>`, baseURL))
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		// Links back to the root and to itself, with a fragment variant.
		htmlPage(w, fmt.Sprintf(`<a href="%s/">root</a> <a href="%s/a">self</a> <a href="%s/a#top">frag</a>`,
			baseURL, baseURL, baseURL))
	})

	counting := newCountingHandler(mux)
	srv := httptest.NewServer(counting)
	defer srv.Close()
	baseURL = srv.URL

	spider := newTestSpider(srv)

	if _, err := spider.Crawl(context.Background(), srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := counting.count("/"); got != 1 {
		t.Errorf("root fetched %d times, want 1", got)
	}
	if got := counting.count("/a"); got != 1 {
		t.Errorf("/a fetched %d times, want 1", got)
	}
}

// TestCrawlSkipsFailuresAndNonHTML tests that bad pages are visited but
// not recorded, and do not abort the crawl.
func TestCrawlSkipsFailuresAndNonHTML(t *testing.T) {
	t.Parallel()

	var baseURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		htmlPage(w, fmt.Sprintf(
			`<a href="%s/missing">m</a> <a href="%s/data">d</a> <a href="%s/ok">ok</a>`,
			baseURL, baseURL, baseURL))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"k":"v"}`)
	})
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		htmlPage(w, "<p>fine</p>")
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	baseURL = srv.URL

	spider := newTestSpider(srv)

	records, err := spider.Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records (root and /ok), got %d", len(records))
	}
	// Failed and non-HTML URLs still count as visited.
	if got := spider.Stats().URLsVisited; got != 4 {
		t.Errorf("expected 4 visited URLs, got %d", got)
	}
}

// TestCrawlPageLinkLimit tests the per-page fan-out cap.
func TestCrawlPageLinkLimit(t *testing.T) {
	t.Parallel()

	var baseURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		links := ""
		for i := 0; i < 10; i++ {
			links += fmt.Sprintf(`<a href="%s/p%d">p%d</a> `, baseURL, i, i)
		}
		htmlPage(w, links)
	})
	for i := 0; i < 10; i++ {
		mux.HandleFunc(fmt.Sprintf("/p%d", i), func(w http.ResponseWriter, r *http.Request) {
			htmlPage(w, "<p>leaf</p>")
		})
	}

	srv := httptest.NewServer(mux)
	defer srv.Close()
	baseURL = srv.URL

	spider := newTestSpider(srv, WithPageLinkLimit(2))

	records, err := spider.Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Root plus the first two links only.
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[1].URL != srv.URL+"/p0" || records[2].URL != srv.URL+"/p1" {
		t.Errorf("expected first two links in order, got %s, %s", records[1].URL, records[2].URL)
	}
}

// TestCrawlStaysOnDomain tests that external links are never fetched.
func TestCrawlStaysOnDomain(t *testing.T) {
	t.Parallel()

	external := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("external server should never be fetched")
	}))
	defer external.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		htmlPage(w, fmt.Sprintf(`<a href="%s/away">away</a>`, external.URL))
	}))
	defer srv.Close()

	spider := newTestSpider(srv)

	records, err := spider.Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if len(records[0].Links.External) != 1 {
		t.Errorf("external link should be recorded but not followed: %+v", records[0].Links)
	}
}

// TestCrawlInvalidRoot tests root URL validation.
func TestCrawlInvalidRoot(t *testing.T) {
	t.Parallel()

	spider := NewSpider(http.DefaultClient, extract.NewExtractor(http.DefaultClient))

	if _, err := spider.Crawl(context.Background(), "not a url"); err == nil {
		t.Error("expected error for invalid root URL")
	}
}

// TestCrawlCancellation tests that a cancelled context stops the crawl.
func TestCrawlCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		htmlPage(w, "<p>x</p>")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	spider := newTestSpider(srv)

	if _, err := spider.Crawl(ctx, srv.URL); err == nil {
		t.Error("expected context error")
	}
}

// TestSpiderReset tests state clearing between runs.
func TestSpiderReset(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		htmlPage(w, "<p>x</p>")
	}))
	defer srv.Close()

	spider := newTestSpider(srv)

	for i := 0; i < 2; i++ {
		spider.Reset()
		records, err := spider.Crawl(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i+1, err)
		}
		if len(records) != 1 {
			t.Errorf("run %d: expected 1 record, got %d", i+1, len(records))
		}
		if spider.Stats().URLsVisited != 1 {
			t.Errorf("run %d: expected fresh visited state, got %d", i+1, spider.Stats().URLsVisited)
		}
	}
}

// TestNormalizeURL tests URL normalization for deduplication.
func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{"fragment ignored", "https://example.com/a#top", "https://example.com/a", true},
		{"host case ignored", "https://EXAMPLE.com/a", "https://example.com/a", true},
		{"empty path equals slash", "https://example.com", "https://example.com/", true},
		{"different paths differ", "https://example.com/a", "https://example.com/b", false},
		{"query matters", "https://example.com/a?x=1", "https://example.com/a", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := normalizeURL(tt.a) == normalizeURL(tt.b)
			if got != tt.same {
				t.Errorf("normalizeURL(%q) == normalizeURL(%q): got %v, want %v",
					tt.a, tt.b, got, tt.same)
			}
		})
	}
}

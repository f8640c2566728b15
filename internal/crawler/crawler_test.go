package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
)

func testCrawlConfig() config.CrawlConfig {
	return config.CrawlConfig{
		MaxPages:    10,
		TimeoutSecs: 5,
		Keywords:    []string{"about", "contact", "services", "team"},
	}
}

func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><head><title>Acme Plumbing</title></head><body>
			<h1>Welcome to Acme</h1>
			<script>var hidden = "not text";</script>
			<a href="/about">About us</a>
			<a href="/contact">Contact</a>
			<a href="/blog/post-1">Blog</a>
			<a href="https://external.example/contact">Partner</a>
		</body></html>`)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title>About</title></head><body>
			<p>Family owned since 1985.</p>
			<a href="/contact">Contact</a>
		</body></html>`)
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title>Contact</title></head><body>
			<a href="mailto:jane@acme.example?subject=hi">Email Jane</a>
			<p>Reach us at office@acme.example</p>
		</body></html>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestCrawlFollowsKeywordLinks(t *testing.T) {
	server := newTestSite(t)
	c := New(testCrawlConfig())

	result := c.Crawl(context.Background(), server.URL, 10)
	require.True(t, result.RootFetched)
	require.Len(t, result.Pages, 3)

	// BFS order: root first, then discovered links in document order.
	assert.Equal(t, "Acme Plumbing", result.Pages[0].Title)
	assert.Equal(t, "About", result.Pages[1].Title)
	assert.Equal(t, "Contact", result.Pages[2].Title)

	// /blog/post-1 has no keyword, external.example is off-host.
	for _, page := range result.Pages {
		assert.NotContains(t, page.URL, "blog")
		assert.NotContains(t, page.URL, "external.example")
	}

	// script contents are not visible text
	assert.Contains(t, result.Pages[0].Text, "Welcome to Acme")
	assert.NotContains(t, result.Pages[0].Text, "hidden")

	// mailto links are carried through raw
	assert.Equal(t, []string{"jane@acme.example?subject=hi"}, result.Pages[2].Mailtos)
}

func TestCrawlHonorsMaxPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// every page links to five more keyword pages
		fmt.Fprint(w, "<html><body>")
		for i := 0; i < 5; i++ {
			fmt.Fprintf(w, `<a href="/about-%s-%d">link</a>`, r.URL.Path, i)
		}
		fmt.Fprint(w, "</body></html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(testCrawlConfig())
	result := c.Crawl(context.Background(), server.URL, 3)
	assert.True(t, result.RootFetched)
	assert.Len(t, result.Pages, 3)
}

func TestCrawlRootFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(testCrawlConfig())
	result := c.Crawl(context.Background(), server.URL, 10)
	assert.False(t, result.RootFetched)
	assert.Empty(t, result.Pages)
}

func TestCrawlInnerPageFailureIsSkipped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/about">About</a><a href="/contact">C</a></body></html>`)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title>Contact</title></head><body>ok</body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(testCrawlConfig())
	result := c.Crawl(context.Background(), server.URL, 10)
	assert.True(t, result.RootFetched)
	require.Len(t, result.Pages, 2)
	assert.Equal(t, "Contact", result.Pages[1].Title)
}

func TestCrawlInvalidRoot(t *testing.T) {
	c := New(testCrawlConfig())
	result := c.Crawl(context.Background(), "not a url", 10)
	assert.False(t, result.RootFetched)
	assert.Empty(t, result.Pages)
}

func TestSortedPages(t *testing.T) {
	result := Result{Pages: []model.CrawledPage{
		{URL: "https://acme.example/contact"},
		{URL: "https://acme.example/"},
		{URL: "https://acme.example/about"},
	}}
	sorted := result.SortedPages()
	assert.Equal(t, "https://acme.example/", sorted[0].URL)
	assert.Equal(t, "https://acme.example/about", sorted[1].URL)
	assert.Equal(t, "https://acme.example/contact", sorted[2].URL)
	// original order untouched
	assert.Equal(t, "https://acme.example/contact", result.Pages[0].URL)
}

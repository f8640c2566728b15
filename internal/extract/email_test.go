package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func TestFromHTML(t *testing.T) {
	html := `<html><body>
		<a href="mailto:Jane.Doe@Acme.example?subject=Hello">Email Jane</a>
		<a href="mailto:info@acme.example">Email us</a>
		<p>You can also reach bob@acme.example, or call us.</p>
		<script>var fake = "script.only@acme.example";</script>
	</body></html>`

	emails := FromHTML(html)

	// info@ is role-filtered, script text is not visible,
	// output is lowercased and sorted.
	assert.Equal(t, []string{"bob@acme.example", "jane.doe@acme.example"}, emails)
}

func TestFromHTMLRoleFilterAfterUnion(t *testing.T) {
	html := `<html><body>
		<a href="mailto:info@x.com">info</a>
		<p>info@x.com jane@x.com</p>
	</body></html>`

	assert.Equal(t, []string{"jane@x.com"}, FromHTML(html))
}

func TestFromHTMLTrailingPunctuation(t *testing.T) {
	html := `<html><body><p>Write to jane@acme.example.</p></body></html>`
	assert.Equal(t, []string{"jane@acme.example"}, FromHTML(html))
}

func TestFromPages(t *testing.T) {
	pages := []model.CrawledPage{
		{
			URL:     "https://acme.example/",
			Text:    "Welcome. Questions? sales@acme.example or amy@acme.example",
			Mailtos: []string{"Zoe@acme.example?body=hi"},
		},
		{
			URL:  "https://acme.example/contact",
			Text: "amy@acme.example is our manager",
		},
	}

	emails := FromPages(pages)
	assert.Equal(t, []string{"amy@acme.example", "zoe@acme.example"}, emails)
}

func TestFromPagesEmpty(t *testing.T) {
	assert.Empty(t, FromPages(nil))
	assert.Empty(t, FromPages([]model.CrawledPage{{Text: "no addresses here"}}))
}

func TestFetchAndExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><a href="mailto:jane@acme.example">mail</a></body></html>`)
	}))
	defer server.Close()

	emails := FetchAndExtract(context.Background(), server.URL, 5*time.Second)
	assert.Equal(t, []string{"jane@acme.example"}, emails)
}

func TestFetchAndExtractFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	assert.Empty(t, FetchAndExtract(context.Background(), server.URL, 5*time.Second))
	assert.Empty(t, FetchAndExtract(context.Background(), "http://127.0.0.1:1", time.Second))
}

func TestUnion(t *testing.T) {
	merged := Union(
		[]string{"jane@x.com", "info@x.com"},
		[]string{"Jane@X.com", "bob@x.com"},
	)
	assert.Equal(t, []string{"bob@x.com", "jane@x.com"}, merged)
}

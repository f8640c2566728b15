// Package extract harvests contact email addresses from crawled pages.
// Two sources are unioned: mailto link targets and email-shaped tokens in
// visible page text. Role inboxes and blanks are filtered out after the
// union, and the result is lowercased, deduplicated and sorted.
package extract

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/scoring"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

const (
	mailtoCutset = " ,;:.()[]<>\"'"
	textCutset   = " ,;:.()[]"
)

// FromPages extracts the filtered, sorted email set from a crawl result.
func FromPages(pages []model.CrawledPage) []string {
	found := map[string]bool{}
	for _, page := range pages {
		for _, target := range page.Mailtos {
			if email := cleanMailto(target); email != "" {
				found[email] = true
			}
		}
		collectFromText(page.Text, found)
	}
	return filterAndSort(found)
}

// FromHTML extracts emails from a single raw HTML document.
func FromHTML(html string) []string {
	found := map[string]bool{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	doc.Find(`a[href^="mailto:"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if email := cleanMailto(strings.TrimPrefix(href, "mailto:")); email != "" {
			found[email] = true
		}
	})
	doc.Find("script, style, noscript").Remove()
	collectFromText(doc.Text(), found)
	return filterAndSort(found)
}

// FetchAndExtract fetches a URL and extracts emails from its body. Any
// fetch failure yields an empty set, never an error.
func FetchAndExtract(ctx context.Context, rawURL string, timeout time.Duration) []string {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		zap.L().Debug("email fetch failed", zap.String("url", rawURL), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return FromHTML(string(body))
}

// cleanMailto normalizes a raw mailto target: query parameters dropped,
// surrounding punctuation and quotes trimmed, lowercased.
func cleanMailto(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}
	return strings.ToLower(strings.Trim(target, mailtoCutset))
}

// collectFromText scans visible text for email-shaped tokens.
func collectFromText(text string, found map[string]bool) {
	for _, match := range emailPattern.FindAllString(text, -1) {
		email := strings.ToLower(strings.TrimRight(match, textCutset))
		if email != "" {
			found[email] = true
		}
	}
}

// filterAndSort applies the role filter after the union and imposes a
// lexicographic order so output is reproducible.
func filterAndSort(found map[string]bool) []string {
	emails := make([]string, 0, len(found))
	for email := range found {
		if email == "" || scoring.IsRoleAddress(email) {
			continue
		}
		emails = append(emails, email)
	}
	sort.Strings(emails)
	return emails
}

// Union merges multiple email sets into one filtered, sorted set.
func Union(sets ...[]string) []string {
	found := map[string]bool{}
	for _, set := range sets {
		for _, email := range set {
			email = strings.ToLower(strings.TrimSpace(email))
			if email != "" {
				found[email] = true
			}
		}
	}
	return filterAndSort(found)
}

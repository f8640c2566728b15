// Package crawler implements a bounded breadth-first crawl of a single
// business website. It follows only same-host links whose URL contains a
// configured relevance keyword, and never fetches more than the page cap.
package crawler

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// Result is the outcome of one site crawl. RootFetched distinguishes "site
// unreachable" from "site reachable but nothing found"; page fetch errors
// below the root are swallowed and only shrink Pages.
type Result struct {
	RootFetched bool
	Pages       []model.CrawledPage
}

// SortedPages returns the crawled pages ordered lexicographically by URL,
// for consumers that need a stable view independent of traversal order.
func (r *Result) SortedPages() []model.CrawledPage {
	pages := make([]model.CrawledPage, len(r.Pages))
	copy(pages, r.Pages)
	sort.Slice(pages, func(i, j int) bool { return pages[i].URL < pages[j].URL })
	return pages
}

// AllText concatenates the text of every crawled page in traversal order.
func (r *Result) AllText() string {
	var b strings.Builder
	for _, page := range r.Pages {
		b.WriteString(page.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// Crawler fetches pages through a colly collector, one synchronous visit
// per frontier entry.
type Crawler struct {
	cfg config.CrawlConfig
}

// New returns a crawler configured from CrawlConfig.
func New(cfg config.CrawlConfig) *Crawler {
	return &Crawler{cfg: cfg}
}

// Crawl walks the site at rootURL breadth-first. Links are enqueued only
// when they resolve to the root's host, have not been seen, and contain one
// of the configured URL keywords. At most maxPages pages are fetched; the
// root page is exempt from the keyword filter. Crawl never returns an
// error: a dead root yields RootFetched=false, a dead inner page is
// dropped.
func (c *Crawler) Crawl(ctx context.Context, rootURL string, maxPages int) Result {
	result := Result{}
	if maxPages <= 0 {
		return result
	}

	root, err := url.Parse(rootURL)
	if err != nil || root.Host == "" {
		zap.L().Warn("crawl root is not a valid absolute URL", zap.String("url", rootURL))
		return result
	}
	rootHost := canonicalHost(root.Host)

	frontier := []string{root.String()}
	seen := map[string]bool{root.String(): true}

	for len(frontier) > 0 && len(result.Pages) < maxPages {
		if ctx.Err() != nil {
			zap.L().Debug("crawl cancelled", zap.String("root", rootURL))
			break
		}

		pageURL := frontier[0]
		frontier = frontier[1:]

		doc, finalURL, err := c.fetch(pageURL)
		if err != nil {
			if len(result.Pages) == 0 && !result.RootFetched {
				// Root itself failed: explicit failure marker.
				zap.L().Warn("crawl root fetch failed",
					zap.String("url", pageURL), zap.Error(err))
				return result
			}
			zap.L().Debug("crawl page fetch failed, skipping",
				zap.String("url", pageURL), zap.Error(err))
			continue
		}
		result.RootFetched = true

		page := model.CrawledPage{
			URL:     finalURL.String(),
			Title:   strings.TrimSpace(doc.Find("title").First().Text()),
			Text:    visibleText(doc),
			Mailtos: mailtoLinks(doc),
		}
		result.Pages = append(result.Pages, page)

		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			link := resolveLink(finalURL, href)
			if link == "" || seen[link] {
				return
			}
			if canonicalHost(hostOf(link)) != rootHost {
				return
			}
			if !c.matchesKeyword(link) {
				return
			}
			seen[link] = true
			frontier = append(frontier, link)
		})
	}

	zap.L().Debug("crawl complete",
		zap.String("root", rootURL),
		zap.Int("pages", len(result.Pages)))
	return result
}

// fetch retrieves one page through a fresh collector and returns its parsed
// document together with the final URL after redirects.
func (c *Crawler) fetch(pageURL string) (*goquery.Document, *url.URL, error) {
	collector := colly.NewCollector()
	collector.AllowURLRevisit = false
	collector.IgnoreRobotsTxt = true
	if c.cfg.UserAgent != "" {
		collector.UserAgent = c.cfg.UserAgent
	}
	collector.SetRequestTimeout(time.Duration(c.cfg.TimeoutSecs) * time.Second)

	var doc *goquery.Document
	var finalURL *url.URL
	var fetchErr error

	collector.OnResponse(func(r *colly.Response) {
		parsed, err := goquery.NewDocumentFromReader(strings.NewReader(string(r.Body)))
		if err != nil {
			fetchErr = err
			return
		}
		doc = parsed
		finalURL = r.Request.URL
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := collector.Visit(pageURL); err != nil {
		return nil, nil, err
	}
	collector.Wait()

	if fetchErr != nil {
		return nil, nil, fetchErr
	}
	if doc == nil {
		return nil, nil, eris.New("crawler: no response received")
	}
	return doc, finalURL, nil
}

// matchesKeyword reports whether the URL text contains any configured
// relevance keyword.
func (c *Crawler) matchesKeyword(link string) bool {
	lower := strings.ToLower(link)
	for _, keyword := range c.cfg.Keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// resolveLink turns an href into a crawlable absolute http(s) URL with any
// fragment dropped, or "" when it cannot be crawled.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	abs.Fragment = ""
	return abs.String()
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Host
}

// canonicalHost compares hosts with a leading www. stripped so that
// example.com and www.example.com count as the same site.
func canonicalHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// visibleText extracts the page's human-readable text with scripts and
// styles removed and whitespace collapsed. Removal mutates the document,
// which is fine: only anchor tags and the title are read afterwards.
func visibleText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()
	body := doc.Find("body")
	var text string
	if body.Length() > 0 {
		text = body.Text()
	} else {
		text = doc.Text()
	}
	return strings.Join(strings.Fields(text), " ")
}

// mailtoLinks collects raw mailto targets found on the page.
func mailtoLinks(doc *goquery.Document) []string {
	var targets []string
	doc.Find(`a[href^="mailto:"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		targets = append(targets, strings.TrimPrefix(href, "mailto:"))
	})
	return targets
}

// Package crawl discovers story pages from a listing page.
// Links are read from the listing itself first; when the listing yields
// nothing (for example a client-rendered page) sitemap.xml is consulted.
package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/storypipe/core"
)

// cardSelectors locate story links on a listing page, in priority order.
// The first selector that yields any link wins.
var cardSelectors = []string{
	"a.article-card",
	"a.card",
	"a.story-card",
	"article a",
}

// sitemapURL holds a URL from a sitemap.xml.
type sitemapURL struct {
	Loc string `xml:"loc"`
}

// sitemapIndex is the root element of a sitemap.xml.
type sitemapIndex struct {
	URLs []sitemapURL `xml:"url"`
}

// DiscoverStories returns up to limit story URLs linked from listingURL.
// limit <= 0 returns every link found.
func DiscoverStories(ctx context.Context, listingURL string, limit int, fetcher core.Fetcher) ([]string, error) {
	listing, err := url.Parse(listingURL)
	if err != nil || listing.Host == "" {
		return nil, fmt.Errorf("invalid listing URL %q", listingURL)
	}

	result, err := fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}

	hrefs, err := extractStoryLinks(result.HTML, listing.Path)
	if err != nil {
		return nil, fmt.Errorf("parsing listing: %w", err)
	}

	queue := collect(hrefs, listing)
	if queue.Len() == 0 {
		sitemap := fmt.Sprintf("%s://%s/sitemap.xml", listing.Scheme, listing.Host)
		locs, err := discoverFromSitemap(ctx, sitemap, fetcher)
		if err == nil {
			queue = collect(filterByPrefix(locs, listing.Path), listing)
		}
	}

	return queue.First(limit), nil
}

// extractStoryLinks reads candidate hrefs from a listing page. Without any
// card match it falls back to anchors pointing below the listing path.
func extractStoryLinks(html string, listingPath string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	for _, sel := range cardSelectors {
		var links []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok && strings.TrimSpace(href) != "" {
				links = append(links, strings.TrimSpace(href))
			}
		})
		if len(links) > 0 {
			return links, nil
		}
	}

	prefix := strings.TrimSuffix(listingPath, "/")
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if prefix != "" && strings.Contains(href, prefix) {
			links = append(links, href)
		}
	})
	return links, nil
}

// collect resolves hrefs against the listing and keeps unique, same-domain,
// non-asset URLs other than the listing itself.
func collect(hrefs []string, listing *url.URL) *Queue {
	queue := NewQueue()
	queue.Skip(NormalizeURL(listing.String()))

	for _, href := range hrefs {
		resolved := resolveURL(href, listing)
		if resolved == "" {
			continue
		}
		if !IsSameDomain(resolved, listing.Host) || IsStaticAsset(resolved) {
			continue
		}
		queue.Add(NormalizeURL(resolved))
	}
	return queue
}

// discoverFromSitemap fetches and parses sitemap.xml.
func discoverFromSitemap(ctx context.Context, sitemapURL string, fetcher core.Fetcher) ([]string, error) {
	result, err := fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	var sitemap sitemapIndex
	if err := xml.Unmarshal([]byte(result.HTML), &sitemap); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(sitemap.URLs))
	for _, u := range sitemap.URLs {
		if loc := strings.TrimSpace(u.Loc); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls, nil
}

// filterByPrefix keeps URLs whose path lies below listingPath.
func filterByPrefix(urls []string, listingPath string) []string {
	prefix := strings.TrimSuffix(listingPath, "/") + "/"
	var out []string
	for _, raw := range urls {
		parsed, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if prefix == "/" || strings.HasPrefix(parsed.Path, prefix) {
			out = append(out, raw)
		}
	}
	return out
}

// resolveURL resolves a potentially relative URL against a base.
func resolveURL(href string, base *url.URL) string {
	// Skip mailto, javascript, etc.
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "#") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}

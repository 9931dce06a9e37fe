// Package scrape runs the story pipeline end to end:
// discover → fetch → extract → segment → audit, with optional raw Markdown
// snapshots. Stories are processed by a bounded pool of workers that share
// one politeness rate limit.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/gaurav-prasanna/storypipe/core"
	"github.com/gaurav-prasanna/storypipe/core/audit"
	"github.com/gaurav-prasanna/storypipe/crawl"
)

// Stages holds the pipeline components. Normalizer may be nil when raw
// snapshots are not wanted.
type Stages struct {
	Fetcher    core.Fetcher
	Extractor  core.Extractor
	Normalizer core.Normalizer
	Segmenter  core.Segmenter
}

// Options tunes a Scraper.
type Options struct {
	BaseURL     string
	ListingPath string
	// Delay is the minimum spacing between story requests across all
	// workers. Zero disables throttling.
	Delay   time.Duration
	Workers int
	// RequiredBlocks are audited for content. Empty means every block of
	// the parsed document.
	RequiredBlocks []string
	// ExportRaw keeps a Markdown rendition of each story's HTML.
	ExportRaw bool
	// UserAgent is matched against robots.txt groups.
	UserAgent string
	Logger    *slog.Logger
}

// Scraper collects and structures success stories from one listing page.
type Scraper struct {
	stages     Stages
	opts       Options
	listingURL string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a Scraper. Fetcher, Extractor and Segmenter are required.
func New(stages Stages, opts Options) (*Scraper, error) {
	if stages.Fetcher == nil || stages.Extractor == nil || stages.Segmenter == nil {
		return nil, errors.New("scraper needs a fetcher, an extractor and a segmenter")
	}
	if opts.ExportRaw && stages.Normalizer == nil {
		return nil, errors.New("raw export needs a normalizer")
	}

	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q (must include scheme, e.g. https://example.com)", opts.BaseURL)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	s := &Scraper{
		stages:     stages,
		opts:       opts,
		listingURL: strings.TrimSuffix(opts.BaseURL, "/") + "/" + strings.TrimPrefix(opts.ListingPath, "/"),
		logger:     opts.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if opts.Delay > 0 {
		s.limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}
	return s, nil
}

// ListingURL returns the page story links are discovered from.
func (s *Scraper) ListingURL() string { return s.listingURL }

// Discover returns up to limit story URLs from the listing page.
func (s *Scraper) Discover(ctx context.Context, limit int) ([]string, error) {
	urls, err := crawl.DiscoverStories(ctx, s.listingURL, limit, s.stages.Fetcher)
	if err != nil {
		return nil, err
	}
	s.logger.Info("discovered stories", "listing", s.listingURL, "count", len(urls))
	return urls, nil
}

// RobotsAllowed reports whether robots.txt permits fetching the listing.
// An unreadable robots.txt counts as disallowed and is logged.
func (s *Scraper) RobotsAllowed(ctx context.Context) bool {
	ok, err := crawl.RobotsAllowed(ctx, s.stages.Fetcher, s.listingURL, s.opts.UserAgent)
	if err != nil {
		s.logger.Warn("could not read robots.txt", "url", s.listingURL, "error", err)
		return false
	}
	if !ok {
		s.logger.Warn("robots.txt disallows scraping", "url", s.listingURL)
	}
	return ok
}

// Scrape discovers up to limit stories and processes them. Stories that
// fail are logged and skipped; the result keeps discovery order. Only
// discovery failures and cancellation are returned as errors.
func (s *Scraper) Scrape(ctx context.Context, limit int) ([]core.Story, error) {
	urls, err := s.Discover(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.ScrapeURLs(ctx, urls)
}

// ScrapeURLs processes the given story URLs.
func (s *Scraper) ScrapeURLs(ctx context.Context, urls []string) ([]core.Story, error) {
	results := make([]*core.Story, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, storyURL := range urls {
		i, storyURL := i, storyURL
		g.Go(func() error {
			if s.limiter != nil {
				if err := s.limiter.Wait(gctx); err != nil {
					return err
				}
			}
			s.logger.Info("fetching story", "index", i+1, "total", len(urls), "url", storyURL)

			story, err := s.Process(gctx, storyURL)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Error("failed to process story", "url", storyURL, "error", err)
				return nil
			}
			results[i] = story
			return nil
		})
	}
	waitErr := g.Wait()

	stories := make([]core.Story, 0, len(urls))
	for _, st := range results {
		if st != nil {
			stories = append(stories, *st)
		}
	}
	s.logger.Info("scrape finished", "scraped", len(stories), "failed", len(urls)-len(stories))
	return stories, waitErr
}

// Process runs a single story URL through the pipeline.
func (s *Scraper) Process(ctx context.Context, storyURL string) (*core.Story, error) {
	result, err := s.stages.Fetcher.Fetch(ctx, storyURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	article, err := s.stages.Extractor.Extract(result.HTML)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	doc, err := s.stages.Segmenter.Parse(ctx, article.Text)
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}

	required := s.opts.RequiredBlocks
	if len(required) == 0 {
		required = doc.Names()
	}

	story := &core.Story{
		Title:      article.Title,
		URL:        storyURL,
		Blocks:     doc,
		Validation: audit.Assess(doc, required),
		RawText:    article.Text,
		Metadata:   buildMetadata(storyURL, article.Language),
	}
	if story.Title == "" {
		story.Title = storyURL
	}

	if s.opts.ExportRaw {
		markdown, err := s.stages.Normalizer.Normalize(article.HTML)
		if err != nil {
			return nil, fmt.Errorf("normalize: %w", err)
		}
		story.RawMarkdown = markdown
	}
	return story, nil
}

// buildMetadata records where and when a story was fetched.
func buildMetadata(rawURL, language string) core.StoryMetadata {
	meta := core.StoryMetadata{
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
		Language:  language,
	}
	if parsed, err := url.Parse(rawURL); err == nil {
		meta.Domain = parsed.Host
		meta.Path = parsed.Path
	}
	return meta
}

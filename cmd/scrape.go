// Package cmd — scrape command.
// Orchestrates the story pipeline:
// discover → fetch → extract → segment → audit → render → write.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/storypipe/config"
	"github.com/gaurav-prasanna/storypipe/core/extract"
	"github.com/gaurav-prasanna/storypipe/core/fetch"
	"github.com/gaurav-prasanna/storypipe/core/normalize"
	"github.com/gaurav-prasanna/storypipe/core/output"
	"github.com/gaurav-prasanna/storypipe/core/render"
	"github.com/gaurav-prasanna/storypipe/core/scrape"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape success stories and export them",
	Long: `Scrape discovers story pages on the listing, splits every story into blocks,
audits them for completeness, and writes the selected export formats.

Examples:
  storypipe scrape --limit 5
  storypipe scrape --format json,csv,pdf --output-dir ./out
  storypipe scrape --keywords keywords.json --export-raw
  storypipe scrape --parser-mode embedding --model nomic-embed-text`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	d := config.Default()
	f := scrapeCmd.Flags()
	f.Int("limit", d.Limit, "Number of stories to scrape (0 for all)")
	f.String("output-dir", d.OutputDir, "Output directory")
	f.StringSlice("format", d.Formats, "Export formats: json, csv, md, pdf")
	f.Bool("export-raw", false, "Also write a Markdown snapshot of every story to <output-dir>/raw")
	f.String("pdf-font", "", "UTF-8 TrueType font for the PDF export")

	f.String("base-url", d.BaseURL, "Site root")
	f.String("listing-path", d.ListingPath, "Path of the story listing page")
	f.Duration("delay", d.Delay, "Minimum delay between story requests")
	f.Duration("timeout", d.Timeout, "HTTP timeout per request")
	f.Int("retries", d.Retries, "Attempts per request for transient failures")
	f.Int("workers", d.Workers, "Stories processed concurrently")
	f.String("user-agent", d.UserAgent, "User-Agent header")
	f.Bool("check-robots", false, "Check robots.txt before scraping")
	f.Bool("dry-run", false, "Only list the discovered story URLs")

	addParserFlags(f)
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	parserCfg, err := cfg.ParserConfig()
	if err != nil {
		return fmt.Errorf("loading parser configuration: %w", err)
	}
	renderers, err := render.ForFormats(cfg.Formats, render.Options{
		BlockOrder: parserCfg.Order(),
		PDFFont:    cfg.PDFFont,
	})
	if err != nil {
		return err
	}

	scraper, err := scrape.New(scrape.Stages{
		Fetcher:    fetch.New(cfg.FetchOptions()),
		Extractor:  extract.New(),
		Normalizer: normalize.New(),
		Segmenter:  cfg.Segmenter(parserCfg),
	}, scrape.Options{
		BaseURL:        cfg.BaseURL,
		ListingPath:    cfg.ListingPath,
		Delay:          cfg.Delay,
		Workers:        cfg.Workers,
		RequiredBlocks: parserCfg.Order(),
		ExportRaw:      cfg.ExportRaw,
		UserAgent:      cfg.UserAgent,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	if cfg.CheckRobots {
		// A disallowing robots.txt is reported but does not stop the run.
		scraper.RobotsAllowed(ctx)
	}

	if cfg.DryRun {
		urls, err := scraper.Discover(ctx, cfg.Limit)
		if err != nil {
			return fmt.Errorf("discovering stories: %w", err)
		}
		for _, u := range urls {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
		return nil
	}

	writer, err := output.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	start := time.Now()
	stories, err := scraper.Scrape(ctx, cfg.Limit)
	if err != nil {
		return fmt.Errorf("scraping: %w", err)
	}
	if len(stories) == 0 {
		return errors.New("no stories were scraped")
	}

	out := cmd.OutOrStdout()
	for _, r := range renderers {
		data, err := r.Render(stories)
		if err != nil {
			return fmt.Errorf("render %s: %w", r.Extension(), err)
		}
		path, err := writer.WriteBatch(data, r.Extension())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Written: %s\n", path)
	}

	if cfg.ExportRaw {
		for _, s := range stories {
			path, err := writer.WriteRaw(s.URL, s.RawMarkdown)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  ✗ Write error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "  ✓ Written: %s\n", path)
		}
	}

	review := 0
	for _, s := range stories {
		if s.Validation.NeedsReview {
			review++
		}
	}
	logger.Info("done", "stories", len(stories), "needs_review", review,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

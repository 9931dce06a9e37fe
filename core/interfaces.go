// Package core defines the pipeline types and interfaces for storypipe.
// Each stage of the pipeline is a small interface so it can be swapped or
// faked in tests.
package core

import (
	"context"

	"github.com/gaurav-prasanna/storypipe/core/audit"
	"github.com/gaurav-prasanna/storypipe/core/segment"
)

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// Article is the readable part of a story page.
type Article struct {
	Title    string
	Language string
	// Text is the story body with one paragraph per block-level element,
	// separated by blank lines.
	Text string
	// HTML is the content container the text was taken from.
	HTML string
}

// StoryMetadata holds provenance information for a story.
type StoryMetadata struct {
	FetchedAt string `json:"fetched_at"` // RFC3339, UTC
	Domain    string `json:"domain"`
	Path      string `json:"path"`
	Language  string `json:"language"`
}

// Story is a success story split into analytic blocks.
type Story struct {
	Title       string           `json:"title"`
	URL         string           `json:"url"`
	Blocks      segment.Document `json:"blocks"`
	Validation  audit.Result     `json:"validation"`
	RawText     string           `json:"raw_text"`
	RawMarkdown string           `json:"raw_markdown,omitempty"`
	Metadata    StoryMetadata    `json:"metadata"`
}

// ParseResult is the outcome of segmenting a single text.
type ParseResult struct {
	Blocks     segment.Document `json:"blocks"`
	Validation audit.Result     `json:"validation"`
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor pulls the story title and body out of raw HTML.
type Extractor interface {
	Extract(html string) (*Article, error)
}

// Normalizer converts a cleaned HTML fragment into Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Segmenter splits story text into the configured blocks.
type Segmenter interface {
	Parse(ctx context.Context, text string) (segment.Document, error)
}

// Renderer converts a batch of stories into an export format.
type Renderer interface {
	Render(stories []Story) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".json").
	Extension() string
}

// Embedder generates a vector embedding for a text input.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

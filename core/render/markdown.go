// Package render provides the export formats for scraped stories.
// This file implements the Markdown report.
package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/storypipe/core"
)

// MarkdownRenderer writes a human-readable report with one section per
// story and one subsection per block.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render builds the report.
func (r *MarkdownRenderer) Render(stories []core.Story) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# Success stories\n")

	for i, s := range stories {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		title := s.Title
		if title == "" {
			title = s.URL
		}
		fmt.Fprintf(&b, "\n## %s\n\n", title)
		fmt.Fprintf(&b, "Source: <%s>\n", s.URL)

		for _, block := range s.Blocks.Blocks() {
			fmt.Fprintf(&b, "\n### %s\n\n", block.Name)
			if strings.TrimSpace(block.Text) == "" {
				b.WriteString("_No content._\n")
				continue
			}
			b.WriteString(block.Text + "\n")
		}

		if s.Validation.NeedsReview {
			b.WriteString("\n**Needs review:**\n\n")
			for _, name := range s.Validation.MissingBlocks {
				fmt.Fprintf(&b, "- %s: %s\n", name, s.Validation.Notes[name])
			}
		}
	}

	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

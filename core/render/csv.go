// Package render — CSV renderer.
// One row per story: identification and review columns followed by one
// column per block.
package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/storypipe/core"
)

var csvBaseColumns = []string{"title", "url", "needs_review", "missing_blocks"}

// CSVRenderer produces the stories.csv export.
type CSVRenderer struct {
	order []string
}

// NewCSVRenderer creates a CSVRenderer. Without an explicit order the block
// columns follow the stories' own block order.
func NewCSVRenderer(order ...string) *CSVRenderer {
	return &CSVRenderer{order: order}
}

// Render writes the header and one row per story.
func (r *CSVRenderer) Render(stories []core.Story) ([]byte, error) {
	blocks := r.columns(stories)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := append(append([]string{}, csvBaseColumns...), blocks...)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}

	for _, s := range stories {
		row := []string{
			s.Title,
			s.URL,
			strconv.FormatBool(s.Validation.NeedsReview),
			strings.Join(s.Validation.MissingBlocks, ", "),
		}
		for _, name := range blocks {
			row = append(row, s.Blocks.Get(name))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing CSV row for %s: %w", s.URL, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for CSV output.
func (r *CSVRenderer) Extension() string {
	return ".csv"
}

// columns returns the configured order, or every block name seen across
// stories in first-seen order.
func (r *CSVRenderer) columns(stories []core.Story) []string {
	if len(r.order) > 0 {
		return r.order
	}
	seen := make(map[string]bool)
	var names []string
	for _, s := range stories {
		for _, name := range s.Blocks.Names() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

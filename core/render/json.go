// Package render — JSON renderer.
// Writes the full story records, blocks in canonical order, as an indented
// JSON array.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/storypipe/core"
)

// JSONRenderer produces the stories.json export.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render encodes stories as a JSON array. Non-ASCII text is kept as is.
func (r *JSONRenderer) Render(stories []core.Story) ([]byte, error) {
	if stories == nil {
		stories = []core.Story{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stories); err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

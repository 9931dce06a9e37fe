package normalize

import (
	"regexp"
	"strings"
)

var (
	lineEndings    = regexp.MustCompile(`\r\n?`)
	paragraphBreak = regexp.MustCompile(`\n{2,}`)
)

// Text collapses CRLF and CR line endings to LF and trims the result.
// An empty return means the document has no content at all.
func Text(raw string) string {
	return strings.TrimSpace(lineEndings.ReplaceAllString(raw, "\n"))
}

// Paragraphs normalizes raw and splits it on runs of two or more newlines.
// Each paragraph is trimmed and blank ones are dropped, so the result is
// empty only when the whole text is blank.
func Paragraphs(raw string) []string {
	text := Text(raw)
	if text == "" {
		return nil
	}

	parts := paragraphBreak.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// Lines splits a paragraph into trimmed, non-empty lines.
func Lines(paragraph string) []string {
	raw := strings.Split(paragraph, "\n")
	lines := make([]string, 0, len(raw))
	for _, ln := range raw {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

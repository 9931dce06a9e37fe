package segment

import (
	"context"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/storypipe/core/normalize"
	"golang.org/x/text/unicode/norm"
)

// headingSeparators split a first line into heading and inline body, tried
// in this order.
var headingSeparators = []string{":", "—", "–", "-", "."}

// Section is a classified paragraph. Block is empty for a continuation of
// whatever block is active.
type Section struct {
	Block string
	Text  string
}

// Classifier labels a single paragraph.
type Classifier interface {
	Classify(ctx context.Context, paragraph string) (Section, error)
}

// HeadingClassifier detects keyword headings on the first line of a
// paragraph. It never fails.
type HeadingClassifier struct {
	cfg Config
}

// NewHeadingClassifier creates a HeadingClassifier for cfg.
func NewHeadingClassifier(cfg Config) *HeadingClassifier {
	return &HeadingClassifier{cfg: cfg}
}

// Classify implements Classifier.
func (h *HeadingClassifier) Classify(_ context.Context, paragraph string) (Section, error) {
	return h.Detect(paragraph), nil
}

// Detect inspects the first line of paragraph as a heading candidate. On a
// match the section text is the inline tail after the separator followed by
// the remaining lines; otherwise the whole paragraph is a continuation.
func (h *HeadingClassifier) Detect(paragraph string) Section {
	lines := normalize.Lines(paragraph)
	if len(lines) == 0 {
		return Section{}
	}

	block, inline := h.detectHeading(lines[0])
	if block == "" {
		return Section{Text: strings.Join(lines, "\n")}
	}

	body := make([]string, 0, len(lines))
	if inline != "" {
		body = append(body, inline)
	}
	body = append(body, lines[1:]...)
	return Section{Block: block, Text: strings.TrimSpace(strings.Join(body, "\n"))}
}

// detectHeading returns the block declared by line and the inline content
// after the separator, if any.
func (h *HeadingClassifier) detectHeading(line string) (string, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}

	for _, sep := range headingSeparators {
		head, tail, found := strings.Cut(line, sep)
		if !found {
			continue
		}
		if block := h.match(head); block != "" {
			return block, strings.TrimSpace(tail)
		}
	}

	return h.match(line), ""
}

// match tests a heading candidate against the keyword rules. Multi-word
// phrases match as substrings of the normalized candidate, single words
// only as whole tokens.
func (h *HeadingClassifier) match(candidate string) string {
	words := strings.Fields(candidate)
	if len(words) == 0 || len(words) > h.cfg.HeadingMaxWords() {
		return ""
	}

	normalized := normalizeHeading(candidate)
	if normalized == "" {
		return ""
	}
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		tokens[tok] = true
	}

	for _, r := range h.cfg.rules {
		if r.multiWord {
			if strings.Contains(normalized, r.phrase) {
				return r.block
			}
		} else if tokens[r.phrase] {
			return r.block
		}
	}
	return ""
}

// normalizeHeading lowercases s, replaces punctuation with spaces and
// collapses whitespace.
func normalizeHeading(s string) string {
	s = strings.ToLower(norm.NFC.String(s))
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

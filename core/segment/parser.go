package segment

import (
	"context"
	"fmt"

	"github.com/gaurav-prasanna/storypipe/core/normalize"
)

// Parser runs the full segmentation pipeline with a pluggable Classifier.
type Parser struct {
	cfg        Config
	classifier Classifier
}

// Option configures a Parser.
type Option func(*Parser)

// WithClassifier replaces the default HeadingClassifier.
func WithClassifier(c Classifier) Option {
	return func(p *Parser) {
		if c != nil {
			p.classifier = c
		}
	}
}

// NewParser creates a Parser for cfg. Without options it uses the keyword
// HeadingClassifier.
func NewParser(cfg Config, opts ...Option) *Parser {
	p := &Parser{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.classifier == nil {
		p.classifier = NewHeadingClassifier(cfg)
	}
	return p
}

// Config returns the parser configuration.
func (p *Parser) Config() Config { return p.cfg }

// Parse splits text into blocks. Only a failing Classifier produces an
// error; blank text yields a document with every block empty.
func (p *Parser) Parse(ctx context.Context, text string) (Document, error) {
	paragraphs := normalize.Paragraphs(text)
	if len(paragraphs) == 0 {
		return NewDocument(p.cfg.order), nil
	}

	sections := make([]Section, 0, len(paragraphs))
	for i, para := range paragraphs {
		s, err := p.classifier.Classify(ctx, para)
		if err != nil {
			return Document{}, fmt.Errorf("classifying paragraph %d: %w", i+1, err)
		}
		sections = append(sections, s)
	}
	return Assemble(sections, p.cfg), nil
}

// Parse segments text with the keyword heuristic. It is total: any input
// produces a document holding exactly the blocks of cfg.
func Parse(text string, cfg Config) Document {
	h := NewHeadingClassifier(cfg)
	paragraphs := normalize.Paragraphs(text)
	sections := make([]Section, len(paragraphs))
	for i, para := range paragraphs {
		sections[i] = h.Detect(para)
	}
	return Assemble(sections, cfg)
}

package embed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/gaurav-prasanna/storypipe/core"
	"github.com/gaurav-prasanna/storypipe/core/chunk"
	"github.com/gaurav-prasanna/storypipe/core/segment"
)

// DefaultMinScore is the lowest cosine similarity accepted as a block label.
const DefaultMinScore = 0.35

// Options tunes a Classifier. Zero values select the defaults.
type Options struct {
	MinScore  float64
	ChunkSize int
}

// Classifier labels paragraphs by comparing their embedding with one
// prototype vector per block. Keyword headings are still honored first.
type Classifier struct {
	cfg       segment.Config
	heuristic *segment.HeadingClassifier
	embedder  core.Embedder
	chunker   *chunk.Chunker
	minScore  float64

	mu         sync.Mutex
	prototypes map[string][]float64
}

// NewClassifier creates a Classifier for cfg backed by embedder.
func NewClassifier(cfg segment.Config, embedder core.Embedder, opts Options) *Classifier {
	if opts.MinScore <= 0 {
		opts.MinScore = DefaultMinScore
	}
	return &Classifier{
		cfg:       cfg,
		heuristic: segment.NewHeadingClassifier(cfg),
		embedder:  embedder,
		chunker:   chunk.New(opts.ChunkSize, 0),
		minScore:  opts.MinScore,
	}
}

// Classify implements segment.Classifier.
func (c *Classifier) Classify(ctx context.Context, paragraph string) (segment.Section, error) {
	s := c.heuristic.Detect(paragraph)
	if s.Block != "" || strings.TrimSpace(s.Text) == "" {
		return s, nil
	}

	vec, err := c.embedText(ctx, s.Text)
	if err != nil {
		return segment.Section{}, err
	}
	protos, err := c.loadPrototypes(ctx)
	if err != nil {
		return segment.Section{}, err
	}

	best, bestScore := "", math.Inf(-1)
	for _, name := range c.cfg.Order() {
		if score := cosine(vec, protos[name]); score > bestScore {
			best, bestScore = name, score
		}
	}
	if bestScore >= c.minScore {
		s.Block = best
	}
	return s, nil
}

// embedText embeds text chunk by chunk and averages the vectors.
func (c *Classifier) embedText(ctx context.Context, text string) ([]float64, error) {
	var sum []float64
	chunks := c.chunker.Chunk(text)
	for i, part := range chunks {
		vec, err := c.embedder.Embed(ctx, part)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d: %w", i+1, err)
		}
		if sum == nil {
			sum = make([]float64, len(vec))
		}
		if len(vec) != len(sum) {
			return nil, errors.New("embedding dimensions differ between chunks")
		}
		for j, v := range vec {
			sum[j] += v
		}
	}
	for j := range sum {
		sum[j] /= float64(len(chunks))
	}
	return sum, nil
}

// loadPrototypes embeds every block description once. A failed attempt is
// retried on the next call.
func (c *Classifier) loadPrototypes(ctx context.Context) (map[string][]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.prototypes != nil {
		return c.prototypes, nil
	}

	protos := make(map[string][]float64, len(c.cfg.Order()))
	for _, name := range c.cfg.Order() {
		vec, err := c.embedder.Embed(ctx, prototypeText(name, c.cfg.Keywords().Phrases(name)))
		if err != nil {
			return nil, fmt.Errorf("embedding prototype %q: %w", name, err)
		}
		protos[name] = vec
	}
	c.prototypes = protos
	return protos, nil
}

func prototypeText(block string, phrases []string) string {
	if len(phrases) == 0 {
		return block
	}
	return block + ": " + strings.Join(phrases, ", ")
}

// cosine returns the cosine similarity of a and b, or 0 when either is
// zero-length or the dimensions differ.
func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

package embed

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/storypipe/core/segment"
)

// fakeEmbedder maps words to axes: alpha/apple, beta/banana, noise.
type fakeEmbedder struct {
	calls atomic.Int32
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	vec := make([]float64, 3)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ":,.")
		switch w {
		case "alpha", "apple":
			vec[0]++
		case "beta", "banana":
			vec[1]++
		case "zzz":
			vec[2]++
		}
	}
	return vec, nil
}

func testConfig() segment.Config {
	return segment.NewConfig([]string{"A", "B"}, segment.KeywordMap{
		{Block: "A", Phrases: []string{"alpha"}},
		{Block: "B", Phrases: []string{"beta"}},
	}, 0)
}

func TestClassify_BySimilarity(t *testing.T) {
	c := NewClassifier(testConfig(), &fakeEmbedder{}, Options{})
	ctx := context.Background()

	tests := []struct {
		name      string
		paragraph string
		want      string
	}{
		{"nearest prototype", "I like apple pie", "A"},
		{"second block", "banana bread is great", "B"},
		{"below threshold", "zzz zzz", ""},
		{"keyword heading wins", "Beta: apple apple apple", "B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := c.Classify(ctx, tt.paragraph)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Block)
		})
	}
}

func TestClassify_KeywordHeadingSkipsEmbedding(t *testing.T) {
	emb := &fakeEmbedder{}
	c := NewClassifier(testConfig(), emb, Options{})

	s, err := c.Classify(context.Background(), "Alpha:\nbody")
	require.NoError(t, err)
	assert.Equal(t, segment.Section{Block: "A", Text: "body"}, s)
	assert.Equal(t, int32(0), emb.calls.Load())
}

func TestClassify_PrototypesEmbeddedOnce(t *testing.T) {
	emb := &fakeEmbedder{}
	c := NewClassifier(testConfig(), emb, Options{})
	ctx := context.Background()

	_, err := c.Classify(ctx, "apple")
	require.NoError(t, err)
	_, err = c.Classify(ctx, "banana")
	require.NoError(t, err)

	// two prototypes plus one call per paragraph
	assert.Equal(t, int32(4), emb.calls.Load())
}

func TestClassify_AveragesChunks(t *testing.T) {
	emb := &fakeEmbedder{}
	c := NewClassifier(testConfig(), emb, Options{ChunkSize: 2})

	s, err := c.Classify(context.Background(), "banana banana banana apple")
	require.NoError(t, err)
	assert.Equal(t, "B", s.Block)
	// two chunks plus two prototypes
	assert.Equal(t, int32(4), emb.calls.Load())
}

func TestClassify_PropagatesErrors(t *testing.T) {
	boom := errors.New("model offline")
	c := NewClassifier(testConfig(), &fakeEmbedder{err: boom}, Options{})

	_, err := c.Classify(context.Background(), "plain paragraph")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestClassifier_WithParser(t *testing.T) {
	cfg := testConfig()
	p := segment.NewParser(cfg, segment.WithClassifier(NewClassifier(cfg, &fakeEmbedder{}, Options{})))

	doc, err := p.Parse(context.Background(), "I like apple pie\n\nbanana bread\n\nzzz")
	require.NoError(t, err)
	assert.Equal(t, "I like apple pie", doc.Get("A"))
	assert.Equal(t, "banana bread\n\nzzz", doc.Get("B"))
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosine([]float64{1}, []float64{1, 2}))
	assert.Equal(t, 0.0, cosine([]float64{0, 0}, []float64{1, 2}))
}

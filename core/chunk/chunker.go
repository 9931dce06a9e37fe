// Package chunk splits paragraph text into word windows for embedding.
// Words are counted with a whitespace tokenizer, which is close enough to
// model tokens for the short paragraphs of a story.
package chunk

import "strings"

// DefaultSize is the window length used when none is configured.
const DefaultSize = 256

// Chunker splits text into windows of at most Size words. Consecutive
// windows share Overlap words.
type Chunker struct {
	Size    int
	Overlap int
}

// New creates a Chunker. size <= 0 selects DefaultSize; overlap is clamped
// to [0, size-1].
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}
	return &Chunker{Size: size, Overlap: overlap}
}

// Chunk returns the windows of text, each joined by single spaces.
// Blank text yields nil.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.Size - c.Overlap
	var chunks []string
	for i := 0; i < len(words); i += step {
		end := min(i+c.Size, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

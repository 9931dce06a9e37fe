package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownNormalizer(t *testing.T) {
	n := New()

	t.Run("converts headings and paragraphs", func(t *testing.T) {
		md, err := n.Normalize(`<main><h2>Вступ</h2><p>Короткий <strong>вступ</strong>.</p></main>`)
		require.NoError(t, err)
		assert.Contains(t, md, "## Вступ")
		assert.Contains(t, md, "**вступ**")
	})

	t.Run("blank input yields blank output", func(t *testing.T) {
		md, err := n.Normalize("   ")
		require.NoError(t, err)
		assert.Empty(t, md)
	})
}

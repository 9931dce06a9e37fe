package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/storypipe/core"
	"github.com/gaurav-prasanna/storypipe/core/audit"
	"github.com/gaurav-prasanna/storypipe/core/segment"
)

func sampleStories() []core.Story {
	cfg := segment.NewConfig([]string{"Introduction", "Challenges"}, segment.DefaultKeywords(), 0)
	full := segment.Parse("Вступ: Історія <успіху>\n\nВиклики: брак кадрів", cfg)
	partial := segment.Parse("Лише вступний текст", cfg)
	return []core.Story{
		{
			Title:      "Пекарня",
			URL:        "https://business.diia.gov.ua/history-of-success/bakery",
			Blocks:     full,
			Validation: audit.Assess(full, cfg.Order()),
		},
		{
			Title:      "Ферма",
			URL:        "https://business.diia.gov.ua/history-of-success/farm",
			Blocks:     partial,
			Validation: audit.Assess(partial, cfg.Order()),
		},
	}
}

func TestJSONRenderer(t *testing.T) {
	data, err := NewJSONRenderer().Render(sampleStories())
	require.NoError(t, err)

	assert.Contains(t, string(data), "<успіху>")
	assert.Contains(t, string(data), "\n  {")
	assert.Less(t, strings.Index(string(data), `"Introduction"`), strings.Index(string(data), `"Challenges"`))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Пекарня", decoded[0]["title"])
	blocks := decoded[0]["blocks"].(map[string]any)
	assert.Equal(t, "брак кадрів", blocks["Challenges"])
	validation := decoded[1]["validation"].(map[string]any)
	assert.Equal(t, true, validation["needs_review"])
}

func TestJSONRenderer_Empty(t *testing.T) {
	data, err := NewJSONRenderer().Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestCSVRenderer(t *testing.T) {
	data, err := NewCSVRenderer().Render(sampleStories())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"title", "url", "needs_review", "missing_blocks", "Introduction", "Challenges"}, rows[0])
	assert.Equal(t, []string{"Пекарня", "https://business.diia.gov.ua/history-of-success/bakery", "false", "", "Історія <успіху>", "брак кадрів"}, rows[1])
	assert.Equal(t, "true", rows[2][2])
	assert.Equal(t, "Challenges", rows[2][3])
	assert.Equal(t, "Лише вступний текст", rows[2][4])
}

func TestCSVRenderer_ExplicitOrder(t *testing.T) {
	data, err := NewCSVRenderer("Challenges", "Audit").Render(sampleStories()[:1])
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Challenges", "Audit"}, rows[0][4:])
	assert.Equal(t, []string{"брак кадрів", ""}, rows[1][4:])
}

func TestMarkdownRenderer(t *testing.T) {
	data, err := NewMarkdownRenderer().Render(sampleStories())
	require.NoError(t, err)
	md := string(data)

	assert.Contains(t, md, "## Пекарня")
	assert.Contains(t, md, "### Challenges\n\nбрак кадрів")
	assert.Contains(t, md, "_No content._")
	assert.Contains(t, md, "- Challenges: "+audit.EmptyBlockNote)
	assert.Equal(t, 1, strings.Count(md, "**Needs review:**"))
}

func TestPDFRenderer(t *testing.T) {
	r := NewPDFRenderer("")
	data, err := r.Render(sampleStories())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, ".pdf", r.Extension())

	data, err = r.Render(nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPDFRenderer_MissingFont(t *testing.T) {
	_, err := NewPDFRenderer("/nonexistent/font.ttf").Render(sampleStories())
	require.Error(t, err)
}

func TestForFormats(t *testing.T) {
	renderers, err := ForFormats([]string{"json", " CSV ", "json", "markdown", "pdf"}, Options{})
	require.NoError(t, err)

	var exts []string
	for _, r := range renderers {
		exts = append(exts, r.Extension())
	}
	assert.Equal(t, []string{".json", ".csv", ".md", ".pdf"}, exts)

	_, err = ForFormats([]string{"xml"}, Options{})
	require.Error(t, err)
}

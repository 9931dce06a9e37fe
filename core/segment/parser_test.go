package segment_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/storypipe/core/segment"
)

const sampleStory = `
Вступ: Мета кейсу — перевести офлайн-продажі в онлайн.

Стартові умови
Ринок перенасичений, команда з трьох людей, бюджет 5000 доларів.

Труднощі: Відсутність довіри клієнтів.

Знайдені рішення
Запустили контент-маркетинг та партнерство з локальними медіа.

Аналіз ефективності
Перші два місяці без зростання, але згодом стабільний приріст 15%.

Ресурси та інструменти
CRM, email-розсилки, консультації менторів.

Самоаналіз
"Ми недооцінили силу простих рекомендацій" — засновник.

Узагальнені висновки
Регулярна робота з відгуками — ключ до масштабування.

Аудит
Не розкрито роботу з безпекою даних.
`

func TestParse_DetectsAllBlocks(t *testing.T) {
	cfg := segment.DefaultConfig()
	doc := segment.Parse(sampleStory, cfg)

	for _, block := range cfg.Order() {
		assert.NotEmpty(t, doc.Get(block), "block %q should have content", block)
	}
	assert.Equal(t, "Мета кейсу — перевести офлайн-продажі в онлайн.", doc.Get(segment.Introduction))
	assert.Equal(t, "Не розкрито роботу з безпекою даних.", doc.Get(segment.Audit))
	assert.Equal(t, "CRM, email-розсилки, консультації менторів.", doc.Get(segment.ResourcesAndTools))
}

func TestParse_EmptyInput(t *testing.T) {
	cfg := segment.DefaultConfig()
	for _, in := range []string{"", "   ", "\r\n\r\n", "\t\n"} {
		doc := segment.Parse(in, cfg)
		require.Equal(t, cfg.Order(), doc.Names())
		for _, b := range doc.Blocks() {
			assert.Empty(t, b.Text)
		}
	}
}

func TestParse_InlineAndLineHeadings(t *testing.T) {
	doc := segment.Parse("Introduction: Short intro.\n\nCase Description\nDetails here.", segment.DefaultConfig())

	assert.Equal(t, "Short intro.", doc.Get(segment.Introduction))
	assert.Equal(t, "Details here.", doc.Get(segment.CaseDescription))
	for _, name := range doc.Names()[2:] {
		assert.Empty(t, doc.Get(name), name)
	}
}

func TestParse_FallbackWithoutHeadings(t *testing.T) {
	text := "Перша частина кейсу.\n\nДругий абзац пояснює старт.\n\nТретій параграф про проблеми."
	doc := segment.Parse(text, segment.DefaultConfig())

	assert.Equal(t, "Перша частина кейсу.", doc.Get(segment.Introduction))
	assert.Equal(t, "Другий абзац пояснює старт.", doc.Get(segment.CaseDescription))
	assert.Equal(t, "Третій параграф про проблеми.", doc.Get(segment.Challenges))
	assert.Empty(t, doc.Get(segment.SolutionsFound))
}

func TestParse_CustomKeywords(t *testing.T) {
	cfg := segment.DefaultConfig()
	cfg = cfg.WithKeywords(cfg.Keywords().With(segment.Introduction, "intro"))

	doc := segment.Parse("Intro: Custom content", cfg)
	assert.Equal(t, "Custom content", doc.Get(segment.Introduction))
}

func TestParse_LongSentenceWithColonIsNotHeading(t *testing.T) {
	long := "Over the first year our small team of volunteers kept hearing the same complaint about the introduction: nobody read it."
	text := "Introduction\nOpening words.\n\n" + long

	doc := segment.Parse(text, segment.DefaultConfig())
	assert.Equal(t, "Opening words.\n\n"+long, doc.Get(segment.Introduction))

	// Without a preceding heading the sentence goes through fallback.
	doc = segment.Parse(long, segment.DefaultConfig())
	assert.Equal(t, long, doc.Get(segment.Introduction))
}

func TestParse_HeadingMovesCursorForwardOnly(t *testing.T) {
	text := strings.Join([]string{
		"Challenges: Hard times.",
		"Introduction: Late intro.",
		"Audit: Open questions.",
	}, "\n\n")

	doc := segment.Parse(text, segment.DefaultConfig())
	assert.Equal(t, "Hard times.", doc.Get(segment.Challenges))
	assert.Equal(t, "Late intro.", doc.Get(segment.Introduction))
	assert.Equal(t, "Open questions.", doc.Get(segment.Audit))
}

func TestParse_ContinuationFollowsActiveBlock(t *testing.T) {
	text := "First loose paragraph.\n\nChallenges\nNo customers.\n\nNo money either.\n\nStill no customers."
	doc := segment.Parse(text, segment.DefaultConfig())

	assert.Equal(t, "First loose paragraph.", doc.Get(segment.Introduction))
	assert.Equal(t, "No customers.\n\nNo money either.\n\nStill no customers.", doc.Get(segment.Challenges))
	assert.Empty(t, doc.Get(segment.CaseDescription))
}

func TestParse_OverflowGoesToLastBlock(t *testing.T) {
	cfg := segment.NewConfig([]string{"A", "B"}, nil, 0)
	doc := segment.Parse("one\n\ntwo\n\nthree\n\nfour", cfg)

	assert.Equal(t, "one", doc.Get("A"))
	assert.Equal(t, "two\n\nthree\n\nfour", doc.Get("B"))
}

func TestParse_HeadingOnlyParagraph(t *testing.T) {
	doc := segment.Parse("Challenges\n\nWe had no clients.", segment.DefaultConfig())
	assert.Equal(t, "We had no clients.", doc.Get(segment.Challenges))
	assert.Empty(t, doc.Get(segment.Introduction))
}

func TestParse_UnknownBlockLabelUsesFallback(t *testing.T) {
	km := segment.KeywordMap{{Block: "Appendix", Phrases: []string{"appendix"}}}
	cfg := segment.NewConfig([]string{"A", "B"}, km, 0)

	doc := segment.Parse("Intro text.\n\nAppendix: extra\n\nmore extra", cfg)
	assert.Equal(t, "Intro text.", doc.Get("A"))
	assert.Equal(t, "extra\n\nmore extra", doc.Get("B"))
	assert.False(t, doc.Has("Appendix"))
}

func TestParse_EmptyOrder(t *testing.T) {
	doc := segment.Parse("Something", segment.NewConfig(nil, nil, 0))
	assert.Zero(t, doc.Len())
}

func TestParse_Properties(t *testing.T) {
	cfg := segment.DefaultConfig()
	inputs := []string{
		"",
		"plain",
		"a\n\nb\n\nc\n\nd\n\ne\n\nf\n\ng\n\nh\n\ni\n\nj\n\nk",
		sampleStory,
		"Audit: late\n\nIntroduction: early\n\nloose",
		"Результати — зростання.\n\nПеревірка\nБез заголовку.",
	}

	for i, in := range inputs {
		t.Run(fmt.Sprintf("input_%d", i), func(t *testing.T) {
			doc := segment.Parse(in, cfg)
			assert.Equal(t, cfg.Order(), doc.Names(), "totality")

			// No content loss: every non-heading line of the input ends up
			// in exactly one block.
			var all strings.Builder
			for _, b := range doc.Blocks() {
				all.WriteString(b.Text)
				all.WriteString("\n")
			}
			for _, word := range []string{"plain", "loose", "Без заголовку."} {
				if strings.Contains(in, word) {
					assert.Equal(t, 1, strings.Count(all.String(), word), word)
				}
			}
		})
	}
}

func TestParse_OrderPreservedWithoutHeadings(t *testing.T) {
	cfg := segment.DefaultConfig()
	var paras []string
	for i := 0; i < 12; i++ {
		paras = append(paras, fmt.Sprintf("paragraph number %d", i))
	}
	doc := segment.Parse(strings.Join(paras, "\n\n"), cfg)

	placed := make(map[string]int)
	for i, b := range doc.Blocks() {
		if b.Text == "" {
			continue
		}
		for _, part := range strings.Split(b.Text, "\n\n") {
			placed[part] = i
		}
	}

	prev := -1
	for _, p := range paras {
		at, ok := placed[p]
		require.True(t, ok, "paragraph %q missing", p)
		require.GreaterOrEqual(t, at, prev, "paragraph %q placed before its predecessor", p)
		prev = at
	}
}

type stubClassifier struct {
	labels map[string]string
	err    error
}

func (s stubClassifier) Classify(_ context.Context, paragraph string) (segment.Section, error) {
	if s.err != nil {
		return segment.Section{}, s.err
	}
	return segment.Section{Block: s.labels[paragraph], Text: paragraph}, nil
}

func TestParser_CustomClassifier(t *testing.T) {
	cfg := segment.DefaultConfig()
	p := segment.NewParser(cfg, segment.WithClassifier(stubClassifier{
		labels: map[string]string{"risky": segment.Audit},
	}))

	doc, err := p.Parse(context.Background(), "hello\n\nrisky\n\nafter")
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Get(segment.Introduction))
	assert.Equal(t, "risky\n\nafter", doc.Get(segment.Audit))
}

func TestParser_ClassifierError(t *testing.T) {
	boom := errors.New("model unavailable")
	p := segment.NewParser(segment.DefaultConfig(), segment.WithClassifier(stubClassifier{err: boom}))

	_, err := p.Parse(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestParser_DefaultsToHeuristic(t *testing.T) {
	p := segment.NewParser(segment.DefaultConfig())
	doc, err := p.Parse(context.Background(), "Introduction: Short intro.")
	require.NoError(t, err)
	assert.Equal(t, "Short intro.", doc.Get(segment.Introduction))

	doc, err = p.Parse(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 9, doc.Len())
}

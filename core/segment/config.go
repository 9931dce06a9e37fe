// Package segment splits a story body into a fixed, ordered set of
// analytic blocks.
//
// The pipeline runs in three stages: paragraphs from normalize.Paragraphs are
// labelled by a Classifier (by default the keyword-driven HeadingClassifier),
// then Assemble walks them in document order and accumulates content under
// the active block, falling back to positional assignment when a paragraph
// declares no heading. Every block in the configured order is present in the
// resulting Document, possibly empty.
package segment

import (
	"encoding/json"
	"slices"
)

// DefaultHeadingMaxWords is the longest heading candidate, in words, that is
// still tested against the keyword map.
const DefaultHeadingMaxWords = 12

// Canonical block names shipped with the default configuration.
const (
	Introduction          = "Introduction"
	CaseDescription       = "Case Description"
	Challenges            = "Challenges"
	SolutionsFound        = "Solutions Found"
	EffectivenessAnalysis = "Effectiveness Analysis"
	ResourcesAndTools     = "Resources and Tools"
	SelfAnalysis          = "Self-analysis"
	GeneralConclusions    = "General Conclusions"
	Audit                 = "Audit"
)

// BlockKeywords lists the trigger phrases for one block.
type BlockKeywords struct {
	Block   string   `json:"block" yaml:"block"`
	Phrases []string `json:"phrases" yaml:"phrases"`
}

// KeywordMap is an ordered association of blocks to trigger phrases. Its
// order is the tie-break when a heading matches phrases of several blocks:
// the first configured (block, phrase) pair wins.
type KeywordMap []BlockKeywords

// Phrases returns the phrases configured for block, or nil.
func (m KeywordMap) Phrases(block string) []string {
	for _, bk := range m {
		if bk.Block == block {
			return bk.Phrases
		}
	}
	return nil
}

// With returns a copy of m where block's phrases are replaced. A block that
// is not yet in the map is appended.
func (m KeywordMap) With(block string, phrases ...string) KeywordMap {
	out := m.clone()
	for i := range out {
		if out[i].Block == block {
			out[i].Phrases = slices.Clone(phrases)
			return out
		}
	}
	return append(out, BlockKeywords{Block: block, Phrases: slices.Clone(phrases)})
}

func (m KeywordMap) clone() KeywordMap {
	out := make(KeywordMap, len(m))
	for i, bk := range m {
		out[i] = BlockKeywords{Block: bk.Block, Phrases: slices.Clone(bk.Phrases)}
	}
	return out
}

// MarshalJSON encodes the map as a JSON object keeping block order.
func (m KeywordMap) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(m), func(i int) (string, any) {
		phrases := m[i].Phrases
		if phrases == nil {
			phrases = []string{}
		}
		return m[i].Block, phrases
	})
}

// rule is one normalized trigger phrase.
type rule struct {
	block     string
	phrase    string
	multiWord bool
}

// Config is the immutable parser configuration. Build it with NewConfig or
// DefaultConfig and derive variants with the With* methods; a Config value is
// safe to share between goroutines.
type Config struct {
	order    []string
	keywords KeywordMap
	rules    []rule
	maxWords int
}

// NewConfig builds a Config. Duplicate block names are dropped keeping the
// first occurrence. headingMaxWords <= 0 selects DefaultHeadingMaxWords.
// Keyword conflicts between blocks are not validated: the first configured
// match wins.
func NewConfig(order []string, keywords KeywordMap, headingMaxWords int) Config {
	if headingMaxWords <= 0 {
		headingMaxWords = DefaultHeadingMaxWords
	}

	seen := make(map[string]bool, len(order))
	uniq := make([]string, 0, len(order))
	for _, name := range order {
		if seen[name] {
			continue
		}
		seen[name] = true
		uniq = append(uniq, name)
	}

	km := keywords.clone()
	var rules []rule
	for _, bk := range km {
		for _, phrase := range bk.Phrases {
			norm := normalizeHeading(phrase)
			if norm == "" {
				continue
			}
			rules = append(rules, rule{
				block:     bk.Block,
				phrase:    norm,
				multiWord: containsSpace(norm),
			})
		}
	}

	return Config{
		order:    uniq,
		keywords: km,
		rules:    rules,
		maxWords: headingMaxWords,
	}
}

// DefaultConfig returns the nine-block configuration with bilingual
// (Ukrainian and English) keywords.
func DefaultConfig() Config {
	return NewConfig(DefaultBlockOrder(), DefaultKeywords(), DefaultHeadingMaxWords)
}

// Order returns a copy of the canonical block order.
func (c Config) Order() []string { return slices.Clone(c.order) }

// Keywords returns a copy of the keyword map.
func (c Config) Keywords() KeywordMap { return c.keywords.clone() }

// HeadingMaxWords returns the heading length threshold.
func (c Config) HeadingMaxWords() int {
	if c.maxWords <= 0 {
		return DefaultHeadingMaxWords
	}
	return c.maxWords
}

// Index returns the position of block in the canonical order, or -1.
func (c Config) Index(block string) int {
	return slices.Index(c.order, block)
}

// WithKeywords returns a copy of c using keywords.
func (c Config) WithKeywords(keywords KeywordMap) Config {
	return NewConfig(c.order, keywords, c.maxWords)
}

// WithOrder returns a copy of c using order.
func (c Config) WithOrder(order []string) Config {
	return NewConfig(order, c.keywords, c.maxWords)
}

// WithHeadingMaxWords returns a copy of c using n as the heading threshold.
func (c Config) WithHeadingMaxWords(n int) Config {
	return NewConfig(c.order, c.keywords, n)
}

type configJSON struct {
	BlockOrder      []string   `json:"block_order"`
	KeywordMap      KeywordMap `json:"keyword_map"`
	HeadingMaxWords int        `json:"heading_max_words"`
}

// MarshalJSON encodes the configuration for debugging and export.
func (c Config) MarshalJSON() ([]byte, error) {
	order := c.order
	if order == nil {
		order = []string{}
	}
	return json.Marshal(configJSON{
		BlockOrder:      order,
		KeywordMap:      c.keywords,
		HeadingMaxWords: c.HeadingMaxWords(),
	})
}

func containsSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return true
		}
	}
	return false
}

package segment

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ParseKeywordMap decodes a keyword map document: a YAML or JSON mapping from
// block name to a list of trigger phrases. Document order is preserved and
// becomes the tie-break order.
func ParseKeywordMap(data []byte) (KeywordMap, error) {
	var doc yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("parsing keyword map: %w", err)
	}
	return keywordMapFrom(doc)
}

// ParseConfig decodes a parser configuration document with the optional keys
// block_order, keywords and heading_max_words. Missing keys keep the values
// of base.
func ParseConfig(data []byte, base Config) (Config, error) {
	var doc yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return Config{}, fmt.Errorf("parsing parser config: %w", err)
	}

	order := base.order
	keywords := base.keywords
	maxWords := base.maxWords

	for _, item := range doc {
		key := fmt.Sprint(item.Key)
		switch key {
		case "block_order":
			list, err := stringList(item.Value)
			if err != nil {
				return Config{}, fmt.Errorf("block_order: %w", err)
			}
			order = list
		case "keywords", "keyword_map":
			m, ok := item.Value.(yaml.MapSlice)
			if !ok && item.Value != nil {
				return Config{}, fmt.Errorf("%s: expected a mapping, got %T", key, item.Value)
			}
			km, err := keywordMapFrom(m)
			if err != nil {
				return Config{}, err
			}
			keywords = km
		case "heading_max_words":
			n, err := intValue(item.Value)
			if err != nil {
				return Config{}, fmt.Errorf("heading_max_words: %w", err)
			}
			maxWords = n
		default:
			return Config{}, fmt.Errorf("parser config: unknown key %q", key)
		}
	}

	return NewConfig(order, keywords, maxWords), nil
}

// LoadKeywordMap reads a keyword map file.
func LoadKeywordMap(path string) (KeywordMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keyword map: %w", err)
	}
	return ParseKeywordMap(data)
}

// LoadConfig reads a parser configuration file on top of base.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading parser config: %w", err)
	}
	return ParseConfig(data, base)
}

// MarshalYAML encodes the configuration in the document shape ParseConfig
// accepts.
func (c Config) MarshalYAML() ([]byte, error) {
	keywords := make(yaml.MapSlice, 0, len(c.keywords))
	for _, bk := range c.keywords {
		phrases := bk.Phrases
		if phrases == nil {
			phrases = []string{}
		}
		keywords = append(keywords, yaml.MapItem{Key: bk.Block, Value: phrases})
	}
	doc := yaml.MapSlice{
		{Key: "block_order", Value: c.Order()},
		{Key: "heading_max_words", Value: c.HeadingMaxWords()},
		{Key: "keywords", Value: keywords},
	}
	return yaml.Marshal(doc)
}

func keywordMapFrom(doc yaml.MapSlice) (KeywordMap, error) {
	km := make(KeywordMap, 0, len(doc))
	for _, item := range doc {
		block := fmt.Sprint(item.Key)
		phrases, err := stringList(item.Value)
		if err != nil {
			return nil, fmt.Errorf("keywords for %q: %w", block, err)
		}
		km = km.With(block, phrases...)
	}
	return km, nil
}

func stringList(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{val}, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case yaml.MapSlice, []any:
				return nil, fmt.Errorf("expected a list of strings, found %T", item)
			default:
				out = append(out, fmt.Sprint(s))
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", v)
	}
}

func intValue(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

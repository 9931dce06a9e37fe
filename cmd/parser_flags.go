package cmd

import (
	"github.com/spf13/pflag"

	"github.com/gaurav-prasanna/storypipe/config"
)

// addParserFlags registers the segmentation flags shared by scrape, parse,
// config and serve.
func addParserFlags(f *pflag.FlagSet) {
	d := config.Default()
	f.String("keywords", "", "Keyword map file (JSON or YAML: block -> phrases)")
	f.String("parser-config", "", "Parser config file (block_order, keywords, heading_max_words)")
	f.Int("heading-max-words", 0, "Longest heading candidate in words (default 12)")
	f.String("parser-mode", d.ParserMode, "Paragraph classifier: heuristic or embedding")
	f.String("ollama-url", d.OllamaURL, "Ollama server for --parser-mode embedding")
	f.String("model", d.Model, "Embedding model for --parser-mode embedding")
	f.Float64("min-score", d.MinScore, "Minimum similarity for an embedding label")
	f.Int("chunk-size", d.ChunkSize, "Words per embedding chunk")
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/storypipe/core"
	"github.com/gaurav-prasanna/storypipe/core/audit"
	"github.com/gaurav-prasanna/storypipe/core/extract"
)

var flagHTML bool

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Split a local story into blocks and print JSON",
	Long: `Parse reads a story from a file (or stdin when the argument is "-" or
missing), splits it into blocks and prints the blocks with the completeness
audit as JSON.

Examples:
  storypipe parse story.txt
  cat story.html | storypipe parse --html
  storypipe parse story.txt --keywords keywords.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&flagHTML, "html", false, "Input is an HTML page; extract the story text first")
	addParserFlags(parseCmd.Flags())
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	parserCfg, err := cfg.ParserConfig()
	if err != nil {
		return fmt.Errorf("loading parser configuration: %w", err)
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	text := string(input)
	if flagHTML {
		article, err := extract.New().Extract(text)
		if err != nil {
			return fmt.Errorf("extract: %w", err)
		}
		text = article.Text
	}

	doc, err := cfg.Segmenter(parserCfg).Parse(cmd.Context(), text)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(core.ParseResult{
		Blocks:     doc,
		Validation: audit.Assess(doc, parserCfg.Order()),
	})
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

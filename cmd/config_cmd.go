package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var flagOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective parser configuration",
	Long: `Config prints the block order, keyword map and heading threshold the parser
would use with the given flags and files. The YAML output can be edited and
passed back with --parser-config.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVarP(&flagOutput, "output", "o", "json", "Output format: json or yaml")
	addParserFlags(configCmd.Flags())
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	parserCfg, err := cfg.ParserConfig()
	if err != nil {
		return fmt.Errorf("loading parser configuration: %w", err)
	}

	var data []byte
	switch flagOutput {
	case "json":
		data, err = json.MarshalIndent(parserCfg, "", "  ")
		data = append(data, '\n')
	case "yaml":
		data, err = parserCfg.MarshalYAML()
	default:
		return fmt.Errorf("unknown output format %q (expected json or yaml)", flagOutput)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

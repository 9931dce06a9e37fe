// Package config loads the storypipe application settings.
//
// Values are resolved by viper in this order: command-line flags, STORYPIPE_*
// environment variables, the YAML config file, built-in defaults. Parser
// documents (keyword maps, block orders) are separate files loaded by
// core/segment, since their key order and case are significant.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/storypipe/core/embed"
	"github.com/gaurav-prasanna/storypipe/core/fetch"
	"github.com/gaurav-prasanna/storypipe/core/render"
	"github.com/gaurav-prasanna/storypipe/core/segment"
)

// Parser modes.
const (
	ModeHeuristic = "heuristic"
	ModeEmbedding = "embedding"
)

// Config holds every application setting.
type Config struct {
	BaseURL     string        `mapstructure:"base_url" json:"base_url" yaml:"base_url"`
	ListingPath string        `mapstructure:"listing_path" json:"listing_path" yaml:"listing_path"`
	Limit       int           `mapstructure:"limit" json:"limit" yaml:"limit"`
	Delay       time.Duration `mapstructure:"delay" json:"delay" yaml:"delay"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
	Retries     int           `mapstructure:"retries" json:"retries" yaml:"retries"`
	Workers     int           `mapstructure:"workers" json:"workers" yaml:"workers"`
	UserAgent   string        `mapstructure:"user_agent" json:"user_agent" yaml:"user_agent"`

	OutputDir string   `mapstructure:"output_dir" json:"output_dir" yaml:"output_dir"`
	Formats   []string `mapstructure:"formats" json:"formats" yaml:"formats"`
	ExportRaw bool     `mapstructure:"export_raw" json:"export_raw" yaml:"export_raw"`
	PDFFont   string   `mapstructure:"pdf_font" json:"pdf_font" yaml:"pdf_font"`

	CheckRobots bool `mapstructure:"check_robots" json:"check_robots" yaml:"check_robots"`
	DryRun      bool `mapstructure:"dry_run" json:"dry_run" yaml:"dry_run"`

	KeywordsFile     string `mapstructure:"keywords_file" json:"keywords_file" yaml:"keywords_file"`
	ParserConfigFile string `mapstructure:"parser_config_file" json:"parser_config_file" yaml:"parser_config_file"`
	HeadingMaxWords  int    `mapstructure:"heading_max_words" json:"heading_max_words" yaml:"heading_max_words"`

	ParserMode string  `mapstructure:"parser_mode" json:"parser_mode" yaml:"parser_mode"`
	OllamaURL  string  `mapstructure:"ollama_url" json:"ollama_url" yaml:"ollama_url"`
	Model      string  `mapstructure:"model" json:"model" yaml:"model"`
	MinScore   float64 `mapstructure:"min_score" json:"min_score" yaml:"min_score"`
	ChunkSize  int     `mapstructure:"chunk_size" json:"chunk_size" yaml:"chunk_size"`

	Addr string `mapstructure:"addr" json:"addr" yaml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:     "https://business.diia.gov.ua",
		ListingPath: "/history-of-success",
		Limit:       3,
		Delay:       time.Second,
		Timeout:     fetch.DefaultTimeout,
		Retries:     fetch.DefaultRetries,
		Workers:     1,
		UserAgent:   fetch.DefaultUserAgent,
		OutputDir:   "output",
		Formats:     []string{"json", "csv"},
		ParserMode:  ModeHeuristic,
		OllamaURL:   embed.DefaultOllamaURL,
		Model:       embed.DefaultModel,
		MinScore:    embed.DefaultMinScore,
		ChunkSize:   256,
		Addr:        ":8090",
	}
}

// flagKeys maps flag names whose config key differs from the flag name
// with dashes turned into underscores.
var flagKeys = map[string]string{
	"format":        "formats",
	"keywords":      "keywords_file",
	"parser-config": "parser_config_file",
}

// Load resolves the configuration. cfgFile may be empty, in which case
// ./storypipe.yaml and $HOME/.storypipe/storypipe.yaml are tried. Only flags
// known to the configuration are bound; flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("STORYPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("storypipe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.storypipe")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			if !isKnownKey(key) {
				return
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("binding flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Formats = splitFormats(cfg.Formats)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("listing_path", d.ListingPath)
	v.SetDefault("limit", d.Limit)
	v.SetDefault("delay", d.Delay)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("retries", d.Retries)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("user_agent", d.UserAgent)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("formats", d.Formats)
	v.SetDefault("export_raw", d.ExportRaw)
	v.SetDefault("pdf_font", d.PDFFont)
	v.SetDefault("check_robots", d.CheckRobots)
	v.SetDefault("dry_run", d.DryRun)
	v.SetDefault("keywords_file", d.KeywordsFile)
	v.SetDefault("parser_config_file", d.ParserConfigFile)
	v.SetDefault("heading_max_words", d.HeadingMaxWords)
	v.SetDefault("parser_mode", d.ParserMode)
	v.SetDefault("ollama_url", d.OllamaURL)
	v.SetDefault("model", d.Model)
	v.SetDefault("min_score", d.MinScore)
	v.SetDefault("chunk_size", d.ChunkSize)
	v.SetDefault("addr", d.Addr)
}

// isKnownKey reports whether key is a Config field.
func isKnownKey(key string) bool {
	switch key {
	case "base_url", "listing_path", "limit", "delay", "timeout", "retries", "workers",
		"user_agent", "output_dir", "formats", "export_raw", "pdf_font", "check_robots",
		"dry_run", "keywords_file", "parser_config_file", "heading_max_words",
		"parser_mode", "ollama_url", "model", "min_score", "chunk_size", "addr":
		return true
	}
	return false
}

// splitFormats accepts both repeated values and comma-separated lists.
func splitFormats(in []string) []string {
	var out []string
	for _, item := range in {
		for _, f := range strings.Split(item, ",") {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				out = append(out, f)
			}
		}
	}
	return out
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Limit < 0 {
		errs = append(errs, fmt.Errorf("limit must not be negative (got %d)", c.Limit))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1 (got %d)", c.Workers))
	}
	if c.Delay < 0 {
		errs = append(errs, fmt.Errorf("delay must not be negative (got %s)", c.Delay))
	}
	if c.ParserMode != ModeHeuristic && c.ParserMode != ModeEmbedding {
		errs = append(errs, fmt.Errorf("parser_mode must be %q or %q (got %q)", ModeHeuristic, ModeEmbedding, c.ParserMode))
	}
	if _, err := render.ForFormats(c.Formats, render.Options{}); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParserConfig builds the segmentation configuration: defaults, then the
// parser config file, then the keyword map file, then heading_max_words.
func (c *Config) ParserConfig() (segment.Config, error) {
	cfg := segment.DefaultConfig()
	if c.ParserConfigFile != "" {
		loaded, err := segment.LoadConfig(c.ParserConfigFile, cfg)
		if err != nil {
			return segment.Config{}, err
		}
		cfg = loaded
	}
	if c.KeywordsFile != "" {
		km, err := segment.LoadKeywordMap(c.KeywordsFile)
		if err != nil {
			return segment.Config{}, err
		}
		cfg = cfg.WithKeywords(km)
	}
	if c.HeadingMaxWords > 0 {
		cfg = cfg.WithHeadingMaxWords(c.HeadingMaxWords)
	}
	return cfg, nil
}

// Segmenter builds the parser for cfg in the configured mode.
func (c *Config) Segmenter(cfg segment.Config) *segment.Parser {
	if c.ParserMode != ModeEmbedding {
		return segment.NewParser(cfg)
	}
	classifier := embed.NewClassifier(cfg, embed.NewOllamaClient(c.OllamaURL, c.Model), embed.Options{
		MinScore:  c.MinScore,
		ChunkSize: c.ChunkSize,
	})
	return segment.NewParser(cfg, segment.WithClassifier(classifier))
}

// FetchOptions returns the HTTP fetcher settings.
func (c *Config) FetchOptions() fetch.Options {
	return fetch.Options{
		Timeout:   c.Timeout,
		Retries:   c.Retries,
		UserAgent: c.UserAgent,
	}
}

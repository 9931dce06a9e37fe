package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every subcommand flag to its default so tests do not
// leak state through the shared command tree.
func resetFlags() {
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				def := strings.Trim(f.DefValue, "[]")
				var vals []string
				if def != "" {
					vals = strings.Split(def, ",")
				}
				sv.Replace(vals)
			} else {
				f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
}

func TestParseCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "story.txt")
	require.NoError(t, os.WriteFile(path, []byte("Вступ: Історія\n\nАудит: ризики"), 0o644))

	out, err := run(t, "", "parse", path)
	require.NoError(t, err)

	var got struct {
		Blocks     map[string]string `json:"blocks"`
		Validation struct {
			NeedsReview   bool     `json:"needs_review"`
			MissingBlocks []string `json:"missing_blocks"`
		} `json:"validation"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Історія", got.Blocks["Introduction"])
	assert.Equal(t, "ризики", got.Blocks["Audit"])
	assert.True(t, got.Validation.NeedsReview)
	assert.Len(t, got.Validation.MissingBlocks, 7)
}

func TestParseCommand_HTMLFromStdin(t *testing.T) {
	html := `<html><body><article><p>Труднощі: мало клієнтів</p></article></body></html>`
	out, err := run(t, html, "parse", "--html", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"Challenges": "мало клієнтів"`)
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, "", "config", "--output", "yaml", "--heading-max-words", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "block_order:")
	assert.Contains(t, out, "heading_max_words: 5")

	_, err = run(t, "", "config", "--output", "toml")
	require.Error(t, err)
}

func TestScrapeCommand_DryRun(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/stories", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a class="card" href="/stories/a">A</a><a class="card" href="/stories/b">B</a>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := run(t, "", "scrape", "--dry-run", "--base-url", srv.URL, "--listing-path", "/stories", "--limit", "0")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/stories/a\n"+srv.URL+"/stories/b\n", out)
}

func TestScrapeCommand_WritesExports(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/stories", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a class="card" href="/stories/a">A</a>`))
	})
	mux.HandleFunc("/stories/a", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>A</h1><main><p>Вступ: текст</p></main></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	out, err := run(t, "", "scrape", "--base-url", srv.URL, "--listing-path", "/stories",
		"--output-dir", dir, "--format", "json,md", "--export-raw", "--delay", "0s")
	require.NoError(t, err)
	assert.Contains(t, out, "stories.json")

	assert.FileExists(t, filepath.Join(dir, "stories.json"))
	assert.FileExists(t, filepath.Join(dir, "stories.md"))
	entries, err := os.ReadDir(filepath.Join(dir, "raw"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestScrapeCommand_NoStories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stories" {
			w.Write([]byte(`<a class="card" href="/stories/gone">gone</a>`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := run(t, "", "scrape", "--base-url", srv.URL, "--listing-path", "/stories",
		"--output-dir", t.TempDir(), "--delay", "0s", "--retries", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no stories")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "json", true)
	require.NoError(t, err)
	l.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	_, err = newLogger(&buf, "xml", false)
	require.Error(t, err)
}

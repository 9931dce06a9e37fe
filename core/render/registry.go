package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/storypipe/core"
)

// Formats lists the export format names accepted by ForFormats.
var Formats = []string{"json", "csv", "md", "pdf"}

// Options carries settings shared by the renderers.
type Options struct {
	// BlockOrder fixes the CSV block columns.
	BlockOrder []string
	// PDFFont is an optional UTF-8 TTF font file for the PDF report.
	PDFFont string
}

// ForFormats returns one renderer per requested format, in request order.
// Duplicates are ignored; an unknown name is an error.
func ForFormats(formats []string, opts Options) ([]core.Renderer, error) {
	seen := make(map[string]bool)
	var out []core.Renderer
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "markdown" {
			f = "md"
		}
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true

		switch f {
		case "json":
			out = append(out, NewJSONRenderer())
		case "csv":
			out = append(out, NewCSVRenderer(opts.BlockOrder...))
		case "md":
			out = append(out, NewMarkdownRenderer())
		case "pdf":
			out = append(out, NewPDFRenderer(opts.PDFFont))
		default:
			return nil, fmt.Errorf("unknown format %q (expected one of %s)", f, strings.Join(Formats, ", "))
		}
	}
	return out, nil
}

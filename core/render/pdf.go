// Package render — PDF renderer.
// Lays out the same report as the Markdown renderer using gofpdf.
// Cyrillic text needs a UTF-8 TrueType font; without one the core Helvetica
// font is used and runes outside cp1252 are substituted.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/storypipe/core"
)

const pdfFontFamily = "storyfont"

// PDFRenderer renders stories as a PDF report.
type PDFRenderer struct {
	fontPath string
}

// NewPDFRenderer creates a PDFRenderer. fontPath optionally names a UTF-8
// TTF font file.
func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath}
}

// Render converts stories into PDF bytes.
func (r *PDFRenderer) Render(stories []core.Story) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	family, tr := "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", r.fontPath)
		pdf.AddUTF8Font(pdfFontFamily, "B", r.fontPath)
		pdf.AddUTF8Font(pdfFontFamily, "I", r.fontPath)
		family, tr = pdfFontFamily, func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}

	if len(stories) == 0 {
		pdf.AddPage()
		pdf.SetFont(family, "I", 10)
		pdf.MultiCell(0, 5, tr("No stories."), "", "L", false)
	}

	for _, s := range stories {
		pdf.AddPage()

		title := s.Title
		if title == "" {
			title = s.URL
		}
		pdf.SetFont(family, "B", 18)
		pdf.MultiCell(0, 8, tr(title), "", "L", false)
		pdf.Ln(2)

		pdf.SetFont(family, "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr("Source: "+s.URL), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)

		for _, block := range s.Blocks.Blocks() {
			renderHeading(pdf, family, tr(block.Name), 2)
			text := strings.TrimSpace(block.Text)
			if text == "" {
				pdf.SetFont(family, "I", 10)
				pdf.SetTextColor(150, 150, 150)
				pdf.MultiCell(0, 5, tr("No content."), "", "L", false)
				pdf.SetTextColor(0, 0, 0)
				continue
			}
			pdf.SetFont(family, "", 10)
			for _, para := range strings.Split(text, "\n\n") {
				pdf.MultiCell(0, 5, tr(para), "", "L", false)
				pdf.Ln(2)
			}
		}

		if s.Validation.NeedsReview {
			renderHeading(pdf, family, tr("Needs review"), 3)
			pdf.SetFont(family, "", 10)
			for _, name := range s.Validation.MissingBlocks {
				line := "- " + name + ": " + s.Validation.Notes[name]
				pdf.MultiCell(0, 5, tr(line), "", "L", false)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, family, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 14, 3: 12}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(3)
	pdf.SetFont(family, "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(1)
}

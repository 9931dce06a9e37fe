// Package extract implements the Extractor interface.
// It isolates a story from a full HTML page by:
//  1. Reading the title (<h1>, then <title>) and the page language
//  2. Removing noise elements (nav, footer, scripts, media, forms)
//  3. Finding the first story container with text and collecting its
//     block-level elements as paragraphs
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/storypipe/core"
)

// DefaultLanguage is reported when the page does not declare one.
const DefaultLanguage = "uk"

// noiseSelectors are HTML elements removed before extraction.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer",
	"img", "picture", "figure", "figcaption",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// containerSelectors locate the story body, in priority order.
var containerSelectors = []string{
	"article",
	"div.article",
	"div.post-content",
	"div.article-content",
	"div.blog-single",
	"main",
}

// paragraphSelector picks the block-level elements that become paragraphs.
const paragraphSelector = "p, li, blockquote, h2, h3"

// HTMLExtractor pulls story text out of HTML pages.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract parses html and returns the story article. A page without any
// recognised container falls back to the text of the whole body.
func (e *HTMLExtractor) Extract(html string) (*core.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	article := &core.Article{
		Title:    extractTitle(doc),
		Language: extractLang(doc),
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	for _, sel := range containerSelectors {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}
		text := paragraphs(container)
		if text == "" {
			continue
		}
		article.Text = text
		article.HTML, err = goquery.OuterHtml(container)
		if err != nil {
			return nil, fmt.Errorf("serializing content: %w", err)
		}
		return article, nil
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}
	article.Text = collapseSpace(body.Text())
	if body.Is("body") {
		article.HTML, _ = body.Html()
	}
	return article, nil
}

// paragraphs joins the text of every paragraph-level element in container
// with blank lines.
func paragraphs(container *goquery.Selection) string {
	var parts []string
	container.Find(paragraphSelector).Each(func(_ int, s *goquery.Selection) {
		if t := collapseSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n\n")
}

func extractTitle(doc *goquery.Document) string {
	if h1 := collapseSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return collapseSpace(doc.Find("title").First().Text())
}

func extractLang(doc *goquery.Document) string {
	if lang, ok := doc.Find("html").Attr("lang"); ok && strings.TrimSpace(lang) != "" {
		return strings.TrimSpace(lang)
	}
	return DefaultLanguage
}

// collapseSpace trims s and replaces every whitespace run with one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

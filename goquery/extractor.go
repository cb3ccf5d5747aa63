// Package goquery provides CSS-selector based implementations of
// webextract.Extractor and webextract.LinkDiscoverer.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/truxtai/webextract"
)

// contentSelectors is the cascade of selectors tried in order when locating
// the main content of a page. The first match wins; body is the last resort.
var contentSelectors = []string{
	"main",
	"article",
	".content",
	"#content",
	".post-content",
	".entry-content",
	"body",
}

// boilerplateSelectors name elements removed from the matched content before
// it is returned.
var boilerplateSelectors = []string{
	"script",
	"style",
	"nav",
	"footer",
	"iframe",
}

// Ensure Extractor implements webextract.Extractor at compile time.
var _ webextract.Extractor = (*Extractor)(nil)

// Extractor extracts main page content using a cascade of common content
// selectors. It works well on conventionally structured sites; use
// trafilatura.Extractor for heuristic boilerplate removal.
type Extractor struct{}

// NewExtractor creates a new selector-based Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract locates the main content of an HTML page and strips boilerplate
// elements from it. The page title comes from the <title> element.
// Returns EINVALID if the result has less than webextract.MinContentLength
// bytes of visible text.
func (e *Extractor) Extract(html string) (*webextract.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, webextract.Errorf(webextract.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	var content *goquery.Selection
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			content = sel
			break
		}
	}
	if content == nil {
		return nil, webextract.Errorf(webextract.EINVALID, "no content found in page")
	}

	for _, selector := range boilerplateSelectors {
		content.Find(selector).Remove()
	}

	text := strings.TrimSpace(content.Text())
	if len(text) < webextract.MinContentLength {
		return nil, webextract.Errorf(webextract.EINVALID, "extracted content too short (%d bytes, need %d)", len(text), webextract.MinContentLength)
	}

	contentHTML, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, webextract.Errorf(webextract.EINTERNAL, "failed to render content HTML: %v", err)
	}

	return &webextract.ExtractResult{
		Title:       title,
		ContentHTML: contentHTML,
	}, nil
}

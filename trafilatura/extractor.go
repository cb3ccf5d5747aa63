// Package trafilatura provides a webextract.Extractor backed by the
// go-trafilatura boilerplate-removal library. It handles pages where the
// selector cascade picks up too much chrome.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/truxtai/webextract"
	"golang.org/x/net/html"
)

// Ensure Extractor implements webextract.Extractor at compile time.
var _ webextract.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
// Returns EINVALID if the result has less than webextract.MinContentLength
// bytes of visible text.
func (e *Extractor) Extract(rawHTML string) (*webextract.ExtractResult, error) {
	if rawHTML == "" {
		return nil, webextract.Errorf(webextract.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, webextract.Errorf(webextract.EINVALID, "extracting content: %v", err)
	}

	if len(strings.TrimSpace(result.ContentText)) < webextract.MinContentLength {
		return nil, webextract.Errorf(webextract.EINVALID, "extracted content too short (%d bytes, need %d)", len(strings.TrimSpace(result.ContentText)), webextract.MinContentLength)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, webextract.Errorf(webextract.EINTERNAL, "rendering content: %v", err)
		}
	}

	return &webextract.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

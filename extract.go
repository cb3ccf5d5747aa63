package webextract

// MinContentLength is the minimum number of visible text bytes an extracted
// page must contain. Shorter results are treated as extraction failures
// rather than sent to the language model.
const MinContentLength = 50

// ExtractResult holds the content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (scripts, styles, nav, footer) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// Extraction must be deterministic: identical HTML input yields identical
// output.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// Returns EINVALID if the page yields less than MinContentLength bytes
	// of visible text.
	Extract(html string) (*ExtractResult, error)
}

// Converter converts extracted content HTML to a plain-text representation
// (Markdown) suitable for prompting and display.
type Converter interface {
	Convert(html string) (string, error)
}

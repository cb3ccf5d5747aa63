package mock

import "github.com/truxtai/webextract"

var _ webextract.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of webextract.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*webextract.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*webextract.ExtractResult, error) {
	return e.ExtractFn(html)
}

package mock

import "github.com/truxtai/webextract"

var _ webextract.Converter = (*Converter)(nil)

// Converter is a mock implementation of webextract.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

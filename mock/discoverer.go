package mock

import "github.com/truxtai/webextract"

var _ webextract.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer is a mock implementation of webextract.LinkDiscoverer.
type LinkDiscoverer struct {
	DiscoverLinksFn func(html string, baseURL string, max int) ([]webextract.DiscoveredLink, error)
}

func (d *LinkDiscoverer) DiscoverLinks(html string, baseURL string, max int) ([]webextract.DiscoveredLink, error) {
	return d.DiscoverLinksFn(html, baseURL, max)
}

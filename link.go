package webextract

import "context"

// Link sources, in the order the discoverer consults them.
const (
	LinkSourceNav    = "nav"
	LinkSourceHeader = "header"
	LinkSourceFooter = "footer"
)

// DiscoveredLink represents a same-site URL found in a page's navigable
// elements.
type DiscoveredLink struct {
	URL    string
	Text   string // anchor text
	Source string // "nav", "header", "footer"
}

// LinkDiscoverer finds same-site linked pages for multi-page extraction.
//
// Results are deduplicated, preserve document order, and are bounded by max.
// External domains, anchor-only links, and non-content schemes (mailto:,
// tel:, javascript:, data:) are excluded.
type LinkDiscoverer interface {
	DiscoverLinks(html string, baseURL string, max int) ([]DiscoveredLink, error)
}

// DomainLimiter provides per-domain rate limiting for page fetches.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// SitemapService discovers URLs from a site's sitemap. Used as a fallback
// when a page exposes no navigable links.
type SitemapService interface {
	// DiscoverURLs finds URLs from the site's sitemap. It first checks
	// robots.txt for sitemap directives, then falls back to /sitemap.xml.
	// Sitemap indexes are resolved recursively.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}

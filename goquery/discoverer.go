package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/truxtai/webextract"
	"github.com/truxtai/webextract/bloom"
)

// navSelectors map the elements consulted for navigation links to the source
// label recorded on each discovered link. Nav elements are tried first;
// header and footer serve as a fallback when no <nav> exists.
var navSelectors = []struct {
	selector string
	source   string
}{
	{"nav a[href]", webextract.LinkSourceNav},
	{"header a[href]", webextract.LinkSourceHeader},
	{"footer a[href]", webextract.LinkSourceFooter},
}

// expectedLinks sizes the per-call bloom filter. Navigation menus rarely
// exceed a few hundred entries.
const expectedLinks = 512

// Ensure LinkDiscoverer implements webextract.LinkDiscoverer at compile time.
var _ webextract.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer finds same-site links in a page's navigation elements.
type LinkDiscoverer struct{}

// NewLinkDiscoverer creates a new navigation link discoverer.
func NewLinkDiscoverer() *LinkDiscoverer {
	return &LinkDiscoverer{}
}

// DiscoverLinks extracts navigation links from the page. It prefers <nav>
// elements and falls back to <header> and <footer> anchors when the page has
// no nav links. Results are same-host only, deduplicated, in document order,
// and capped at max. Fragments are stripped before deduplication, so
// /page and /page#section count as one link.
func (d *LinkDiscoverer) DiscoverLinks(html string, baseURL string, max int) ([]webextract.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, webextract.Errorf(webextract.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, webextract.Errorf(webextract.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := bloom.NewFilter(expectedLinks, 0.001)
	var links []webextract.DiscoveredLink

	for _, nav := range navSelectors {
		doc.Find(nav.selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if len(links) >= max {
				return false
			}

			href, exists := sel.Attr("href")
			if !exists || href == "" {
				return true
			}
			if isNonHTTPLink(href) {
				return true
			}

			resolved := resolveURL(base, href)
			if resolved == "" {
				return true
			}
			if !isSameHost(base, resolved) {
				return true
			}
			if seen.TestAndAdd(resolved) {
				return true
			}

			links = append(links, webextract.DiscoveredLink{
				URL:    resolved,
				Text:   strings.TrimSpace(sel.Text()),
				Source: nav.source,
			})
			return true
		})

		// Header and footer anchors are only consulted when nav yields
		// nothing.
		if nav.source == webextract.LinkSourceNav && len(links) > 0 {
			break
		}
		if len(links) >= max {
			break
		}
	}

	return links, nil
}

// resolveURL resolves a relative href against the base URL. Returns empty
// string for unparseable hrefs and for self-referential links (anchor-only
// links resolve to the base page after fragment stripping).
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isSameHost checks if the resolved URL has the same host as the base URL.
// Exact host matching; subdomains are considered different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink checks if a href uses a scheme that cannot lead to a page.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

package goquery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truxtai/webextract"
	"github.com/truxtai/webextract/goquery"
)

func TestLinkDiscoverer_DiscoverLinks(t *testing.T) {
	t.Parallel()

	t.Run("finds internal nav links and skips external ones", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><nav>
			<a href="/about">About</a>
			<a href="/docs">Docs</a>
			<a href="/blog">Blog</a>
			<a href="https://example.com/pricing">Pricing</a>
			<a href="/contact">Contact</a>
			<a href="https://twitter.com/example">Twitter</a>
			<a href="https://github.com/example">GitHub</a>
		</nav></body></html>`

		d := goquery.NewLinkDiscoverer()
		links, err := d.DiscoverLinks(html, "https://example.com/", 10)

		require.NoError(t, err)
		require.Len(t, links, 5)
		assert.Equal(t, "https://example.com/about", links[0].URL)
		assert.Equal(t, "https://example.com/docs", links[1].URL)
		assert.Equal(t, "https://example.com/blog", links[2].URL)
		assert.Equal(t, "https://example.com/pricing", links[3].URL)
		assert.Equal(t, "https://example.com/contact", links[4].URL)
		for _, link := range links {
			assert.Equal(t, webextract.LinkSourceNav, link.Source)
		}
	})

	t.Run("deduplicates repeated URLs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><nav>
			<a href="/about">About</a>
			<a href="/about">About Us</a>
			<a href="/about#team">Team</a>
		</nav></body></html>`

		d := goquery.NewLinkDiscoverer()
		links, err := d.DiscoverLinks(html, "https://example.com/", 10)

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://example.com/about", links[0].URL)
		assert.Equal(t, "About", links[0].Text)
	})

	t.Run("falls back to header and footer when nav has no links", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<header><a href="/features">Features</a></header>
			<div>content</div>
			<footer><a href="/privacy">Privacy</a></footer>
		</body></html>`

		d := goquery.NewLinkDiscoverer()
		links, err := d.DiscoverLinks(html, "https://example.com/", 10)

		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "https://example.com/features", links[0].URL)
		assert.Equal(t, webextract.LinkSourceHeader, links[0].Source)
		assert.Equal(t, "https://example.com/privacy", links[1].URL)
		assert.Equal(t, webextract.LinkSourceFooter, links[1].Source)
	})

	t.Run("ignores header and footer when nav yields links", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<nav><a href="/docs">Docs</a></nav>
			<footer><a href="/terms">Terms</a></footer>
		</body></html>`

		d := goquery.NewLinkDiscoverer()
		links, err := d.DiscoverLinks(html, "https://example.com/", 10)

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://example.com/docs", links[0].URL)
	})

	t.Run("skips non-HTTP schemes and self links", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><nav>
			<a href="javascript:void(0)">Menu</a>
			<a href="mailto:hi@example.com">Email</a>
			<a href="tel:+1234567890">Call</a>
			<a href="#section">Jump</a>
			<a href="/start">Start</a>
			<a href="/page">Page</a>
		</nav></body></html>`

		d := goquery.NewLinkDiscoverer()
		links, err := d.DiscoverLinks(html, "https://example.com/start", 10)

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://example.com/page", links[0].URL)
	})

	t.Run("caps results at max", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><nav>
			<a href="/one">One</a>
			<a href="/two">Two</a>
			<a href="/three">Three</a>
			<a href="/four">Four</a>
		</nav></body></html>`

		d := goquery.NewLinkDiscoverer()
		links, err := d.DiscoverLinks(html, "https://example.com/", 2)

		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "https://example.com/one", links[0].URL)
		assert.Equal(t, "https://example.com/two", links[1].URL)
	})

	t.Run("resolves relative links against base path", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><nav>
			<a href="intro">Intro</a>
			<a href="../api/">API</a>
		</nav></body></html>`

		d := goquery.NewLinkDiscoverer()
		links, err := d.DiscoverLinks(html, "https://example.com/docs/guide/", 10)

		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "https://example.com/docs/guide/intro", links[0].URL)
		assert.Equal(t, "https://example.com/docs/api/", links[1].URL)
	})

	t.Run("returns error for invalid base URL", func(t *testing.T) {
		t.Parallel()

		d := goquery.NewLinkDiscoverer()
		_, err := d.DiscoverLinks("<html></html>", "://bad", 10)

		require.Error(t, err)
		assert.Equal(t, webextract.EINVALID, webextract.ErrorCode(err))
	})
}

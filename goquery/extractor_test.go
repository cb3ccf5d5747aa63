package goquery_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truxtai/webextract"
	"github.com/truxtai/webextract/goquery"
)

// filler pads test pages past the minimum content length.
var filler = strings.Repeat("This is the main content of the page. ", 5)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("prefers main over body", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Test Page</title></head><body>
			<div>sidebar noise</div>
			<main><p>` + filler + `</p></main>
		</body></html>`

		e := goquery.NewExtractor()
		result, err := e.Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Test Page", result.Title)
		assert.Contains(t, result.ContentHTML, "main content")
		assert.NotContains(t, result.ContentHTML, "sidebar noise")
	})

	t.Run("tries selectors in cascade order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<div class="post-content"><p>` + filler + `</p></div>
		</body></html>`

		e := goquery.NewExtractor()
		result, err := e.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "post-content")
	})

	t.Run("falls back to body", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>` + filler + `</p></body></html>`

		e := goquery.NewExtractor()
		result, err := e.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "main content")
	})

	t.Run("removes boilerplate elements", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>
			<script>var tracking = true;</script>
			<style>.hidden { display: none; }</style>
			<nav><a href="/home">Home</a></nav>
			<p>` + filler + `</p>
			<iframe src="https://ads.example.com"></iframe>
			<footer>Copyright 2024</footer>
		</main></body></html>`

		e := goquery.NewExtractor()
		result, err := e.Extract(html)

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, "tracking")
		assert.NotContains(t, result.ContentHTML, "display: none")
		assert.NotContains(t, result.ContentHTML, "/home")
		assert.NotContains(t, result.ContentHTML, "iframe")
		assert.NotContains(t, result.ContentHTML, "Copyright")
		assert.Contains(t, result.ContentHTML, "main content")
	})

	t.Run("returns EINVALID for short content", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>too short</main></body></html>`

		e := goquery.NewExtractor()
		_, err := e.Extract(html)

		require.Error(t, err)
		assert.Equal(t, webextract.EINVALID, webextract.ErrorCode(err))
	})

	t.Run("empty title when page has none", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main><p>` + filler + `</p></main></body></html>`

		e := goquery.NewExtractor()
		result, err := e.Extract(html)

		require.NoError(t, err)
		assert.Empty(t, result.Title)
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Page</title></head><body>
			<main><p>` + filler + `</p></main>
		</body></html>`

		e := goquery.NewExtractor()
		first, err := e.Extract(html)
		require.NoError(t, err)
		second, err := e.Extract(html)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

package webextract

import "context"

// Fetcher retrieves raw or rendered HTML from URLs.
// Implementations may use plain HTTP requests or browser automation to
// handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the HTML for the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

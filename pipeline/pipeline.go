// Package pipeline orchestrates extraction runs: page discovery, fetching,
// content extraction, Markdown conversion, and model-based cleanup.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/truxtai/webextract"
)

// Page count bounds for multi-page modes.
const (
	DefaultMaxPages = 3
	MaxPagesLimit   = 10
)

// Pipeline runs extraction sessions. Fetcher, Extractor, Converter, and
// Cleaner are required; Links is required for menu and crawl modes. The
// remaining services are optional and skipped when nil.
type Pipeline struct {
	Fetcher   webextract.Fetcher
	Extractor webextract.Extractor
	Converter webextract.Converter
	Cleaner   webextract.Cleaner
	Links     webextract.LinkDiscoverer
	Sitemaps  webextract.SitemapService
	Limiter   webextract.DomainLimiter
	Sessions  webextract.SessionService
	Tokens    webextract.TokenCounter
	Logger    *slog.Logger
	Retry     webextract.RetryPolicy
}

// Options configures a single extraction run.
type Options struct {
	// Mode selects page discovery. Defaults to ModeSingle.
	Mode webextract.Mode

	// MaxPages bounds the total pages processed in menu and crawl modes,
	// including the start page. Defaults to DefaultMaxPages, capped at
	// MaxPagesLimit. Single mode always processes exactly one page.
	MaxPages int

	// Instruction overrides the cleaner's default cleaning instruction.
	Instruction string
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressPageCompleted
	ProgressPageFailed
	ProgressFinished
)

// ProgressEvent reports progress during an extraction run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Err       error
}

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// page is a unit of work within a run. The start page carries its already
// fetched HTML so it isn't fetched twice.
type page struct {
	url  string
	html string
}

// NormalizeURL prepends https:// to URLs entered without a scheme.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

// Run executes one extraction session and returns it. The session is
// returned even on error so callers can inspect per-page failures. Run fails
// only when no page could be processed; partial failures are recorded on the
// session and reported through progress events.
func (p *Pipeline) Run(ctx context.Context, startURL string, opts Options, progress ProgressFunc) (*webextract.ExtractionSession, error) {
	startURL = NormalizeURL(startURL)

	parsed, err := url.Parse(startURL)
	if err != nil || parsed.Host == "" {
		return nil, webextract.Errorf(webextract.EINVALID, "invalid URL %q", startURL)
	}

	mode := opts.Mode
	if mode == "" {
		mode = webextract.ModeSingle
	}

	session := &webextract.ExtractionSession{
		StartURL:  startURL,
		Mode:      mode,
		StartedAt: time.Now(),
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if maxPages > MaxPagesLimit {
		maxPages = MaxPagesLimit
	}
	if mode == webextract.ModeSingle {
		maxPages = 1
	}

	pages, err := p.collectPages(ctx, startURL, parsed.Host, mode, maxPages, session)
	if err != nil {
		return session, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: len(pages)})
	}

	var firstErr error
	for i, pg := range pages {
		if err := ctx.Err(); err != nil {
			return session, err
		}

		result := p.processPage(ctx, pg, opts.Instruction)
		session.Pages = append(session.Pages, result)

		if result.Failed() {
			if firstErr == nil {
				firstErr = webextract.Errorf(webextract.EINTERNAL, "%s", result.Err)
			}
			p.logger().Warn("page failed",
				slog.String("url", result.URL),
				slog.String("error", result.Err))
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressPageFailed,
					Completed: i + 1,
					Total:     len(pages),
					URL:       result.URL,
					Err:       fmt.Errorf("%s", result.Err),
				})
			}
			continue
		}

		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressPageCompleted,
				Completed: i + 1,
				Total:     len(pages),
				URL:       result.URL,
			})
		}
	}

	session.FinishedAt = time.Now()

	p.recordSession(ctx, session)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: len(pages), Total: len(pages)})
	}

	if session.Succeeded() == 0 {
		if len(session.Pages) == 1 && firstErr != nil {
			return session, firstErr
		}
		return session, webextract.Errorf(webextract.EUNAVAILABLE, "all %d pages failed", len(session.Pages))
	}

	return session, nil
}

// collectPages builds the ordered page list for a run. Multi-page modes
// fetch the start page once and discover further pages from its links; crawl
// mode falls back to the site's sitemap when the page exposes no links.
func (p *Pipeline) collectPages(ctx context.Context, startURL, host string, mode webextract.Mode, maxPages int, session *webextract.ExtractionSession) ([]page, error) {
	if mode == webextract.ModeSingle {
		return []page{{url: startURL}}, nil
	}

	if err := p.wait(ctx, host); err != nil {
		return nil, err
	}

	html, err := p.Fetcher.Fetch(ctx, startURL)
	if err != nil {
		session.Pages = append(session.Pages, webextract.PageResult{
			URL: startURL,
			Err: webextract.ErrorMessage(err),
		})
		session.FinishedAt = time.Now()
		return nil, err
	}

	pages := []page{{url: startURL, html: html}}

	links, err := p.Links.DiscoverLinks(html, startURL, maxPages-1)
	if err != nil {
		p.logger().Warn("link discovery failed",
			slog.String("url", startURL),
			slog.String("error", err.Error()))
	}
	for _, link := range links {
		pages = append(pages, page{url: link.URL})
	}

	if len(pages) == 1 && mode == webextract.ModeCrawl && p.Sitemaps != nil {
		urls, err := p.Sitemaps.DiscoverURLs(ctx, startURL)
		if err != nil {
			p.logger().Warn("sitemap discovery failed",
				slog.String("url", startURL),
				slog.String("error", err.Error()))
		}
		for _, u := range urls {
			if u == startURL {
				continue
			}
			if len(pages) >= maxPages {
				break
			}
			pages = append(pages, page{url: u})
		}
	}

	return pages, nil
}

// processPage runs the extract-convert-clean sequence for one page.
func (p *Pipeline) processPage(ctx context.Context, pg page, instruction string) webextract.PageResult {
	result := webextract.PageResult{URL: pg.url}
	started := time.Now()

	fail := func(err error) webextract.PageResult {
		result.Err = webextract.ErrorMessage(err)
		result.Duration = time.Since(started)
		return result
	}

	html := pg.html
	if html == "" {
		domain := ""
		if u, err := url.Parse(pg.url); err == nil {
			domain = u.Host
		}
		if err := p.wait(ctx, domain); err != nil {
			return fail(err)
		}

		fetched, err := p.Fetcher.Fetch(ctx, pg.url)
		if err != nil {
			return fail(err)
		}
		html = fetched
	}

	extracted, err := p.Extractor.Extract(html)
	if err != nil {
		return fail(err)
	}
	result.Title = extracted.Title

	markdown, err := p.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return fail(err)
	}

	cleaned, err := CleanWithRetry(ctx, p.Cleaner, webextract.CleaningRequest{
		Text:        markdown,
		Instruction: instruction,
	}, p.Retry, p.Logger)
	if err != nil {
		return fail(err)
	}

	result.CleanedText = cleaned
	result.ContentHash = computeHash(cleaned)
	result.Bytes = len(cleaned)
	result.Duration = time.Since(started)

	if p.Tokens != nil {
		if tokens, err := p.Tokens.CountTokens(ctx, cleaned); err == nil {
			result.Tokens = tokens
		}
	}

	return result
}

// recordSession persists run history. History is best-effort: failures are
// logged, never surfaced to the run.
func (p *Pipeline) recordSession(ctx context.Context, session *webextract.ExtractionSession) {
	if p.Sessions == nil {
		return
	}
	if err := p.Sessions.CreateSession(ctx, session); err != nil {
		p.logger().Warn("failed to record session history",
			slog.String("startUrl", session.StartURL),
			slog.String("error", err.Error()))
	}
}

func (p *Pipeline) wait(ctx context.Context, domain string) error {
	if p.Limiter == nil {
		return nil
	}
	return p.Limiter.Wait(ctx, domain)
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// computeHash computes a hash of the content using xxhash.
func computeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

// TruncateURL shortens a URL for display, keeping the end which is more
// informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatTokens formats token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}

package webextract

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Mode selects how an extraction run discovers pages.
type Mode string

// Extraction modes.
const (
	// ModeSingle extracts the start URL only.
	ModeSingle Mode = "single"

	// ModeMenu extracts the start URL plus pages reached through its
	// navigation menu.
	ModeMenu Mode = "menu"

	// ModeCrawl extracts the start URL plus discovered same-site pages,
	// falling back to the site's sitemap when no links are found.
	ModeCrawl Mode = "crawl"
)

// PageResult holds the outcome of processing a single page within a session.
// CleanedText is kept in memory for display and download only; stores
// persist the metadata fields, never the text.
type PageResult struct {
	URL         string        `json:"url"`
	Title       string        `json:"title"`
	CleanedText string        `json:"-"`
	ContentHash string        `json:"contentHash"`
	Bytes       int           `json:"bytes"`
	Tokens      int           `json:"tokens"`
	Err         string        `json:"error,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// Failed reports whether the page could not be processed.
func (r *PageResult) Failed() bool {
	return r.Err != ""
}

// ExtractionSession aggregates the results of one user-initiated extraction
// run. Every processed page belongs to exactly one session; sessions share
// no intermediate state.
type ExtractionSession struct {
	ID         string       `json:"id"`
	StartURL   string       `json:"startUrl"`
	Mode       Mode         `json:"mode"`
	Pages      []PageResult `json:"pages"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
}

// Validate returns an error if the session contains invalid fields.
func (s *ExtractionSession) Validate() error {
	if s.StartURL == "" {
		return Errorf(EINVALID, "session start URL required")
	}
	switch s.Mode {
	case ModeSingle, ModeMenu, ModeCrawl:
		return nil
	default:
		return Errorf(EINVALID, "invalid session mode %q", s.Mode)
	}
}

// Succeeded returns the number of successfully cleaned pages.
func (s *ExtractionSession) Succeeded() int {
	n := 0
	for i := range s.Pages {
		if !s.Pages[i].Failed() {
			n++
		}
	}
	return n
}

// Failed returns the number of pages that could not be processed.
func (s *ExtractionSession) Failed() int {
	return len(s.Pages) - s.Succeeded()
}

// Combined aggregates the cleaned text of all successful pages in page
// order. A single-page session returns the cleaner's output verbatim;
// multi-page sessions separate pages with a heading naming the page.
func (s *ExtractionSession) Combined() string {
	if len(s.Pages) == 1 && !s.Pages[0].Failed() {
		return s.Pages[0].CleanedText
	}

	var b strings.Builder
	for i := range s.Pages {
		p := &s.Pages[i]
		if p.Failed() {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		title := p.Title
		if title == "" {
			title = p.URL
		}
		fmt.Fprintf(&b, "## %s\n%s\n\n", title, p.URL)
		b.WriteString(p.CleanedText)
	}
	return b.String()
}

// SessionService persists extraction-run history. Implementations store
// session and per-page metadata only; cleaned content is never persisted.
type SessionService interface {
	// CreateSession records a finished session and assigns its ID.
	CreateSession(ctx context.Context, session *ExtractionSession) error

	// FindSessionByID retrieves a session with its page results.
	// Returns ENOTFOUND if the session does not exist.
	FindSessionByID(ctx context.Context, id string) (*ExtractionSession, error)

	// FindSessions retrieves sessions matching the filter, most recent first.
	FindSessions(ctx context.Context, filter SessionFilter) ([]*ExtractionSession, error)

	// DeleteSession permanently removes a session and its page records.
	// Returns ENOTFOUND if the session does not exist.
	DeleteSession(ctx context.Context, id string) error
}

// SessionFilter represents a filter for FindSessions.
type SessionFilter struct {
	ID       *string `json:"id"`
	StartURL *string `json:"startUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

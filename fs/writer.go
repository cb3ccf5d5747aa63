// Package fs writes extraction results to downloadable text files.
package fs

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/truxtai/webextract"
)

// FileName builds the download file name for a session's content:
// the start URL's domain with dots replaced by underscores, plus a
// timestamp. Example: example_com_20260823_153000.txt
func FileName(startURL string, at time.Time) string {
	domain := "content"
	if u, err := url.Parse(startURL); err == nil && u.Host != "" {
		domain = strings.ReplaceAll(u.Host, ".", "_")
	}
	return fmt.Sprintf("%s_%s.txt", domain, at.Format("20060102_150405"))
}

// FormatSession renders a session's combined cleaned text. A single-page
// session is the cleaner's output verbatim; multi-page sessions get a small
// header identifying the source.
func FormatSession(session *webextract.ExtractionSession) string {
	if len(session.Pages) == 1 {
		return session.Combined()
	}

	var b strings.Builder
	b.WriteString("Source: ")
	b.WriteString(session.StartURL)
	b.WriteString("\nExtracted: ")
	b.WriteString(session.FinishedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "\nPages: %d extracted, %d failed\n\n", session.Succeeded(), session.Failed())
	b.WriteString(session.Combined())
	return b.String()
}

// Writer writes session content as text files to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteSession writes a session's combined content to disk and returns the
// full path of the written file.
func (w *Writer) WriteSession(session *webextract.ExtractionSession) (string, error) {
	if err := session.Validate(); err != nil {
		return "", err
	}

	fullPath := filepath.Join(w.baseDir, FileName(session.StartURL, session.FinishedAt))

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}

	if err := os.WriteFile(fullPath, []byte(FormatSession(session)), 0644); err != nil {
		return "", err
	}

	return fullPath, nil
}

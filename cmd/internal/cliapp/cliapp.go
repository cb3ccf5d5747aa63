// Package cliapp holds glue shared by the webextract binaries: logging,
// history storage, the Gemini client, and the one-shot extraction flow.
package cliapp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/truxtai/webextract"
	"github.com/truxtai/webextract/fs"
	"github.com/truxtai/webextract/gemini"
	"github.com/truxtai/webextract/pipeline"
	"github.com/truxtai/webextract/sqlite"
	"google.golang.org/genai"
)

// TokenizerModel is used for local token counting. gemini-2.0-flash is not
// supported by google.golang.org/genai/tokenizer, so the closest supported
// model is used instead.
const TokenizerModel = "gemini-1.5-flash"

// NewLogger builds the CLI logger. Verbose enables debug output; otherwise
// only warnings and errors are shown.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// DefaultDBPath returns the history database path: WEBEXTRACT_DB if set,
// otherwise ~/.webextract/history.db.
func DefaultDBPath() string {
	if path := os.Getenv("WEBEXTRACT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "webextract.db"
	}
	dir := filepath.Join(home, ".webextract")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "history.db")
}

// OpenHistory opens the session store. History is optional: open failures
// are logged and a nil service is returned so the program continues without
// it. The returned DB is nil when opening failed.
func OpenHistory(path string, logger *slog.Logger) (*sqlite.DB, webextract.SessionService) {
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		logger.Warn("run history disabled",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, nil
	}
	return db, sqlite.NewSessionService(db)
}

// NewGeminiClient validates GEMINI_API_KEY and connects to the Gemini API.
// The key check happens before any network work so a misconfigured
// environment fails immediately.
func NewGeminiClient(ctx context.Context, stderr io.Writer) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, webextract.Errorf(webextract.ECONFIG, "GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	return client, nil
}

// NewTokenCounter builds the local tokenizer. Token counts are statistics
// only, so failures just disable them.
func NewTokenCounter(logger *slog.Logger) webextract.TokenCounter {
	tc, err := gemini.NewTokenCounter(TokenizerModel)
	if err != nil {
		logger.Warn("token counting disabled", slog.String("error", err.Error()))
		return nil
	}
	return tc
}

// RunOnce performs a single extraction from the command line, writes the
// result file, and prints a summary.
func RunOnce(ctx context.Context, p *pipeline.Pipeline, url string, opts pipeline.Options, outputDir string, stdout, stderr io.Writer) error {
	spin := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(stderr))
	spin.Suffix = " extracting " + pipeline.TruncateURL(url, 60)
	spin.Start()

	session, err := p.Run(ctx, url, opts, func(e pipeline.ProgressEvent) {
		if e.Type == pipeline.ProgressPageCompleted || e.Type == pipeline.ProgressPageFailed {
			spin.Suffix = fmt.Sprintf(" extracting page %d of %d", e.Completed, e.Total)
		}
	})
	spin.Stop()

	if err != nil {
		return err
	}

	var bytes, tokens int
	for i := range session.Pages {
		bytes += session.Pages[i].Bytes
		tokens += session.Pages[i].Tokens
	}

	fmt.Fprintf(stdout, "Extracted %d of %d pages (%s", session.Succeeded(), len(session.Pages), pipeline.FormatBytes(bytes))
	if tokens > 0 {
		fmt.Fprintf(stdout, ", %s", pipeline.FormatTokens(tokens))
	}
	fmt.Fprintln(stdout, ")")

	for i := range session.Pages {
		page := &session.Pages[i]
		if page.Failed() {
			fmt.Fprintf(stdout, "  FAIL %s: %s\n", pipeline.TruncateURL(page.URL, 60), page.Err)
		}
	}

	path, err := fs.NewWriter(outputDir).WriteSession(session)
	if err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(stdout, "Saved to %s\n", path)

	return nil
}

// PrintHistory lists recent sessions from the history store.
func PrintHistory(ctx context.Context, sessions webextract.SessionService, stdout io.Writer) error {
	if sessions == nil {
		return webextract.Errorf(webextract.ECONFIG, "run history is not available")
	}

	found, err := sessions.FindSessions(ctx, webextract.SessionFilter{Limit: 20})
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Fprintln(stdout, "No extraction history.")
		return nil
	}

	for _, s := range found {
		fmt.Fprintf(stdout, "%s  %-6s  %d/%d pages  %s\n",
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.Mode,
			s.Succeeded(), len(s.Pages),
			pipeline.TruncateURL(s.StartURL, 60))
	}
	return nil
}

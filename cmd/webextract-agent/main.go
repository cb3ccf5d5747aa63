// Command webextract-agent serves the browser-based extraction UI. It
// renders pages in headless Chrome so JavaScript-heavy sites produce usable
// content, and can follow a site's navigation menu to extract multiple pages
// in one run. Pass a URL argument to extract once and exit instead of
// serving.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/truxtai/webextract"
	wechi "github.com/truxtai/webextract/chi"
	"github.com/truxtai/webextract/cmd/internal/cliapp"
	"github.com/truxtai/webextract/gemini"
	"github.com/truxtai/webextract/goquery"
	"github.com/truxtai/webextract/htmltomarkdown"
	"github.com/truxtai/webextract/pipeline"
	werod "github.com/truxtai/webextract/rod"
	weslog "github.com/truxtai/webextract/slog"
	"github.com/truxtai/webextract/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL         string        `arg:"" optional:"" help:"Extract this URL once and exit instead of serving the UI"`
	Addr        string        `default:":8501" help:"HTTP listen address for the UI"`
	Model       string        `default:"gemini-2.0-flash" help:"Gemini model for content cleaning"`
	Output      string        `default:"." help:"Directory for one-shot output files"`
	MaxPages    int           `default:"3" help:"Maximum pages per run in menu mode"`
	RenderDelay time.Duration `default:"5s" help:"Wait after page load for client-side rendering"`
	History     bool          `help:"Print recent extraction history and exit"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
}

// Main represents the program.
type Main struct {
	// Database path for run history. Set before calling Run().
	DBPath string

	// SQLite database backing the session history.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{DBPath: cliapp.DefaultDBPath()}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webextract-agent"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logger := cliapp.NewLogger(stderr, cli.Verbose)

	var sessions webextract.SessionService
	m.DB, sessions = cliapp.OpenHistory(m.DBPath, logger)

	if cli.History {
		return cliapp.PrintHistory(ctx, sessions, stdout)
	}

	client, err := cliapp.NewGeminiClient(ctx, stderr)
	if err != nil {
		return err
	}

	fetcher, err := werod.NewFetcher(werod.WithRenderDelay(cli.RenderDelay))
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for browser-based extraction")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer fetcher.Close()

	p := &pipeline.Pipeline{
		Fetcher:   weslog.NewLoggingFetcher(fetcher, logger),
		Extractor: goquery.NewExtractor(),
		Converter: htmltomarkdown.NewConverter(),
		Cleaner:   weslog.NewLoggingCleaner(gemini.NewCleaner(client, cli.Model), logger),
		Links:     goquery.NewLinkDiscoverer(),
		Sessions:  sessions,
		Tokens:    cliapp.NewTokenCounter(logger),
		Logger:    logger,
		Retry:     webextract.DefaultRetryPolicy(),
	}

	if cli.URL != "" {
		opts := pipeline.Options{Mode: webextract.ModeMenu, MaxPages: cli.MaxPages}
		return cliapp.RunOnce(ctx, p, cli.URL, opts, cli.Output, stdout, stderr)
	}

	srv := wechi.NewServer(cli.Addr, p, sessions, wechi.Config{
		Title:       "Web Content Extractor Agent",
		Modes:       []webextract.Mode{webextract.ModeSingle, webextract.ModeMenu},
		DefaultMode: webextract.ModeMenu,
		MaxPages:    cli.MaxPages,
	}, logger)

	return srv.Run(ctx)
}

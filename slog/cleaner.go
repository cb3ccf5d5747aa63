package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/truxtai/webextract"
)

// Ensure LoggingCleaner implements webextract.Cleaner.
var _ webextract.Cleaner = (*LoggingCleaner)(nil)

// LoggingCleaner wraps a Cleaner with debug logging.
type LoggingCleaner struct {
	next   webextract.Cleaner
	logger *slog.Logger
}

// NewLoggingCleaner creates a new LoggingCleaner.
func NewLoggingCleaner(next webextract.Cleaner, logger *slog.Logger) *LoggingCleaner {
	return &LoggingCleaner{next: next, logger: logger}
}

// Clean delegates to the wrapped cleaner and logs the operation.
func (c *LoggingCleaner) Clean(ctx context.Context, req webextract.CleaningRequest) (text string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("clean",
			"input_bytes", len(req.Text),
			"output_bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Clean(ctx, req)
}

package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/truxtai/webextract"
)

// CleanWithRetry calls the cleaner, retrying rate-limited and transient
// failures per the policy. When the provider sends a retry-after hint longer
// than the policy delay, the hint wins. Permanent errors (EINVALID) are
// returned immediately.
func CleanWithRetry(ctx context.Context, cleaner webextract.Cleaner, req webextract.CleaningRequest, policy webextract.RetryPolicy, logger *slog.Logger) (string, error) {
	maxAttempts := policy.MaxAttempts()

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		text, err := cleaner.Clean(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !webextract.Retryable(err) {
			return "", err
		}
		if attempt >= maxAttempts-1 {
			break
		}

		delay := policy.Delays[attempt]
		if hint, ok := webextract.ErrorRetryAfter(err); ok && hint > delay {
			delay = hint
		}

		if logger != nil {
			logger.Warn("retrying cleaner call",
				slog.Int("attempt", attempt+2),
				slog.Duration("delay", delay),
				slog.String("error", err.Error()))
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	return "", lastErr
}

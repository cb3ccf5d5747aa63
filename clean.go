package webextract

import (
	"context"
	"time"
)

// CleaningRequest is a single cleanup request for the language model:
// extracted page text plus the instruction describing how to clean it.
type CleaningRequest struct {
	// Text is the extracted page content.
	Text string

	// Instruction describes the cleanup. When empty, implementations use
	// their default cleaning instruction.
	Instruction string
}

// Cleaner sends extracted content to a hosted language model and returns
// the cleaned text.
//
// Error contract: implementations return ERATELIMIT (optionally with a
// RetryAfter hint) when the provider signals a rate limit, EUNAVAILABLE for
// transient failures, and EINVALID for permanent request errors. Callers
// decide whether and when to retry; Clean itself never retries.
type Cleaner interface {
	Clean(ctx context.Context, req CleaningRequest) (string, error)
}

// RetryPolicy controls retries of rate-limited or transient Cleaner calls.
// The number of delays determines the retry count: len(Delays) retries after
// the initial attempt. Tests inject zero-duration delays.
type RetryPolicy struct {
	Delays []time.Duration
}

// DefaultRetryPolicy returns the standard backoff policy for cleaner calls:
// 3 retries (4 total attempts) with delays of 2s, 4s, 8s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Delays: []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second},
	}
}

// MaxAttempts returns the total number of attempts the policy allows.
func (p RetryPolicy) MaxAttempts() int {
	return len(p.Delays) + 1
}

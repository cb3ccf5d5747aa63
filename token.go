package webextract

import "context"

// TokenCounter counts tokens in text for a specific model.
// Used for run statistics only; counting failures never fail a run.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

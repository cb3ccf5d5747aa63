package mock

import (
	"context"

	"github.com/truxtai/webextract"
)

var _ webextract.Cleaner = (*Cleaner)(nil)

// Cleaner is a mock implementation of webextract.Cleaner.
type Cleaner struct {
	CleanFn func(ctx context.Context, req webextract.CleaningRequest) (string, error)
}

func (c *Cleaner) Clean(ctx context.Context, req webextract.CleaningRequest) (string, error) {
	return c.CleanFn(ctx, req)
}

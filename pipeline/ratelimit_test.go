package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truxtai/webextract/pipeline"
)

func TestDomainLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("first request per domain proceeds immediately", func(t *testing.T) {
		t.Parallel()

		d := pipeline.NewDomainLimiter(1.0)

		start := time.Now()
		require.NoError(t, d.Wait(context.Background(), "a.example.com"))
		require.NoError(t, d.Wait(context.Background(), "b.example.com"))
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("returns error when context is canceled during wait", func(t *testing.T) {
		t.Parallel()

		d := pipeline.NewDomainLimiter(0.001)
		require.NoError(t, d.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Error(t, d.Wait(ctx, "example.com"))
	})
}

package webextract_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/truxtai/webextract"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := webextract.Errorf(webextract.ENOTFOUND, "session %q not found", "test")

	assert.Equal(t, webextract.ENOTFOUND, webextract.ErrorCode(err))
	assert.Equal(t, "session \"test\" not found", webextract.ErrorMessage(err))
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, webextract.ErrorCode(nil))
	})

	t.Run("non-application error returns EINTERNAL", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, webextract.EINTERNAL, webextract.ErrorCode(errors.New("boom")))
	})

	t.Run("wrapped application error", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("cleaning page: %w", webextract.Errorf(webextract.ERATELIMIT, "quota exceeded"))
		assert.Equal(t, webextract.ERATELIMIT, webextract.ErrorCode(err))
	})
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, webextract.ErrorMessage(nil))
}

func TestErrorRetryAfter(t *testing.T) {
	t.Parallel()

	t.Run("returns hint when present", func(t *testing.T) {
		t.Parallel()

		err := &webextract.Error{
			Code:       webextract.ERATELIMIT,
			Message:    "quota exceeded",
			RetryAfter: 30 * time.Second,
		}

		d, ok := webextract.ErrorRetryAfter(err)
		assert.True(t, ok)
		assert.Equal(t, 30*time.Second, d)
	})

	t.Run("no hint", func(t *testing.T) {
		t.Parallel()

		_, ok := webextract.ErrorRetryAfter(webextract.Errorf(webextract.ERATELIMIT, "quota exceeded"))
		assert.False(t, ok)
	})
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	assert.True(t, webextract.Retryable(webextract.Errorf(webextract.ERATELIMIT, "slow down")))
	assert.True(t, webextract.Retryable(webextract.Errorf(webextract.EUNAVAILABLE, "connection reset")))
	assert.False(t, webextract.Retryable(webextract.Errorf(webextract.EINVALID, "bad request")))
	assert.False(t, webextract.Retryable(errors.New("boom")))
	assert.False(t, webextract.Retryable(nil))
}

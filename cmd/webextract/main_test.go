package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truxtai/webextract"
	main "github.com/truxtai/webextract/cmd/webextract"
)

func TestRun_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")
	defer m.Close()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"https://example.com"}, stdout, stderr)

	require.Error(t, err)
	assert.Equal(t, webextract.ECONFIG, webextract.ErrorCode(err))
	assert.Contains(t, stderr.String(), "GEMINI_API_KEY")
	assert.Contains(t, stderr.String(), "aistudio.google.com")
	assert.Empty(t, stdout.String())
}

func TestRun_History(t *testing.T) {
	t.Run("reports empty history", func(t *testing.T) {
		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")
		defer m.Close()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--history"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No extraction history.")
	})
}

func TestRun_InvalidFlag(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")
	defer m.Close()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--no-such-flag"}, stdout, stderr)

	assert.Error(t, err)
}

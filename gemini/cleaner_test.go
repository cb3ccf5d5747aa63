package gemini_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truxtai/webextract"
	"github.com/truxtai/webextract/gemini"
)

func TestCleaner_Clean_ReturnsErrorWhenTextEmpty(t *testing.T) {
	t.Parallel()

	cleaner := gemini.NewCleaner(nil, "") // nil client ok for this test

	_, err := cleaner.Clean(context.Background(), webextract.CleaningRequest{Text: "   "})

	require.Error(t, err)
	assert.Equal(t, webextract.EINVALID, webextract.ErrorCode(err))
	assert.Contains(t, webextract.ErrorMessage(err), "no content")
}

func TestBuildConfig_SetsGenerationParameters(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.2, *config.Temperature, 0.001)
	require.NotNil(t, config.TopP)
	assert.InDelta(t, 0.95, *config.TopP, 0.001)
	require.NotNil(t, config.TopK)
	assert.InDelta(t, 32, *config.TopK, 0.001)
	assert.EqualValues(t, 8192, config.MaxOutputTokens)
}

func TestBuildPrompt_UsesDefaultInstruction(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildPrompt(webextract.CleaningRequest{Text: "page content here"})

	assert.Contains(t, prompt, "CLEANING TASK:")
	assert.Contains(t, prompt, "Removing navigation elements")
	assert.Contains(t, prompt, "CONTENT TO CLEAN:\npage content here")
	assert.Contains(t, prompt, "CLEANED OUTPUT:")
}

func TestBuildPrompt_UsesCustomInstruction(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildPrompt(webextract.CleaningRequest{
		Text:        "page content",
		Instruction: "Summarize in one sentence.",
	})

	assert.Contains(t, prompt, "CLEANING TASK: Summarize in one sentence.")
	assert.NotContains(t, prompt, "Removing navigation elements")
}

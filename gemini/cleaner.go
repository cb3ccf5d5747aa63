// Package gemini implements webextract.Cleaner and webextract.TokenCounter
// using Google Gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/truxtai/webextract"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for content cleaning.
const DefaultModel = "gemini-2.0-flash"

// DefaultInstruction is the cleanup instruction sent when a request doesn't
// provide one.
const DefaultInstruction = `Clean and format the following web content while:
1. Removing navigation elements, headers, footers, and ads
2. Preserving all meaningful content
3. Maintaining proper paragraph structure
4. Keeping important headings and subheadings
5. Ensuring readability`

// Ensure Cleaner implements webextract.Cleaner at compile time.
var _ webextract.Cleaner = (*Cleaner)(nil)

// Cleaner implements webextract.Cleaner using Google Gemini.
// It performs a single API call per request; retry decisions belong to the
// caller.
type Cleaner struct {
	client *genai.Client
	model  string
}

// NewCleaner creates a new Cleaner. An empty model selects DefaultModel.
func NewCleaner(client *genai.Client, model string) *Cleaner {
	if model == "" {
		model = DefaultModel
	}
	return &Cleaner{client: client, model: model}
}

// Clean sends extracted content to Gemini and returns the cleaned text.
func (c *Cleaner) Clean(ctx context.Context, req webextract.CleaningRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", webextract.Errorf(webextract.EINVALID, "no content to clean")
	}

	prompt := BuildPrompt(req)
	config := BuildConfig()

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", classifyError(err)
	}
	if result == nil {
		return "", webextract.Errorf(webextract.EINTERNAL, "gemini returned nil result")
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", webextract.Errorf(webextract.EUNAVAILABLE, "gemini returned empty response")
	}

	return text, nil
}

// BuildConfig returns the GenerateContentConfig for cleaning calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	topP := float32(0.95)
	topK := float32(32)
	return &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		TopK:            &topK,
		MaxOutputTokens: 8192,
	}
}

// BuildPrompt builds the cleaning prompt for a request.
func BuildPrompt(req webextract.CleaningRequest) string {
	instruction := req.Instruction
	if instruction == "" {
		instruction = DefaultInstruction
	}
	return fmt.Sprintf("CLEANING TASK: %s\n\nCONTENT TO CLEAN:\n%s\n\nCLEANED OUTPUT:", instruction, req.Text)
}

// classifyError maps Gemini API errors to webextract error codes.
// HTTP 429 becomes ERATELIMIT with the provider's retry hint when present,
// 5xx becomes EUNAVAILABLE, and other API errors become EINVALID. Transport
// failures are EUNAVAILABLE.
func classifyError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return webextract.Errorf(webextract.EUNAVAILABLE, "gemini request failed: %v", err)
	}

	switch {
	case apiErr.Code == 429:
		e := &webextract.Error{
			Code:    webextract.ERATELIMIT,
			Message: fmt.Sprintf("Gemini rate limit: %s", apiErr.Message),
		}
		if delay, ok := retryDelayHint(apiErr); ok {
			e.RetryAfter = delay
		}
		return e
	case apiErr.Code >= 500:
		return webextract.Errorf(webextract.EUNAVAILABLE, "gemini unavailable (HTTP %d): %s", apiErr.Code, apiErr.Message)
	default:
		return webextract.Errorf(webextract.EINVALID, "gemini rejected request (HTTP %d): %s", apiErr.Code, apiErr.Message)
	}
}

// retryDelayHint extracts the RetryInfo retry delay from an API error's
// details, if the provider sent one.
func retryDelayHint(apiErr genai.APIError) (time.Duration, bool) {
	for _, detail := range apiErr.Details {
		typ, _ := detail["@type"].(string)
		if !strings.HasSuffix(typ, "google.rpc.RetryInfo") {
			continue
		}
		raw, _ := detail["retryDelay"].(string)
		if raw == "" {
			continue
		}
		delay, err := time.ParseDuration(raw)
		if err != nil || delay < 0 {
			continue
		}
		return delay, true
	}
	return 0, false
}

package gemini

import (
	"context"

	"github.com/truxtai/webextract"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ webextract.TokenCounter = (*TokenCounter)(nil)

// TokenCounter estimates the token cost of cleaned text. Counting runs
// locally, so per-page statistics never spend API quota.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter builds a counter for the given model. Fails when the
// tokenizer has no vocabulary for the model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens returns the number of tokens in text.
func (tc *TokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}

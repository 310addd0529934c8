// Package llm abstracts the AI text-generation collaborator. The collaborator
// is a black box: instruction prompt and user content in, free-form text out.
// All interpretation of the response happens in the callers.
package llm

import (
	"context"
	"errors"
)

// Message is a single chat message sent to the collaborator.
type Message struct {
	Role    string
	Content string
}

// Client abstracts the AI collaborator.
type Client interface {
	GenerateResponse(ctx context.Context, systemPrompt string, messages []Message) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient is a stub implementation used when no API key is set.
type PlaceholderClient struct{}

// GenerateResponse returns ErrNotConfigured.
func (PlaceholderClient) GenerateResponse(ctx context.Context, systemPrompt string, messages []Message) (string, error) {
	_ = ctx
	_ = systemPrompt
	_ = messages
	return "", ErrNotConfigured
}

package llm

import (
	"context"
	"errors"
)

// ErrNoContent is returned when a provider answers without any text.
var ErrNoContent = errors.New("llm: empty response")

// Client is the minimal interface LLM-backed owners depend on.
// Any provider implementation should satisfy this.
type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

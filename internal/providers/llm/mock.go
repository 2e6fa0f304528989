package llm

import (
	"context"
	"strings"
)

// MockClient is used when no real provider is configured. It answers every
// prompt with a fixed risk-review payload so LLM owners stay usable offline.
type MockClient struct{}

const mockAnswer = `{
  "coverage": ["risk"],
  "findings": [{"area": "risk", "summary": "No provider configured; returning canned risk review"}],
  "gaps": [],
  "next_actions": [],
  "confidence": 0.3
}`

func (m *MockClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(prompt) == "" {
		return "", ErrNoContent
	}
	return mockAnswer, nil
}

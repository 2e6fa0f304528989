package llm

import (
	"context"
	"net/http"
)

const defaultAnthropicURL = "https://api.anthropic.com/v1/messages"

// AnthropicClient talks to the Messages API.
type AnthropicClient struct {
	APIKey    string
	Model     string
	URL       string
	MaxTokens int
	HTTP      *http.Client
}

func (c *AnthropicClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	body := map[string]any{
		"model":      c.Model,
		"max_tokens": maxTokens,
		"messages": []map[string]any{{
			"role":    "user",
			"content": []map[string]string{{"type": "text", "text": prompt}},
		}},
	}
	var resp struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	url := c.URL
	if url == "" {
		url = defaultAnthropicURL
	}
	headers := map[string]string{
		"x-api-key":         c.APIKey,
		"anthropic-version": "2023-06-01",
	}
	if err := postJSON(ctx, c.HTTP, "anthropic", url, headers, body, &resp); err != nil {
		return "", err
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == "" {
		return "", ErrNoContent
	}
	return resp.Content[0].Text, nil
}

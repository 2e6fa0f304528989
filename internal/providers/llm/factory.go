package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/example/boss-orchestrator/internal/config"
)

// Default models per provider when LLM_MODEL is unset.
const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-3-5-sonnet-latest"
	defaultGeminiModel    = "gemini-1.5-flash"
)

// New returns a Client for the configured provider. With no provider named the
// first provider with an API key wins; with no key at all a MockClient is returned.
func New(ctx context.Context, cfg config.LLM) (Client, error) {
	prov := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch prov {
	case "mock":
		return &MockClient{}, nil
	case "openai":
		if cfg.OpenAIKey != "" {
			return newOpenAI(cfg), nil
		}
	case "anthropic":
		if cfg.AnthropicKey != "" {
			return newAnthropic(cfg), nil
		}
	case "gemini":
		if cfg.GoogleKey != "" {
			return NewGeminiClient(ctx, cfg.GoogleKey, modelOr(cfg.Model, defaultGeminiModel), cfg.MaxOutputTokens)
		}
	}

	// Auto-detect by API key presence if provider not specified or missing its key.
	switch {
	case cfg.OpenAIKey != "":
		return newOpenAI(cfg), nil
	case cfg.AnthropicKey != "":
		return newAnthropic(cfg), nil
	case cfg.GoogleKey != "":
		return NewGeminiClient(ctx, cfg.GoogleKey, modelOr(cfg.Model, defaultGeminiModel), cfg.MaxOutputTokens)
	}
	return &MockClient{}, nil
}

func newOpenAI(cfg config.LLM) *OpenAIClient {
	return &OpenAIClient{
		APIKey:  cfg.OpenAIKey,
		Model:   modelOr(cfg.Model, defaultOpenAIModel),
		BaseURL: cfg.OpenAIBaseURL,
		HTTP:    &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

func newAnthropic(cfg config.LLM) *AnthropicClient {
	return &AnthropicClient{
		APIKey:    cfg.AnthropicKey,
		Model:     modelOr(cfg.Model, defaultAnthropicModel),
		URL:       cfg.AnthropicURL,
		MaxTokens: cfg.MaxOutputTokens,
		HTTP:      &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

func modelOr(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

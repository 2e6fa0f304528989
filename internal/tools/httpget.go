package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPGetTool downloads a URL. Input: url. Output: map with status,
// content_type, body ([]byte) and truncated.
type HTTPGetTool struct {
	Client   *http.Client
	MaxBytes int
}

func (h *HTTPGetTool) Name() string { return "http_get" }

func (h *HTTPGetTool) Execute(ctx context.Context, inputs map[string]any) (any, string, error) {
	raw, _ := inputs["url"].(string)
	if raw == "" {
		return nil, "", errors.New("missing url")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, "", fmt.Errorf("invalid url %q", raw)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", err
	}
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("fetch %s: status %d", u.Redacted(), resp.StatusCode)
	}

	limit := orDefault(h.MaxBytes, defaultMaxBytes)
	lr := io.LimitedReader{R: resp.Body, N: int64(limit) + 1}
	b, err := io.ReadAll(&lr)
	if err != nil {
		return nil, "", err
	}
	truncated := len(b) > limit
	if truncated {
		b = b[:limit]
	}
	logs := fmt.Sprintf("status=%d", resp.StatusCode)
	if truncated {
		logs += " truncated=true"
	}
	return map[string]any{
		"status":       resp.StatusCode,
		"content_type": resp.Header.Get("Content-Type"),
		"body":         b,
		"truncated":    truncated,
	}, logs, nil
}

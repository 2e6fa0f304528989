package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const maxAttempts = 3

// postJSON sends body to url and decodes a 2xx reply into out. Timeouts,
// 408, 429 and 5xx are retried with exponential backoff.
func postJSON(ctx context.Context, client *http.Client, label, url string, headers map[string]string, body, out any) error {
	if client == nil {
		client = http.DefaultClient
	}
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", label, err)
	}
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff(attempt-1)); err != nil {
				return err
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
		if err != nil {
			return fmt.Errorf("%s: build request: %w", label, err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		res, err := client.Do(req)
		if err != nil {
			lastErr = err
			if isTimeout(err) && ctx.Err() == nil {
				continue
			}
			return fmt.Errorf("%s: %w", label, err)
		}
		retry, err := decodeReply(res, label, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}
	return lastErr
}

func decodeReply(res *http.Response, label string, out any) (retry bool, err error) {
	defer res.Body.Close()
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return false, fmt.Errorf("%s: decode response: %w", label, err)
		}
		return false, nil
	}
	var eresp map[string]any
	_ = json.NewDecoder(res.Body).Decode(&eresp)
	err = fmt.Errorf("%s status %d: %v", label, res.StatusCode, eresp)
	retryable := res.StatusCode == http.StatusRequestTimeout ||
		res.StatusCode == http.StatusTooManyRequests ||
		res.StatusCode >= 500
	return retryable, err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	if te, ok := err.(timeout); ok {
		return te.Timeout()
	}
	return false
}

// backoffBase is a variable so tests can shrink it.
var backoffBase = 500 * time.Millisecond

func backoff(i int) time.Duration {
	return backoffBase * time.Duration(1<<i)
}

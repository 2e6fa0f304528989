package tools

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"unicode/utf8"

	"github.com/example/boss-orchestrator/internal/cache"
)

// ContextKey is the request context key attachments are stored under.
const ContextKey = "attachments"

// Attachment is a caller-supplied document: inline base64 data or a URL.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	DataBase64  string `json:"data_base64,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Extract is the text owners see for one attachment.
type Extract struct {
	Name      string `json:"name"`
	Source    string `json:"source"` // inline | url
	Text      string `json:"text,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Enricher turns attachments into request context.
type Enricher struct {
	tools    *Registry
	cache    *cache.Cache
	maxChars int
	log      *slog.Logger
}

// NewEnricher builds an Enricher. c may be nil to disable caching.
func NewEnricher(reg *Registry, c *cache.Cache, maxChars int, log *slog.Logger) *Enricher {
	if log == nil {
		log = slog.Default()
	}
	return &Enricher{tools: reg, cache: c, maxChars: maxChars, log: log}
}

// Enrich extracts every attachment and returns the request context. With no
// attachments the context is empty. A failed attachment is reported in its
// Error field and never fails the call.
func (e *Enricher) Enrich(ctx context.Context, atts []Attachment) map[string]any {
	out := map[string]any{}
	if len(atts) == 0 {
		return out
	}
	extracts := make([]Extract, 0, len(atts))
	for _, a := range atts {
		ex := e.extract(ctx, a)
		if ex.Error != "" {
			e.log.Warn("attachment extraction failed", "name", ex.Name, "source", ex.Source, "error", ex.Error)
		}
		extracts = append(extracts, ex)
	}
	out[ContextKey] = extracts
	return out
}

func (e *Enricher) extract(ctx context.Context, a Attachment) Extract {
	ex := Extract{Name: a.Name, Source: "inline"}
	if a.URL != "" {
		ex.Source = "url"
		if ex.Name == "" {
			ex.Name = path.Base(a.URL)
		}
	}

	key := cache.Key(ex.Source, a.URL, a.ContentType, a.DataBase64)
	text, ok := e.cache.Get(key)
	if !ok {
		s, err := e.run(ctx, a)
		if err != nil {
			ex.Error = err.Error()
			return ex
		}
		text = []byte(s)
		e.cache.Set(key, text)
	}
	ex.Text, ex.Truncated = truncate(string(text), e.maxChars)
	return ex
}

func (e *Enricher) run(ctx context.Context, a Attachment) (string, error) {
	inputs := map[string]any{
		"filename":     a.Name,
		"content_type": a.ContentType,
	}
	if a.URL != "" {
		out, _, err := e.tools.Run(ctx, "http_get", map[string]any{"url": a.URL})
		if errors.Is(err, ErrUnknownTool) {
			return "", errors.New("url attachments are disabled")
		}
		if err != nil {
			return "", err
		}
		fetched, _ := out.(map[string]any)
		inputs["data"], _ = fetched["body"].([]byte)
		if a.ContentType == "" {
			inputs["content_type"], _ = fetched["content_type"].(string)
		}
		if a.Name == "" {
			inputs["filename"] = path.Base(a.URL)
		}
	} else {
		inputs["data_base64"] = a.DataBase64
	}

	out, _, err := e.tools.Run(ctx, "file_extract", inputs)
	if err != nil {
		return "", err
	}
	s, _ := out.(string)
	return s, nil
}

// truncate cuts s to at most max runes; max <= 0 keeps everything.
func truncate(s string, max int) (string, bool) {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s, false
	}
	r := []rune(s)
	return string(r[:max]), true
}

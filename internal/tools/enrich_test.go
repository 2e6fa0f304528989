package tools

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/boss-orchestrator/internal/cache"
	"github.com/example/boss-orchestrator/internal/config"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func extracts(t *testing.T, ctxMap map[string]any) []Extract {
	t.Helper()
	got, ok := ctxMap[ContextKey].([]Extract)
	if !ok {
		t.Fatalf("context missing attachments: %#v", ctxMap)
	}
	return got
}

func TestEnrichWithoutAttachmentsIsEmpty(t *testing.T) {
	e := NewEnricher(NewDefaultRegistry(config.Defaults().Tools, nil), nil, 100, quiet())
	if got := e.Enrich(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected empty context, got %v", got)
	}
}

func TestEnrichInlineAndFailures(t *testing.T) {
	e := NewEnricher(NewDefaultRegistry(config.Defaults().Tools, nil), nil, 5, quiet())

	got := extracts(t, e.Enrich(context.Background(), []Attachment{
		{Name: "spec.txt", DataBase64: b64("bundle pricing rules")},
		{Name: "blob.bin", DataBase64: b64("\x00\x01")},
		{URL: "http://example.invalid/doc.html"},
	}))

	if len(got) != 3 {
		t.Fatalf("expected 3 extracts, got %d", len(got))
	}
	if got[0].Text != "bundl" || !got[0].Truncated || got[0].Source != "inline" {
		t.Errorf("inline extract = %+v", got[0])
	}
	if got[1].Error == "" {
		t.Errorf("binary attachment should carry an error: %+v", got[1])
	}
	if got[2].Source != "url" || got[2].Name != "doc.html" || got[2].Error != "url attachments are disabled" {
		t.Errorf("url extract with fetching disabled = %+v", got[2])
	}
}

func TestEnrichFetchesURLAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html><body><p>Discount stacking</p></body></html>")
	}))
	defer srv.Close()

	cfg := config.Defaults().Tools
	cfg.AllowFetch = true
	c, err := cache.New(1, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	e := NewEnricher(NewDefaultRegistry(cfg, srv.Client()), c, 0, quiet())

	att := []Attachment{{Name: "rules", URL: srv.URL + "/rules"}}
	first := extracts(t, e.Enrich(context.Background(), att))
	c.Wait()
	second := extracts(t, e.Enrich(context.Background(), att))

	if first[0].Text != "Discount stacking" || first[0].Error != "" {
		t.Fatalf("fetched extract = %+v", first[0])
	}
	if second[0] != first[0] {
		t.Errorf("cached extract differs: %+v vs %+v", second[0], first[0])
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestEnrichReportsFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	cfg := config.Defaults().Tools
	cfg.AllowFetch = true
	e := NewEnricher(NewDefaultRegistry(cfg, srv.Client()), nil, 0, quiet())

	got := extracts(t, e.Enrich(context.Background(), []Attachment{{URL: srv.URL + "/missing"}}))
	if got[0].Error == "" {
		t.Fatalf("expected error for 404, got %+v", got[0])
	}
}

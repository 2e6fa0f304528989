// Package tools extracts text from request attachments so owners receive it
// as request context.
package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/example/boss-orchestrator/internal/config"
)

// ErrUnknownTool is returned by Run for names that are not registered.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is one named extraction step.
type Tool interface {
	Name() string
	Execute(ctx context.Context, inputs map[string]any) (output any, logs string, err error)
}

type Registry struct {
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

// NewDefaultRegistry registers the extraction tools allowed by cfg. http_get
// is only available when fetching is enabled.
func NewDefaultRegistry(cfg config.Tools, client *http.Client) *Registry {
	r := NewRegistry()
	r.Register(&FileExtractTool{MaxBytes: cfg.MaxBytes, MaxPages: cfg.MaxPages})
	r.Register(&PDFExtractTool{MaxBytes: cfg.MaxBytes, MaxPages: cfg.MaxPages})
	r.Register(&HTMLToTextTool{})
	if cfg.AllowFetch {
		r.Register(&HTTPGetTool{Client: client, MaxBytes: cfg.MaxBytes})
	}
	return r
}

func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names lists registered tools, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Run executes the named tool.
func (r *Registry) Run(ctx context.Context, name string, inputs map[string]any) (any, string, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Execute(ctx, inputs)
}

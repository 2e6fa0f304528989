// Package owners defines the specialist responders the Boss fans questions out to.
package owners

import (
	"context"

	"github.com/example/boss-orchestrator/internal/models"
)

// NotImplementedGap is the gap reported by an owner without real logic.
const NotImplementedGap = "Not implemented"

// Owner answers one request. Implementations should always produce a
// well-formed Response; the error return is for owners doing blocking I/O and
// is contained by the orchestrator, never surfaced to the caller.
type Owner interface {
	Handle(ctx context.Context, req models.Request) (models.Response, error)
}

// Func adapts a plain function to the Owner interface.
type Func func(ctx context.Context, req models.Request) (models.Response, error)

func (f Func) Handle(ctx context.Context, req models.Request) (models.Response, error) {
	return f(ctx, req)
}

// Unimplemented is the default capability: it claims no coverage and reports
// itself through StatusUnimplemented so callers can tell it from a real
// zero-coverage answer.
type Unimplemented struct {
	ID string
}

func (u Unimplemented) Handle(_ context.Context, req models.Request) (models.Response, error) {
	return NotImplemented(req, u.ID), nil
}

// NotImplemented builds the placeholder response for owner id.
func NotImplemented(req models.Request, id string) models.Response {
	return models.Response{
		TaskID:      req.TaskID,
		Owner:       id,
		Coverage:    []string{},
		Findings:    []models.Finding{},
		Gaps:        []string{NotImplementedGap},
		NextActions: []map[string]any{},
		Confidence:  0,
		Status:      models.StatusUnimplemented,
	}
}

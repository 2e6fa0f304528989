package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/example/boss-orchestrator/internal/models"
	"github.com/example/boss-orchestrator/internal/owners"
	"github.com/example/boss-orchestrator/internal/telemetry"
)

var (
	// ErrOwnerUnavailable marks an owner that returned an error or panicked.
	ErrOwnerUnavailable = errors.New("owner unavailable")
	// ErrOwnerTimeout marks an owner that missed its deadline.
	ErrOwnerTimeout = errors.New("owner timed out")
)

// Route broadcasts req, unmodified, to every owner and returns their responses
// in registry order. Owners run concurrently; a failing or slow owner is
// replaced by a degraded response so the round always completes.
func (b *Boss) Route(ctx context.Context, req models.Request) []models.Response {
	out := make([]models.Response, b.registry.Len())

	var g errgroup.Group
	if b.maxParallel > 0 {
		g.SetLimit(b.maxParallel)
	}
	b.registry.Each(func(i int, id string, o owners.Owner) {
		g.Go(func() error {
			out[i] = b.callOwner(ctx, id, o, req)
			return nil
		})
	})
	_ = g.Wait()
	return out
}

func (b *Boss) callOwner(ctx context.Context, id string, o owners.Owner, req models.Request) models.Response {
	ctx, span := telemetry.StartOwnerSpan(ctx, id)
	defer span.End()

	start := time.Now()
	resp, err := b.invoke(ctx, o, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.log.Warn("owner degraded", "task_id", req.TaskID, "owner", id, "error", err)
		resp = degraded(req, id, err)
	}
	resp = normalize(resp, req, id)
	b.metrics.RecordOwner(ctx, id, string(resp.Status), time.Since(start).Seconds())
	return resp
}

type ownerResult struct {
	resp models.Response
	err  error
}

// invoke runs one owner under the per-owner deadline. An owner that ignores
// its context is abandoned once the deadline passes.
func (b *Boss) invoke(ctx context.Context, o owners.Owner, req models.Request) (models.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, b.ownerTimeout)
	defer cancel()

	done := make(chan ownerResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- ownerResult{err: fmt.Errorf("%w: panic: %v", ErrOwnerUnavailable, r)}
			}
		}()
		resp, err := o.Handle(ctx, req)
		done <- ownerResult{resp: resp, err: err}
	}()

	select {
	case r := <-done:
		if r.err == nil {
			return r.resp, nil
		}
		if errors.Is(r.err, ErrOwnerUnavailable) {
			return models.Response{}, r.err
		}
		if errors.Is(r.err, context.DeadlineExceeded) && ctx.Err() != nil {
			return models.Response{}, fmt.Errorf("%w: %w", ErrOwnerTimeout, r.err)
		}
		return models.Response{}, fmt.Errorf("%w: %w", ErrOwnerUnavailable, r.err)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return models.Response{}, fmt.Errorf("%w after %s", ErrOwnerTimeout, b.ownerTimeout)
		}
		return models.Response{}, fmt.Errorf("%w: %w", ErrOwnerUnavailable, ctx.Err())
	}
}

// degraded is the empty-coverage response standing in for a failed owner.
func degraded(req models.Request, id string, err error) models.Response {
	gap, status := id+" unavailable", models.StatusUnavailable
	if errors.Is(err, ErrOwnerTimeout) {
		gap, status = id+" timed out", models.StatusTimeout
	}
	return models.Response{
		TaskID:      req.TaskID,
		Owner:       id,
		Coverage:    []string{},
		Findings:    []models.Finding{},
		Gaps:        []string{gap},
		NextActions: []map[string]any{},
		Confidence:  0,
		Status:      status,
	}
}

// normalize fills identity fields an owner left blank and replaces nil slices
// so answers encode as empty lists.
func normalize(resp models.Response, req models.Request, id string) models.Response {
	if resp.Owner == "" {
		resp.Owner = id
	}
	if resp.TaskID == "" {
		resp.TaskID = req.TaskID
	}
	if resp.Status == "" {
		resp.Status = models.StatusOK
	}
	if resp.Coverage == nil {
		resp.Coverage = []string{}
	}
	if resp.Findings == nil {
		resp.Findings = []models.Finding{}
	}
	if resp.Gaps == nil {
		resp.Gaps = []string{}
	}
	if resp.NextActions == nil {
		resp.NextActions = []map[string]any{}
	}
	return resp
}

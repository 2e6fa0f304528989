// Package orchestrator implements the Boss: it broadcasts a request to every
// registered owner, merges the answers, detects coverage gaps and refines the
// question until the gaps close or the loop budget runs out.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/boss-orchestrator/internal/models"
	"github.com/example/boss-orchestrator/internal/owners"
	"github.com/example/boss-orchestrator/internal/telemetry"
)

// MaxLoops caps the number of routing rounds per ask.
const MaxLoops = 3

// DefaultOwnerTimeout bounds a single owner call when no timeout is configured.
const DefaultOwnerTimeout = 30 * time.Second

// Boss coordinates one registry of owners. It holds no per-task state and is
// safe for concurrent asks.
type Boss struct {
	registry     *owners.Registry
	ownerTimeout time.Duration
	maxParallel  int
	log          *slog.Logger
	metrics      *telemetry.Metrics
	hub          *Hub
}

// Option configures a Boss.
type Option func(*Boss)

// WithOwnerTimeout sets the per-owner deadline for each round.
func WithOwnerTimeout(d time.Duration) Option {
	return func(b *Boss) {
		if d > 0 {
			b.ownerTimeout = d
		}
	}
}

// WithMaxParallel limits concurrent owner calls within a round; 0 means no limit.
func WithMaxParallel(n int) Option {
	return func(b *Boss) {
		if n >= 0 {
			b.maxParallel = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Boss) {
		if l != nil {
			b.log = l
		}
	}
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(b *Boss) { b.metrics = m }
}

// WithHub makes the Boss publish round events to h.
func WithHub(h *Hub) Option {
	return func(b *Boss) {
		if h != nil {
			b.hub = h
		}
	}
}

// New returns a Boss over reg. A nil registry behaves as an empty one.
func New(reg *owners.Registry, opts ...Option) *Boss {
	if reg == nil {
		reg, _ = owners.NewRegistry()
	}
	b := &Boss{
		registry:     reg,
		ownerTimeout: DefaultOwnerTimeout,
		log:          slog.Default(),
		hub:          NewHub(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Hub returns the event hub round events are published to.
func (b *Boss) Hub() *Hub { return b.hub }

// Owners lists registered owner ids in routing order.
func (b *Boss) Owners() []string { return b.registry.IDs() }

// loopState is the refinement loop's value: how many rounds ran, the request
// for the next round, and the synthesis of the previous one.
type loopState struct {
	round   int
	current models.Request
	last    *models.Answer
}

// advance is the pure transition taken when a round leaves gaps.
func (s loopState) advance(syn models.Answer, gaps []string) loopState {
	return loopState{
		round:   s.round + 1,
		current: s.current.Refine(gaps),
		last:    &syn,
	}
}

// Ask runs the bounded refinement loop and always returns an answer. Owner
// failures surface as gaps on the answer, never as an error.
func (b *Boss) Ask(ctx context.Context, req models.Request) models.Answer {
	ctx, span := telemetry.StartAskSpan(ctx, req.TaskID, string(req.Intent))
	defer span.End()

	log := b.log.With("task_id", req.TaskID)
	state := loopState{current: req}

	for state.round < MaxLoops {
		log.Debug("boss state", "state", "routing", "round", state.round+1)
		responses := b.round(ctx, state)

		log.Debug("boss state", "state", "validating", "round", state.round+1)
		syn := Synthesize(state.current, responses)
		gaps := Validate(responses, state.current.AcceptanceCriteria)
		b.publish(req.TaskID, EventRoundCompleted, map[string]any{
			"round": state.round + 1,
			"gaps":  gaps,
		})

		if len(gaps) == 0 {
			log.Debug("boss state", "state", "done", "round", state.round+1)
			return b.finish(ctx, syn, state.round+1, models.OutcomeDone)
		}

		log.Debug("boss state", "state", "refining", "round", state.round+1, "gaps", len(gaps))
		state = state.advance(syn, gaps)
	}

	if state.last == nil {
		// Only reachable with a zero loop budget.
		syn := Synthesize(state.current, b.Route(ctx, state.current))
		return b.finish(ctx, syn, 1, models.OutcomeBestEffort)
	}
	log.Debug("boss state", "state", "best_effort", "rounds", state.round)
	return b.finish(ctx, *state.last, state.round, models.OutcomeBestEffort)
}

func (b *Boss) round(ctx context.Context, state loopState) []models.Response {
	ctx, span := telemetry.StartRoundSpan(ctx, state.current.TaskID, state.round+1)
	defer span.End()

	b.publish(state.current.TaskID, EventRoundStarted, map[string]any{
		"round":    state.round + 1,
		"question": state.current.Question,
	})
	responses := b.Route(ctx, state.current)
	for _, r := range responses {
		b.publish(state.current.TaskID, EventOwnerResponse, map[string]any{
			"round":    state.round + 1,
			"response": r,
		})
	}
	return responses
}

func (b *Boss) finish(ctx context.Context, ans models.Answer, rounds int, outcome models.Outcome) models.Answer {
	ans.Rounds = rounds
	ans.Outcome = outcome
	b.metrics.RecordAsk(ctx, string(outcome), rounds)
	b.log.Info("ask finished",
		"task_id", ans.TaskID,
		"outcome", outcome,
		"rounds", rounds,
		"gaps", len(ans.Gaps),
	)
	return ans
}

func (b *Boss) publish(taskID, name string, payload any) {
	b.hub.Publish(taskID, Event{Event: name, TaskID: taskID, Payload: payload})
}

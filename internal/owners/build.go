package owners

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/boss-orchestrator/internal/config"
	"github.com/example/boss-orchestrator/internal/providers/llm"
	"github.com/example/boss-orchestrator/internal/resilience"
)

// Owner kinds accepted in configuration.
const (
	KindRules         = "rules"
	KindLLM           = "llm"
	KindUnimplemented = "unimplemented"
)

// ErrUnknownOwnerKind is returned for owner specs with an unsupported kind.
var ErrUnknownOwnerKind = errors.New("unknown owner kind")

// Deps are the shared collaborators owners may need.
type Deps struct {
	LLM     llm.Client
	Breaker config.Breaker
}

// Build turns owner specs into a registry. With no specs the built-in
// e-commerce owners are registered. Every LLM owner gets its own breaker.
func Build(specs []config.OwnerSpec, deps Deps) (*Registry, error) {
	if len(specs) == 0 {
		specs = DefaultSpecs()
	}
	entries := make([]Entry, 0, len(specs))
	for _, spec := range specs {
		o, err := build(spec, deps)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{ID: spec.ID, Owner: o})
	}
	return NewRegistry(entries...)
}

func build(spec config.OwnerSpec, deps Deps) (Owner, error) {
	switch spec.Kind {
	case "", KindRules:
		return NewRuleOwner(spec), nil
	case KindUnimplemented:
		return Unimplemented{ID: spec.ID}, nil
	case KindLLM:
		if deps.LLM == nil {
			return nil, fmt.Errorf("owner %q: llm client not configured", spec.ID)
		}
		timeout := deps.Breaker.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		return &LLMOwner{
			ID:      spec.ID,
			Persona: spec.Persona,
			Client:  deps.LLM,
			Breaker: resilience.NewBreaker(deps.Breaker.MaxFailures, timeout),
		}, nil
	}
	return nil, fmt.Errorf("owner %q: %w: %s", spec.ID, ErrUnknownOwnerKind, spec.Kind)
}

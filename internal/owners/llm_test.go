package owners

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/example/boss-orchestrator/internal/config"
	"github.com/example/boss-orchestrator/internal/models"
	"github.com/example/boss-orchestrator/internal/providers/llm"
	"github.com/example/boss-orchestrator/internal/resilience"
)

type fakeLLM struct {
	reply  string
	err    error
	prompt string
	calls  int
}

func (f *fakeLLM) GenerateText(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func TestLLMOwnerParsesAnswer(t *testing.T) {
	client := &fakeLLM{reply: "```json\n" + `{"coverage":["Risk"," risk ","tests"],"findings":[{"area":"risk","summary":"rollback {plan}"}],"gaps":["No SLO"],"confidence":1.7}` + "\n```"}
	o := &LLMOwner{ID: "risk-review", Client: client}
	req := models.Request{
		TaskID:             "t-9",
		Intent:             models.IntentRisk,
		Question:           "Ship bundles?",
		AcceptanceCriteria: []string{"stacking rules defined"},
	}

	resp, err := o.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TaskID != "t-9" || resp.Owner != "risk-review" {
		t.Errorf("unexpected identity %+v", resp)
	}
	if !reflect.DeepEqual(resp.Coverage, []string{"risk", "tests"}) {
		t.Errorf("coverage = %v", resp.Coverage)
	}
	if !reflect.DeepEqual(resp.Gaps, []string{"No SLO"}) {
		t.Errorf("gaps = %v", resp.Gaps)
	}
	if resp.Confidence != 1 {
		t.Errorf("confidence should be clamped to 1, got %v", resp.Confidence)
	}
	if resp.NextActions == nil {
		t.Error("next_actions should default to an empty slice")
	}
	for _, want := range []string{"Ship bundles?", "stacking rules defined", "risk", "data_model"} {
		if !strings.Contains(client.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestLLMOwnerDefaultsConfidence(t *testing.T) {
	o := &LLMOwner{ID: "x", Client: &fakeLLM{reply: `{"coverage":[]}`}}
	resp, err := o.Handle(context.Background(), models.Request{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Confidence != 0.5 {
		t.Errorf("expected default confidence 0.5, got %v", resp.Confidence)
	}
}

func TestLLMOwnerMalformedAnswer(t *testing.T) {
	for _, reply := range []string{"", "I cannot answer that", `{"coverage": [`} {
		o := &LLMOwner{ID: "x", Client: &fakeLLM{reply: reply}}
		if _, err := o.Handle(context.Background(), models.Request{}); !errors.Is(err, ErrMalformedAnswer) {
			t.Errorf("reply %q: expected ErrMalformedAnswer, got %v", reply, err)
		}
	}
}

func TestLLMOwnerProviderErrorTripsBreaker(t *testing.T) {
	client := &fakeLLM{err: llm.ErrNoContent}
	o := &LLMOwner{ID: "x", Client: client, Breaker: resilience.NewBreaker(2, time.Minute)}

	for i := 0; i < 2; i++ {
		if _, err := o.Handle(context.Background(), models.Request{}); !errors.Is(err, llm.ErrNoContent) {
			t.Fatalf("call %d: expected provider error, got %v", i, err)
		}
	}
	if _, err := o.Handle(context.Background(), models.Request{}); !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if client.calls != 2 {
		t.Errorf("provider called %d times, want 2", client.calls)
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{`Sure! {"a":{"b":2}} hope this helps`, `{"a":{"b":2}}`},
		{`{"s":"brace } inside"}`, `{"s":"brace } inside"}`},
		{`{"s":"escaped \" quote }"}`, `{"s":"escaped \" quote }"}`},
		{`no object`, ``},
		{`{"open":`, ``},
	}
	for _, tt := range tests {
		if got := extractJSONObject(tt.in); got != tt.want {
			t.Errorf("extractJSONObject(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuild(t *testing.T) {
	reg, err := Build(nil, Deps{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := reg.IDs(), []string{FrontendEcommerce, BackendEcommerce}; !reflect.DeepEqual(got, want) {
		t.Errorf("default registry = %v, want %v", got, want)
	}

	specs := []config.OwnerSpec{
		{ID: "rules-owner", Kind: KindRules, Coverage: []string{"api"}},
		{ID: "llm-owner", Kind: KindLLM},
		{ID: "todo-owner", Kind: KindUnimplemented},
	}
	reg, err = Build(specs, Deps{LLM: &llm.MockClient{}, Breaker: config.Breaker{MaxFailures: 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Len() != 3 {
		t.Fatalf("expected 3 owners, got %v", reg.IDs())
	}
	if o, _ := reg.Get("llm-owner"); o.(*LLMOwner).Breaker == nil {
		t.Error("llm owner should have a breaker")
	}
	if _, ok := reg.Get("todo-owner"); !ok {
		t.Error("missing unimplemented owner")
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build([]config.OwnerSpec{{ID: "x", Kind: "oracle"}}, Deps{}); !errors.Is(err, ErrUnknownOwnerKind) {
		t.Errorf("expected ErrUnknownOwnerKind, got %v", err)
	}
	if _, err := Build([]config.OwnerSpec{{ID: "x", Kind: KindLLM}}, Deps{}); err == nil {
		t.Error("expected error for llm owner without client")
	}
	if _, err := Build([]config.OwnerSpec{{ID: "x"}, {ID: "x"}}, Deps{}); !errors.Is(err, ErrDuplicateOwner) {
		t.Errorf("expected ErrDuplicateOwner, got %v", err)
	}
}

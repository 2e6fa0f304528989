package owners

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/boss-orchestrator/internal/models"
	"github.com/example/boss-orchestrator/internal/providers/llm"
	"github.com/example/boss-orchestrator/internal/resilience"
)

// ErrMalformedAnswer is returned when the model output is not a usable JSON answer.
var ErrMalformedAnswer = errors.New("malformed llm answer")

// LLMOwner asks a language model to play a specialist and answer in the
// Response shape. Provider calls go through Breaker when one is set.
type LLMOwner struct {
	ID      string
	Persona string
	Client  llm.Client
	Breaker *resilience.Breaker
}

type llmAnswer struct {
	Coverage    []string         `json:"coverage"`
	Findings    []models.Finding `json:"findings"`
	Gaps        []string         `json:"gaps"`
	NextActions []map[string]any `json:"next_actions"`
	Confidence  *float64         `json:"confidence"`
}

func (o *LLMOwner) Handle(ctx context.Context, req models.Request) (models.Response, error) {
	prompt := buildOwnerPrompt(o.Persona, req)

	var raw string
	call := func() error {
		var err error
		raw, err = o.Client.GenerateText(ctx, prompt)
		return err
	}
	var err error
	if o.Breaker != nil {
		err = o.Breaker.Execute(call)
	} else {
		err = call()
	}
	if err != nil {
		return models.Response{}, fmt.Errorf("owner %s: %w", o.ID, err)
	}

	ans, err := parseAnswer(raw)
	if err != nil {
		return models.Response{}, fmt.Errorf("owner %s: %w", o.ID, err)
	}

	conf := 0.5
	if ans.Confidence != nil {
		conf = clamp01(*ans.Confidence)
	}
	return models.Response{
		TaskID:      req.TaskID,
		Owner:       o.ID,
		Coverage:    normalizeTags(ans.Coverage),
		Findings:    nonNil(ans.Findings),
		Gaps:        nonNil(ans.Gaps),
		NextActions: nonNil(ans.NextActions),
		Confidence:  conf,
		Status:      models.StatusOK,
	}, nil
}

func buildOwnerPrompt(persona string, req models.Request) string {
	if persona == "" {
		persona = "a senior engineer reviewing a feature request"
	}
	ctxJSON, _ := json.Marshal(req.Context)
	criteria := "(none)"
	if len(req.AcceptanceCriteria) > 0 {
		criteria = "- " + strings.Join(req.AcceptanceCriteria, "\n- ")
	}
	return fmt.Sprintf(`You are %s, one of several specialist owners answering for a coordinator.
Output ONLY a JSON object, no prose, no code fences.

Schema: {"coverage": [string], "findings": [{"area": string, "summary": string, "details": object}], "gaps": [string], "next_actions": [object], "confidence": number between 0 and 1}

Rules:
- "coverage" lists the topics your answer really addresses. Known topics: %s.
- Only claim a topic when a finding supports it.
- Put anything you cannot answer, or any acceptance criterion that is unmet, in "gaps".
- Leave "gaps" empty when nothing is missing.

Intent: %s
Question:
%s

Acceptance criteria:
%s

Context: %s`, persona, strings.Join(models.CoverageTargets(), ", "), req.Intent, req.Question, criteria, string(ctxJSON))
}

func parseAnswer(raw string) (llmAnswer, error) {
	var ans llmAnswer
	text := normalizeJSONText(raw)
	if text == "" {
		return ans, ErrMalformedAnswer
	}
	if err := json.Unmarshal([]byte(text), &ans); err != nil {
		return ans, fmt.Errorf("%w: %v", ErrMalformedAnswer, err)
	}
	return ans, nil
}

// normalizeJSONText strips code fences and surrounding prose, returning the
// first top-level JSON object.
func normalizeJSONText(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```")
		// drop language hint, e.g. json
		if idx := strings.IndexByte(t, '\n'); idx != -1 {
			t = t[idx+1:]
		}
		if j := strings.LastIndex(t, "```"); j != -1 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}
	return extractJSONObject(t)
}

// extractJSONObject returns the first balanced {...} in s, skipping braces
// inside string literals.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

package models

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Intent is the category of question handed to the owners.
type Intent string

const (
	IntentDesign   Intent = "design"
	IntentImplPlan Intent = "impl_plan"
	IntentRisk     Intent = "risk"
	IntentQA       Intent = "qa"
)

// ErrInvalidIntent is returned by ParseIntent for values outside the enumeration.
var ErrInvalidIntent = errors.New("invalid intent")

// ParseIntent maps a wire value to an Intent. The empty string defaults to impl_plan.
func ParseIntent(s string) (Intent, error) {
	switch Intent(strings.TrimSpace(s)) {
	case "":
		return IntentImplPlan, nil
	case IntentDesign, IntentImplPlan, IntentRisk, IntentQA:
		return Intent(strings.TrimSpace(s)), nil
	}
	return "", ErrInvalidIntent
}

// Status tells a genuine owner answer apart from placeholder and failure responses.
type Status string

const (
	StatusOK            Status = "ok"
	StatusUnimplemented Status = "unimplemented"
	StatusUnavailable   Status = "unavailable"
	StatusTimeout       Status = "timeout"
)

// Outcome is how an ask terminated.
type Outcome string

const (
	OutcomeDone       Outcome = "done"
	OutcomeBestEffort Outcome = "best_effort"
)

// coverageTargets is the fixed set of topics a complete answer must cover,
// kept in lexicographic order so every derived gap list is reproducible.
var coverageTargets = []string{"api", "cache", "data_model", "design", "events", "risk", "tests"}

// CoverageTargets returns a copy of the coverage target set, sorted.
func CoverageTargets() []string {
	return slices.Clone(coverageTargets)
}

// NewTaskID returns a fresh task identifier.
func NewTaskID() string {
	return uuid.NewString()
}

// Request is the question the Boss sends to every owner. Treat it as a value:
// refinement builds a new Request instead of editing one in place.
type Request struct {
	TaskID             string         `json:"task_id"`
	Intent             Intent         `json:"intent"`
	Question           string         `json:"question"`
	Context            map[string]any `json:"context"`
	AcceptanceCriteria []string       `json:"acceptance_criteria"`
}

// RefinePrefix separates the original question from the appended gap list.
const RefinePrefix = "\nPlease also resolve gaps: "

// Refine returns the next iteration's request. The task id, intent, context and
// acceptance criteria carry over unchanged; the gaps are appended to the question.
func (r Request) Refine(gaps []string) Request {
	return Request{
		TaskID:             r.TaskID,
		Intent:             r.Intent,
		Question:           r.Question + RefinePrefix + strings.Join(gaps, ", "),
		Context:            maps.Clone(r.Context),
		AcceptanceCriteria: slices.Clone(r.AcceptanceCriteria),
	}
}

// Finding is one owner observation. The Boss never inspects findings.
type Finding struct {
	Area    string         `json:"area"`
	Summary string         `json:"summary"`
	Details map[string]any `json:"details,omitempty"`
}

// Response is what one owner returns for one routing round.
type Response struct {
	TaskID      string           `json:"task_id"`
	Owner       string           `json:"owner"`
	Coverage    []string         `json:"coverage"`
	Findings    []Finding        `json:"findings"`
	Gaps        []string         `json:"gaps"`
	NextActions []map[string]any `json:"next_actions"`
	Confidence  float64          `json:"confidence"`
	Status      Status           `json:"status"`
}

// Answer is the Boss's merged output for one task.
type Answer struct {
	TaskID          string              `json:"task_id"`
	MergedCoverage  []string            `json:"merged_coverage"`
	MissingCoverage []string            `json:"missing_coverage"`
	Gaps            []string            `json:"gaps"`
	Summary         string              `json:"summary"`
	ByOwner         map[string]Response `json:"by_owner"`
	Rounds          int                 `json:"rounds"`
	Outcome         Outcome             `json:"outcome"`
}

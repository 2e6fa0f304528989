package orchestrator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/example/boss-orchestrator/internal/models"
)

// MissingCoverage returns the coverage targets no response claims, in
// lexicographic order.
func MissingCoverage(responses []models.Response) []string {
	have := make(map[string]struct{})
	for _, r := range responses {
		for _, c := range r.Coverage {
			have[c] = struct{}{}
		}
	}
	missing := []string{}
	for _, t := range models.CoverageTargets() {
		if _, ok := have[t]; !ok {
			missing = append(missing, t)
		}
	}
	return missing
}

// Validate returns the round's gap list: missing coverage first, then every
// owner gap in registry order. Acceptance criteria only matter to owners.
func Validate(responses []models.Response, _ []string) []string {
	return append(MissingCoverage(responses), ownerGaps(responses)...)
}

func ownerGaps(responses []models.Response) []string {
	gaps := []string{}
	for _, r := range responses {
		gaps = append(gaps, r.Gaps...)
	}
	return gaps
}

// Synthesize merges one round's responses into an answer. It is a pure
// function of its arguments. Rounds and Outcome are left for Ask to fill.
func Synthesize(req models.Request, responses []models.Response) models.Answer {
	merged := []string{}
	for _, r := range responses {
		merged = append(merged, r.Coverage...)
	}
	slices.Sort(merged)
	merged = slices.Compact(merged)

	missing := MissingCoverage(responses)
	gaps := append(slices.Clone(missing), ownerGaps(responses)...)

	byOwner := make(map[string]models.Response, len(responses))
	for _, r := range responses {
		byOwner[r.Owner] = r
	}

	return models.Answer{
		TaskID:          req.TaskID,
		MergedCoverage:  merged,
		MissingCoverage: missing,
		Gaps:            gaps,
		Summary:         summarize(req.Question, merged, gaps),
		ByOwner:         byOwner,
	}
}

func summarize(question string, coverage, gaps []string) string {
	g := "None"
	if len(gaps) > 0 {
		g = strings.Join(gaps, ", ")
	}
	return fmt.Sprintf("Question: %s\nCoverage: %s\nGaps: %s", question, strings.Join(coverage, ", "), g)
}

package owners

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/example/boss-orchestrator/internal/config"
	"github.com/example/boss-orchestrator/internal/models"
)

// RuleOwner answers from a static profile: fixed coverage and findings, plus
// keyword checks over the acceptance criteria that turn into gaps.
type RuleOwner struct {
	spec config.OwnerSpec
}

// NewRuleOwner returns an owner driven by spec.
func NewRuleOwner(spec config.OwnerSpec) *RuleOwner {
	return &RuleOwner{spec: spec}
}

func (o *RuleOwner) Handle(_ context.Context, req models.Request) (models.Response, error) {
	gaps := []string{}
	for _, check := range o.spec.CriteriaChecks {
		if !mentions(req.AcceptanceCriteria, check.Keyword) {
			gaps = append(gaps, check.Gap)
		}
	}

	findings := make([]models.Finding, 0, len(o.spec.Findings))
	for _, f := range o.spec.Findings {
		findings = append(findings, models.Finding{
			Area:    f.Area,
			Summary: f.Summary,
			Details: maps.Clone(f.Details),
		})
	}

	actions := make([]map[string]any, 0, len(o.spec.NextActions))
	for _, a := range o.spec.NextActions {
		actions = append(actions, maps.Clone(a))
	}

	coverage := slices.Clone(o.spec.Coverage)
	if coverage == nil {
		coverage = []string{}
	}

	return models.Response{
		TaskID:      req.TaskID,
		Owner:       o.spec.ID,
		Coverage:    coverage,
		Findings:    findings,
		Gaps:        gaps,
		NextActions: actions,
		Confidence:  o.spec.Confidence,
		Status:      models.StatusOK,
	}, nil
}

// mentions reports whether any criterion contains keyword, ignoring case.
func mentions(criteria []string, keyword string) bool {
	kw := strings.ToLower(keyword)
	for _, c := range criteria {
		if strings.Contains(strings.ToLower(c), kw) {
			return true
		}
	}
	return false
}

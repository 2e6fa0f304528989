package owners

import "github.com/example/boss-orchestrator/internal/config"

// Built-in owner ids.
const (
	FrontendEcommerce = "frontend-ecommerce"
	BackendEcommerce  = "backend-ecommerce"
)

// DefaultSpecs returns the example e-commerce owners used when the
// configuration declares none.
func DefaultSpecs() []config.OwnerSpec {
	return []config.OwnerSpec{
		{
			ID:         FrontendEcommerce,
			Kind:       KindRules,
			Coverage:   []string{"design", "impl_plan", "tests"},
			Confidence: 0.75,
			Findings: []config.FindingSpec{
				{
					Area:    "ui",
					Summary: "Add admin form for bundle builder",
					Details: map[string]any{
						"components": []any{"BundleForm", "BundleItemRow", "PromoBadge"},
						"routes":     []any{"/admin/promotions/bundles/new"},
					},
				},
				{Area: "data", Summary: "Client SDK method POST /promotions/bundles", Details: map[string]any{}},
				{Area: "tests", Summary: "Playwright flow: create→activate", Details: map[string]any{}},
			},
			CriteriaChecks: []config.CriteriaCheck{
				{Keyword: "a11y", Gap: "Missing a11y acceptance criteria"},
			},
			NextActions: []map[string]any{
				{"owner": "FE", "steps": []any{"scaffold form", "wire SDK", "add tests"}},
			},
		},
		{
			ID:         BackendEcommerce,
			Kind:       KindRules,
			Coverage:   []string{"api", "data_model", "events", "cache"},
			Confidence: 0.8,
			Findings: []config.FindingSpec{
				{
					Area:    "api",
					Summary: "New endpoints for bundles",
					Details: map[string]any{
						"paths": []any{
							"POST /promotions/bundles",
							"GET /promotions/bundles/{id}",
							"PATCH /promotions/bundles/{id}",
							"POST /promotions/bundles/{id}/activate",
						},
					},
				},
				{Area: "data_model", Summary: "Tables: promo_bundle, promo_bundle_item"},
				{Area: "events", Summary: "Emit promo.bundle.created via Kafka"},
				{Area: "cache", Summary: "Redis keyspace promo:bundle:* invalidate on write"},
			},
			CriteriaChecks: []config.CriteriaCheck{
				{Keyword: "stack", Gap: "Discount stacking rules unspecified"},
			},
			NextActions: []map[string]any{
				{"owner": "BE", "steps": []any{"write migrations", "implement service", "publish events"}},
			},
		},
	}
}

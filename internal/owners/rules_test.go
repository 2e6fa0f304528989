package owners

import (
	"context"
	"reflect"
	"testing"

	"github.com/example/boss-orchestrator/internal/config"
	"github.com/example/boss-orchestrator/internal/models"
)

func specByID(t *testing.T, id string) config.OwnerSpec {
	t.Helper()
	for _, s := range DefaultSpecs() {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("no built-in spec %q", id)
	return config.OwnerSpec{}
}

func TestBackendOwnerFlagsMissingStackingRules(t *testing.T) {
	o := NewRuleOwner(specByID(t, BackendEcommerce))
	req := models.Request{TaskID: "t", AcceptanceCriteria: []string{"User can create bundle deal"}}

	resp, err := o.Handle(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(resp.Gaps, []string{"Discount stacking rules unspecified"}) {
		t.Errorf("gaps = %v", resp.Gaps)
	}
	if !reflect.DeepEqual(resp.Coverage, []string{"api", "data_model", "events", "cache"}) {
		t.Errorf("coverage = %v", resp.Coverage)
	}
	if resp.Confidence != 0.8 || resp.Status != models.StatusOK {
		t.Errorf("unexpected confidence/status %v/%v", resp.Confidence, resp.Status)
	}
	if len(resp.Findings) != 4 {
		t.Errorf("expected 4 findings, got %d", len(resp.Findings))
	}
}

func TestCriteriaMatchIsCaseInsensitive(t *testing.T) {
	o := NewRuleOwner(specByID(t, FrontendEcommerce))
	req := models.Request{TaskID: "t", AcceptanceCriteria: []string{"A11Y badge present"}}

	resp, err := o.Handle(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Gaps) != 0 {
		t.Errorf("expected no gaps, got %v", resp.Gaps)
	}
	if resp.Gaps == nil {
		t.Error("gaps should be an empty slice, not nil")
	}
}

func TestRuleOwnerDoesNotShareSpecState(t *testing.T) {
	spec := config.OwnerSpec{
		ID:          "x",
		Coverage:    []string{"api"},
		Findings:    []config.FindingSpec{{Area: "api", Summary: "s", Details: map[string]any{"k": "v"}}},
		NextActions: []map[string]any{{"owner": "X"}},
	}
	o := NewRuleOwner(spec)
	resp, _ := o.Handle(context.Background(), models.Request{})
	resp.Coverage[0] = "mutated"
	resp.Findings[0].Details["k"] = "mutated"
	resp.NextActions[0]["owner"] = "mutated"

	again, _ := o.Handle(context.Background(), models.Request{})
	if again.Coverage[0] != "api" || again.Findings[0].Details["k"] != "v" || again.NextActions[0]["owner"] != "X" {
		t.Fatalf("owner state leaked through response: %+v", again)
	}
}

func TestRuleOwnerWithEmptySpec(t *testing.T) {
	resp, err := NewRuleOwner(config.OwnerSpec{ID: "bare"}).Handle(context.Background(), models.Request{TaskID: "t"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Coverage == nil || resp.Findings == nil || resp.Gaps == nil || resp.NextActions == nil {
		t.Fatalf("expected empty, non-nil slices: %+v", resp)
	}
}

package owners

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/example/boss-orchestrator/internal/models"
)

func TestNewRegistryPreservesOrder(t *testing.T) {
	r, err := NewRegistry(
		Entry{ID: "zeta", Owner: Unimplemented{ID: "zeta"}},
		Entry{ID: "alpha", Owner: Unimplemented{ID: "alpha"}},
		Entry{ID: "mid", Owner: Unimplemented{ID: "mid"}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := r.IDs(), []string{"zeta", "alpha", "mid"}; !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}

	var visited []string
	r.Each(func(i int, id string, o Owner) {
		if o == nil {
			t.Errorf("nil owner for %s", id)
		}
		if r.IDs()[i] != id {
			t.Errorf("index %d does not match id %s", i, id)
		}
		visited = append(visited, id)
	})
	if !reflect.DeepEqual(visited, r.IDs()) {
		t.Errorf("Each visited %v", visited)
	}
}

func TestNewRegistryRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    error
	}{
		{"duplicate", []Entry{{ID: "a", Owner: Unimplemented{}}, {ID: "a", Owner: Unimplemented{}}}, ErrDuplicateOwner},
		{"empty id", []Entry{{ID: " ", Owner: Unimplemented{}}}, ErrEmptyOwnerID},
		{"nil owner", []Entry{{ID: "a"}}, ErrNilOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry(tt.entries...); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegistryIDsIsACopy(t *testing.T) {
	r, _ := NewRegistry(Entry{ID: "a", Owner: Unimplemented{ID: "a"}})
	ids := r.IDs()
	ids[0] = "mutated"
	if _, ok := r.Get("a"); !ok || r.IDs()[0] != "a" {
		t.Fatal("registry was mutated through IDs()")
	}
}

func TestEmptyRegistry(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	if r.Len() != 0 || len(r.IDs()) != 0 {
		t.Fatalf("expected empty registry, got %v", r.IDs())
	}
}

func TestUnimplementedDefaultCapability(t *testing.T) {
	req := models.Request{TaskID: "t-1", Question: "anything"}
	resp, err := Unimplemented{ID: "placeholder"}.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TaskID != "t-1" || resp.Owner != "placeholder" {
		t.Errorf("unexpected identity: %+v", resp)
	}
	if len(resp.Coverage) != 0 || len(resp.Findings) != 0 {
		t.Errorf("expected empty coverage and findings, got %+v", resp)
	}
	if !reflect.DeepEqual(resp.Gaps, []string{NotImplementedGap}) {
		t.Errorf("gaps = %v", resp.Gaps)
	}
	if resp.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", resp.Confidence)
	}
	if resp.Status != models.StatusUnimplemented {
		t.Errorf("status = %q, want unimplemented", resp.Status)
	}
}

func TestFuncAdapter(t *testing.T) {
	f := Func(func(_ context.Context, req models.Request) (models.Response, error) {
		return models.Response{TaskID: req.TaskID, Owner: "fn"}, nil
	})
	resp, err := f.Handle(context.Background(), models.Request{TaskID: "x"})
	if err != nil || resp.Owner != "fn" || resp.TaskID != "x" {
		t.Fatalf("unexpected result %+v, %v", resp, err)
	}
}

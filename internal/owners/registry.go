package owners

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrDuplicateOwner is returned when two entries share an id.
	ErrDuplicateOwner = errors.New("duplicate owner id")
	// ErrEmptyOwnerID is returned for entries without an id.
	ErrEmptyOwnerID = errors.New("owner id is empty")
	// ErrNilOwner is returned for entries without an implementation.
	ErrNilOwner = errors.New("owner is nil")
)

// Entry pairs an owner with the id it is registered under.
type Entry struct {
	ID    string
	Owner Owner
}

// Registry is an ordered, read-only set of owners. It is built once at startup
// and shared by every request; there is no way to add or remove owners later.
type Registry struct {
	ids    []string
	owners map[string]Owner
}

// NewRegistry builds a registry preserving the order of entries.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{
		ids:    make([]string, 0, len(entries)),
		owners: make(map[string]Owner, len(entries)),
	}
	for i, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyOwnerID)
		}
		if e.Owner == nil {
			return nil, fmt.Errorf("entry %q: %w", id, ErrNilOwner)
		}
		if _, dup := r.owners[id]; dup {
			return nil, fmt.Errorf("entry %q: %w", id, ErrDuplicateOwner)
		}
		r.ids = append(r.ids, id)
		r.owners[id] = e.Owner
	}
	return r, nil
}

// IDs returns owner ids in registration order.
func (r *Registry) IDs() []string {
	return slices.Clone(r.ids)
}

// Get looks up one owner.
func (r *Registry) Get(id string) (Owner, bool) {
	o, ok := r.owners[id]
	return o, ok
}

// Len is the number of registered owners.
func (r *Registry) Len() int {
	return len(r.ids)
}

// Each calls fn for every owner in registration order.
func (r *Registry) Each(fn func(i int, id string, o Owner)) {
	for i, id := range r.ids {
		fn(i, id, r.owners[id])
	}
}

package editor

import (
	"context"
	"fmt"
	"sort"
)

// TypeRegistry is the closed set of parameter type tags fetched for one edit
// surface. It is read-only; the store stays the final arbiter of validity.
type TypeRegistry struct {
	tags []string
	set  map[string]struct{}
}

// NewTypeRegistry builds a registry from tags, dropping duplicates and
// keeping first-seen order.
func NewTypeRegistry(tags []string) *TypeRegistry {
	r := &TypeRegistry{
		tags: make([]string, 0, len(tags)),
		set:  make(map[string]struct{}, len(tags)),
	}
	for _, tag := range tags {
		if _, ok := r.set[tag]; ok || tag == "" {
			continue
		}
		r.set[tag] = struct{}{}
		r.tags = append(r.tags, tag)
	}
	return r
}

// LoadTypeRegistry fetches the registry from src.
func LoadTypeRegistry(ctx context.Context, src TypeSource) (*TypeRegistry, error) {
	tags, err := src.ListParameterTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parameter types: %w", err)
	}
	return NewTypeRegistry(tags), nil
}

// Contains reports whether tag is registered
func (r *TypeRegistry) Contains(tag string) bool {
	_, ok := r.set[tag]
	return ok
}

// Types returns the tags in registry order
func (r *TypeRegistry) Types() []string {
	out := make([]string, len(r.tags))
	copy(out, r.tags)
	return out
}

// Sorted returns the tags sorted alphabetically, for selectors.
func (r *TypeRegistry) Sorted() []string {
	out := r.Types()
	sort.Strings(out)
	return out
}

// Len returns the number of registered tags
func (r *TypeRegistry) Len() int {
	return len(r.tags)
}

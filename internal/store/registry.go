package store

import (
	"strings"
	"sync"

	"github.com/ChrisZHHG/taskdeck/internal/model"
)

// Registry tracks the known task categories: the predefined set shipped
// with the system plus any custom names appended on first use. Lookups are
// case-insensitive; the spelling used at registration is the canonical one.
type Registry struct {
	mu    sync.RWMutex
	cats  []model.Category
	index map[string]int // lowercased name -> position in cats
}

// NewRegistry returns a registry seeded with the predefined categories.
func NewRegistry() *Registry {
	r := &Registry{index: make(map[string]int)}
	for _, name := range model.PredefinedCategories {
		r.add(model.Category{Name: name, Predefined: true})
	}
	return r
}

// add appends c unless a case-insensitive match is already registered.
// Caller must hold the write lock (or own the registry exclusively).
func (r *Registry) add(c model.Category) {
	key := strings.ToLower(c.Name)
	if _, ok := r.index[key]; ok {
		return
	}
	r.index[key] = len(r.cats)
	r.cats = append(r.cats, c)
}

// Canonical returns the registered spelling for name, matched
// case-insensitively, and whether the name is registered at all.
func (r *Registry) Canonical(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", false
	}
	return r.cats[i].Name, true
}

// Ensure registers name as a custom category if no case-insensitive match
// exists yet, and returns the canonical spelling either way.
func (r *Registry) Ensure(name string) string {
	name = strings.TrimSpace(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.index[strings.ToLower(name)]; ok {
		return r.cats[i].Name
	}
	r.add(model.Category{Name: name})
	return name
}

// All returns every registered category, predefined first, then custom
// categories in registration order.
func (r *Registry) All() []model.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Category, len(r.cats))
	copy(out, r.cats)
	return out
}

// Load replaces the registry contents with the given set. The predefined
// categories are re-seeded first so they survive snapshots written before
// a predefined name was added.
func (r *Registry) Load(cats []model.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cats = nil
	r.index = make(map[string]int)
	for _, name := range model.PredefinedCategories {
		r.add(model.Category{Name: name, Predefined: true})
	}
	for _, c := range cats {
		r.add(c)
	}
}

package alphabet

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/aerosim/internal/validator"
	"github.com/aretw0/aerosim/pkg/domain"
)

// Registry implements ports.TableLoader over the built-in variants plus any
// custom tables registered at startup (e.g. from configuration).
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*domain.TransitionTable
}

// NewRegistry creates a registry preloaded with the built-in variants.
func NewRegistry() *Registry {
	return &Registry{
		tables: map[string]*domain.TransitionTable{
			Named:  namedTable,
			Binary: binaryTable,
			Direct: directTable,
		},
	}
}

// Register adds a custom table after checking the flight safety policy.
// Built-in variants cannot be replaced.
func (r *Registry) Register(table *domain.TransitionTable) error {
	name := table.Variant()
	if err := validator.ValidateTable(table); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tables[name]; exists {
		return fmt.Errorf("variant %q is already registered", name)
	}
	r.tables[name] = table
	return nil
}

// LoadTable returns the table for the named variant. An empty name selects Default.
func (r *Registry) LoadTable(variant string) (*domain.TransitionTable, error) {
	if variant == "" {
		variant = Default
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	table, ok := r.tables[variant]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	return table, nil
}

// ListVariants returns every registered variant name, sorted.
func (r *Registry) ListVariants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

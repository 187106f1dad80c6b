package dsl

import (
	"fmt"

	"github.com/aretw0/aerosim/pkg/domain"
)

// Builder manages the transition table construction.
type Builder struct {
	variant  string
	alphabet []domain.Symbol
	declared bool
	states   map[domain.State]*StateBuilder
	order    []domain.State
}

// New creates a new table builder for the named alphabet variant.
func New(variant string) *Builder {
	return &Builder{
		variant: variant,
		states:  make(map[domain.State]*StateBuilder),
	}
}

// Alphabet declares the alphabet explicitly, fixing its order.
// Without it, the alphabet is inferred from the symbols in first-use order.
func (b *Builder) Alphabet(symbols ...domain.Symbol) *Builder {
	b.alphabet = append([]domain.Symbol(nil), symbols...)
	b.declared = true
	return b
}

// From starts (or resumes) the configuration of a state's outgoing transitions.
func (b *Builder) From(state domain.State) *StateBuilder {
	if sb, ok := b.states[state]; ok {
		return sb
	}
	sb := &StateBuilder{state: state, builder: b}
	b.states[state] = sb
	b.order = append(b.order, state)
	return sb
}

// Build compiles the declarations into a validated transition table.
func (b *Builder) Build() (*domain.TransitionTable, error) {
	var transitions []domain.Transition
	for _, s := range b.order {
		transitions = append(transitions, b.states[s].transitions...)
	}

	alphabet := b.alphabet
	if !b.declared {
		seen := make(map[domain.Symbol]bool)
		for _, tr := range transitions {
			if !seen[tr.Symbol] {
				seen[tr.Symbol] = true
				alphabet = append(alphabet, tr.Symbol)
			}
		}
	}

	table, err := domain.NewTransitionTable(b.variant, alphabet, transitions)
	if err != nil {
		return nil, fmt.Errorf("failed to build transition table: %w", err)
	}
	return table, nil
}

// MustBuild is like Build but panics on error. Intended for package-level tables.
func (b *Builder) MustBuild() *domain.TransitionTable {
	table, err := b.Build()
	if err != nil {
		panic(err)
	}
	return table
}

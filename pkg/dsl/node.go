package dsl

import "github.com/aretw0/aerosim/pkg/domain"

// StateBuilder provides a fluent API for the transitions leaving one state.
type StateBuilder struct {
	state       domain.State
	transitions []domain.Transition
	builder     *Builder
}

// On adds a transition taken when sym is applied in this state.
func (s *StateBuilder) On(sym domain.Symbol, target domain.State) *StateBuilder {
	s.transitions = append(s.transitions, domain.Transition{
		From:   s.state,
		Symbol: sym,
		To:     target,
	})
	return s
}

// Direct adds a transition whose symbol is the target state's name.
func (s *StateBuilder) Direct(target domain.State) *StateBuilder {
	return s.On(domain.Symbol(target), target)
}

// From switches to another state, allowing chained declarations.
func (s *StateBuilder) From(state domain.State) *StateBuilder {
	return s.builder.From(state)
}

// Transitions returns the transitions declared so far for this state.
func (s *StateBuilder) Transitions() []domain.Transition {
	return append([]domain.Transition(nil), s.transitions...)
}

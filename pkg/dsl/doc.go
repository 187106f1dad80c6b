/*
Package dsl provides a Go DSL for programmatically constructing transition tables.

It lets callers declare the edges of the aircraft automaton with a fluent
builder instead of hand-writing []domain.Transition literals. The result is
validated by domain.NewTransitionTable, so contradictory pairs, unknown states
and sink states are caught when the table is built.

Example usage:

	table, err := dsl.New("named").
		From(domain.StateOnGround).
		On(domain.SymbolStartTakeoff, domain.StateTakingOff).
		On(domain.SymbolEmergency, domain.StateEmergency).
		From(domain.StateTakingOff).
		On(domain.SymbolReachCruiseAltitude, domain.StateInFlight).
		// ...
		Build()
*/
package dsl

package domain

import (
	"fmt"
	"strings"
)

// Transition is a single edge of the automaton.
type Transition struct {
	From   State  `json:"from" yaml:"from" mapstructure:"from"`
	Symbol Symbol `json:"symbol" yaml:"symbol" mapstructure:"symbol"`
	To     State  `json:"to" yaml:"to" mapstructure:"to"`
}

type transitionKey struct {
	from   State
	symbol Symbol
}

// TransitionTable maps (state, symbol) pairs to destination states.
// Any pair not present is an invalid transition. A table is immutable once built.
type TransitionTable struct {
	variant     string
	alphabet    Alphabet
	edges       map[transitionKey]State
	transitions []Transition
}

// NewTransitionTable validates the transitions against the state enumeration and
// the alphabet. Contradictory or duplicated pairs, unknown states or symbols and
// states without any outgoing transition are rejected.
func NewTransitionTable(variant string, alphabet Alphabet, transitions []Transition) (*TransitionTable, error) {
	if variant == "" {
		return nil, fmt.Errorf("%w: variant name is required", ErrInvalidTable)
	}
	alpha, err := NewAlphabet(alphabet...)
	if err != nil {
		return nil, err
	}

	t := &TransitionTable{
		variant:  variant,
		alphabet: alpha,
		edges:    make(map[transitionKey]State, len(transitions)),
	}

	var problems []string
	outgoing := make(map[State]int, len(allStates))
	for _, tr := range transitions {
		if !tr.From.Valid() {
			problems = append(problems, fmt.Sprintf("unknown origin state %q", tr.From))
			continue
		}
		if !tr.To.Valid() {
			problems = append(problems, fmt.Sprintf("unknown destination state %q", tr.To))
			continue
		}
		if !alpha.Contains(tr.Symbol) {
			problems = append(problems, fmt.Sprintf("symbol %q is not in the alphabet", tr.Symbol))
			continue
		}
		key := transitionKey{tr.From, tr.Symbol}
		if existing, ok := t.edges[key]; ok {
			if existing != tr.To {
				problems = append(problems, fmt.Sprintf("%s on %q maps to both %s and %s", tr.From, tr.Symbol, existing, tr.To))
			} else {
				problems = append(problems, fmt.Sprintf("%s on %q is declared twice", tr.From, tr.Symbol))
			}
			continue
		}
		t.edges[key] = tr.To
		outgoing[tr.From]++
	}

	for _, s := range allStates {
		if outgoing[s] == 0 {
			problems = append(problems, fmt.Sprintf("state %s has no outgoing transition", s))
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w %q:\n- %s", ErrInvalidTable, variant, strings.Join(problems, "\n- "))
	}

	// Keep a stable order: states in canonical order, symbols in alphabet order.
	for _, s := range allStates {
		for _, sym := range alpha {
			if to, ok := t.edges[transitionKey{s, sym}]; ok {
				t.transitions = append(t.transitions, Transition{From: s, Symbol: sym, To: to})
			}
		}
	}

	return t, nil
}

// MustTransitionTable is like NewTransitionTable but panics on error.
func MustTransitionTable(variant string, alphabet Alphabet, transitions []Transition) *TransitionTable {
	t, err := NewTransitionTable(variant, alphabet, transitions)
	if err != nil {
		panic(err)
	}
	return t
}

// Variant returns the name of the alphabet variant the table was built for.
func (t *TransitionTable) Variant() string {
	return t.variant
}

// Alphabet returns a copy of the declared alphabet.
func (t *TransitionTable) Alphabet() Alphabet {
	out := make(Alphabet, len(t.alphabet))
	copy(out, t.alphabet)
	return out
}

// Recognizes reports whether sym belongs to the alphabet.
func (t *TransitionTable) Recognizes(sym Symbol) bool {
	return t.alphabet.Contains(sym)
}

// Lookup returns the destination for (from, sym), if any.
func (t *TransitionTable) Lookup(from State, sym Symbol) (State, bool) {
	to, ok := t.edges[transitionKey{from, sym}]
	return to, ok
}

// ValidSymbols returns the symbols with a destination from the given state, in alphabet order.
func (t *TransitionTable) ValidSymbols(from State) []Symbol {
	var out []Symbol
	for _, sym := range t.alphabet {
		if _, ok := t.edges[transitionKey{from, sym}]; ok {
			out = append(out, sym)
		}
	}
	return out
}

// Transitions returns every edge in a stable order.
func (t *TransitionTable) Transitions() []Transition {
	out := make([]Transition, len(t.transitions))
	copy(out, t.transitions)
	return out
}

// Guidance explains what can be done from a state, listing each valid symbol with its destination.
func (t *TransitionTable) Guidance(from State) string {
	symbols := t.ValidSymbols(from)
	parts := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		to, _ := t.Lookup(from, sym)
		parts = append(parts, fmt.Sprintf("%s (→ %s)", sym, to))
	}
	return fmt.Sprintf("Valid symbols from %s: %s.", from, strings.Join(parts, ", "))
}

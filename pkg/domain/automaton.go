package domain

import (
	"fmt"
	"strings"
)

// HistoryEntry records one applied transition. The first entry of every ledger
// has no origin and points at the initial state.
type HistoryEntry struct {
	From State `json:"from,omitempty"`
	To   State `json:"to"`
}

// IsInitial reports whether this is the synthetic first entry.
func (h HistoryEntry) IsInitial() bool {
	return h.From == noState
}

func (h HistoryEntry) String() string {
	return fmt.Sprintf("%s → %s", h.From, h.To)
}

// Automaton is the aircraft DFA: one current state, an immutable table and an
// append-only history ledger. It is not safe for concurrent use; callers
// serialize access per session.
type Automaton struct {
	current State
	table   *TransitionTable
	history []HistoryEntry
}

// NewAutomaton creates an automaton in the initial state.
// A nil table is a programming error and panics.
func NewAutomaton(table *TransitionTable) *Automaton {
	return startAt(table, InitialState)
}

func startAt(table *TransitionTable, initial State) *Automaton {
	if table == nil {
		panic("domain: automaton requires a transition table")
	}
	if !initial.Valid() {
		panic(fmt.Sprintf("domain: %q is outside the state enumeration", initial))
	}
	return &Automaton{
		current: initial,
		table:   table,
		history: []HistoryEntry{{From: noState, To: initial}},
	}
}

// RestoreAutomaton rebuilds an automaton from a persisted ledger. Every entry
// after the first must be a transition of the table, chained from the previous
// destination.
func RestoreAutomaton(table *TransitionTable, history []HistoryEntry) (*Automaton, error) {
	a := NewAutomaton(table)
	if len(history) == 0 {
		return a, nil
	}
	if first := history[0]; !first.IsInitial() || first.To != InitialState {
		return nil, fmt.Errorf("%w: first entry is %s, want %s", ErrCorruptHistory, first, a.history[0])
	}
	for i, entry := range history[1:] {
		if entry.From != a.current {
			return nil, fmt.Errorf("%w: entry %d starts at %s but previous ended at %s", ErrCorruptHistory, i+1, entry.From, a.current)
		}
		if !a.reachable(entry.From, entry.To) {
			return nil, fmt.Errorf("%w: entry %d (%s) is not a transition of %q", ErrCorruptHistory, i+1, entry, table.Variant())
		}
		a.history = append(a.history, entry)
		a.current = entry.To
	}
	return a, nil
}

func (a *Automaton) reachable(from, to State) bool {
	for _, sym := range a.table.ValidSymbols(from) {
		if dest, _ := a.table.Lookup(from, sym); dest == to {
			return true
		}
	}
	return false
}

// Current returns the current state.
func (a *Automaton) Current() State {
	return a.current
}

// Table returns the transition table the automaton runs on.
func (a *Automaton) Table() *TransitionTable {
	return a.table
}

// History returns a copy of the ledger, including the initial entry.
func (a *Automaton) History() []HistoryEntry {
	out := make([]HistoryEntry, len(a.history))
	copy(out, a.history)
	return out
}

// Guidance returns the per-state help text for the current state.
func (a *Automaton) Guidance() string {
	return a.table.Guidance(a.current)
}

// Attempt applies sym to the current state. It is the only mutator of state
// and history, and it mutates nothing when the attempt fails.
func (a *Automaton) Attempt(sym Symbol) Outcome {
	from := a.current

	if !a.table.Recognizes(sym) {
		return a.reject(FailureUnrecognizedSymbol, sym,
			fmt.Sprintf("Unrecognized symbol %q: it is not part of the %s alphabet (%s). %s",
				sym, a.table.Variant(), strings.Join(a.table.Alphabet().Strings(), ", "), a.Guidance()))
	}

	to, ok := a.table.Lookup(from, sym)
	if !ok {
		return a.reject(FailureInapplicableTransition, sym,
			fmt.Sprintf("Invalid transition: %s is not applicable from %s (%s). %s",
				sym, from, from.Describe(), a.Guidance()))
	}

	a.history = append(a.history, HistoryEntry{From: from, To: to})
	a.current = to

	return Outcome{
		Success:  true,
		Message:  fmt.Sprintf("Transition successful to %s via %s", to, sym),
		Symbol:   sym,
		Previous: from,
		State:    to,
	}
}

func (a *Automaton) reject(kind FailureKind, sym Symbol, msg string) Outcome {
	return Outcome{
		Success:  false,
		Message:  msg,
		Symbol:   sym,
		Previous: a.current,
		State:    a.current,
		Failure:  kind,
		Valid:    a.table.ValidSymbols(a.current),
	}
}

// Reset returns a fresh automaton over the same table. The receiver is left
// untouched; callers replace the reference they hold.
func (a *Automaton) Reset() *Automaton {
	return NewAutomaton(a.table)
}

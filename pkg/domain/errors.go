package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnrecognizedSymbol is returned when a symbol is not part of the alphabet at all.
	ErrUnrecognizedSymbol = errors.New("unrecognized symbol")

	// ErrInapplicableTransition is returned when a known symbol has no destination from the current state.
	ErrInapplicableTransition = errors.New("inapplicable transition")

	// ErrInvalidState is returned when a name is outside the state enumeration.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidTable is returned when a transition table fails construction checks.
	ErrInvalidTable = errors.New("invalid transition table")

	// ErrCorruptHistory is returned when a persisted ledger cannot be replayed on a table.
	ErrCorruptHistory = errors.New("corrupt history")
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// FailureKind classifies a rejected attempt.
type FailureKind string

const (
	FailureNone                   FailureKind = ""
	FailureUnrecognizedSymbol     FailureKind = "unrecognized_symbol"
	FailureInapplicableTransition FailureKind = "inapplicable_transition"
)

// TransitionError describes a rejected attempt.
type TransitionError struct {
	Kind   FailureKind
	State  State
	Symbol Symbol
	Valid  []Symbol
}

func (e *TransitionError) Error() string {
	valid := make([]string, len(e.Valid))
	for i, s := range e.Valid {
		valid[i] = string(s)
	}
	return fmt.Sprintf("%s: %q from %s (valid: %s)", e.sentinel(), e.Symbol, e.State, strings.Join(valid, ", "))
}

// Is lets errors.Is match the sentinel for the failure kind.
func (e *TransitionError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *TransitionError) sentinel() error {
	if e.Kind == FailureUnrecognizedSymbol {
		return ErrUnrecognizedSymbol
	}
	return ErrInapplicableTransition
}

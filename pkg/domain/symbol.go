package domain

import "fmt"

// Symbol is a trigger drawn from the active alphabet.
type Symbol string

// Named action symbols.
const (
	SymbolStartTakeoff        Symbol = "start_takeoff"
	SymbolReachCruiseAltitude Symbol = "reach_cruise_altitude"
	SymbolStartLanding        Symbol = "start_landing"
	SymbolTouchDown           Symbol = "touch_down"
	SymbolEmergency           Symbol = "emergency"
)

// Binary symbols.
const (
	SymbolAdvance Symbol = "0"
	SymbolAlarm   Symbol = "1"
)

// Alphabet is the ordered, duplicate-free set of symbols a table accepts.
type Alphabet []Symbol

// NewAlphabet validates and copies the given symbols.
func NewAlphabet(symbols ...Symbol) (Alphabet, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: empty alphabet", ErrInvalidTable)
	}
	seen := make(map[Symbol]bool, len(symbols))
	out := make(Alphabet, 0, len(symbols))
	for _, sym := range symbols {
		if sym == "" {
			return nil, fmt.Errorf("%w: empty symbol in alphabet", ErrInvalidTable)
		}
		if seen[sym] {
			return nil, fmt.Errorf("%w: duplicate symbol %q in alphabet", ErrInvalidTable, sym)
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out, nil
}

// Contains reports whether sym is part of the alphabet.
func (a Alphabet) Contains(sym Symbol) bool {
	for _, s := range a {
		if s == sym {
			return true
		}
	}
	return false
}

// Strings returns the symbols as plain strings, e.g. to populate a selection control.
func (a Alphabet) Strings() []string {
	out := make([]string, len(a))
	for i, s := range a {
		out[i] = string(s)
	}
	return out
}

package domain

import "fmt"

// State is one of the operational states of the aircraft.
// The set is closed: only the constants below are valid.
type State string

const (
	StateOnGround  State = "ON_GROUND"
	StateTakingOff State = "TAKING_OFF"
	StateInFlight  State = "IN_FLIGHT"
	StateLanding   State = "LANDING"
	StateEmergency State = "EMERGENCY"
)

// InitialState is where every automaton starts. It is also the only safe terminal state.
const InitialState = StateOnGround

// noState marks the origin of the synthetic first history entry.
const noState State = ""

var allStates = []State{
	StateOnGround,
	StateTakingOff,
	StateInFlight,
	StateLanding,
	StateEmergency,
}

var stateInfo = map[State]struct {
	abbr     string
	describe string
}{
	StateOnGround:  {"G", "the aircraft is on the ground"},
	StateTakingOff: {"T", "the aircraft is taking off"},
	StateInFlight:  {"F", "the aircraft is cruising in flight"},
	StateLanding:   {"L", "the aircraft is on its landing approach"},
	StateEmergency: {"E", "an emergency has been declared"},
}

// States returns the enumeration in canonical order.
func States() []State {
	out := make([]State, len(allStates))
	copy(out, allStates)
	return out
}

// Valid reports whether s belongs to the enumeration.
func (s State) Valid() bool {
	_, ok := stateInfo[s]
	return ok
}

// Abbreviation returns the one-letter label drawn inside the state node.
func (s State) Abbreviation() string {
	return stateInfo[s].abbr
}

// Describe returns a short human sentence for the state.
func (s State) Describe() string {
	if info, ok := stateInfo[s]; ok {
		return info.describe
	}
	return "unknown state"
}

// String implements fmt.Stringer. The "none" origin renders as "start".
func (s State) String() string {
	if s == noState {
		return "start"
	}
	return string(s)
}

// ParseState converts a raw name into a State.
func ParseState(raw string) (State, error) {
	s := State(raw)
	if !s.Valid() {
		return noState, fmt.Errorf("%w: %q", ErrInvalidState, raw)
	}
	return s, nil
}

/*
Package domain contains the automaton engine of the aircraft simulator.

It defines the closed set of aircraft states, the symbols that trigger
transitions, the validated transition table and the Automaton that applies
symbols while keeping an append-only history ledger. This package is kept pure
and free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - State: one of ON_GROUND, TAKING_OFF, IN_FLIGHT, LANDING, EMERGENCY.
  - TransitionTable: (state, symbol) → destination, validated at construction.
  - Automaton: current state + table + history; Attempt is its only mutator.
  - Outcome: the structured result of an attempt (success, message, states).
  - Snapshot: the serializable session view read by renderers and stores.
*/
package domain

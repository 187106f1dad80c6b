/*
Package aerosim is a teaching simulator for a deterministic finite automaton
modelling the operational states of an aircraft.

The automaton has five states (ON_GROUND, TAKING_OFF, IN_FLIGHT, LANDING,
EMERGENCY) and starts ON_GROUND, which is also the only safe terminal state.
Every interaction feeds one symbol of an alphabet; the symbol either moves the
aircraft along the transition table or is rejected with a message that names
the current state, explains the rejection and lists the symbols that would
have been accepted. Rejections are values, never errors.

# Alphabets

Three variants ship with the package (see pkg/alphabet):

  - named (default): start_takeoff, reach_cruise_altitude, start_landing, touch_down, emergency
  - binary: 0 advances along the flight cycle, 1 declares an emergency
  - direct: the symbol is the name of the target state

Custom tables can be declared with pkg/dsl or in configuration and are checked
against the flight safety policy (every state can declare an emergency and
every state can get back ON_GROUND).

# Usage

	sim, err := aerosim.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	snap, err := sim.Apply(ctx, "pilot-1", "start_takeoff")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(snap.Current, snap.LastOutcome.Message)

Sessions are keyed by ID and live in a ports.SessionStore (in memory by
default, Redis via pkg/adapters/redis). The same Simulator backs the CLI REPL,
the HTTP API with its SSE diff stream, and the MCP server.
*/
package aerosim

/*
Package ports defines the driven ports (interfaces) of the simulator.

These interfaces decouple the automaton and its session coordination from
external implementations, allowing the simulator to work with various session
stores, table sources and lock providers.

# Key Interfaces

  - TableLoader: resolves an alphabet variant into a transition table.
  - SessionStore: keeps session snapshots between interactions.
  - DistributedLocker: serializes access to one session across replicas.
  - Simulator: the session-scoped API consumed by the HTTP, MCP and CLI adapters.
*/
package ports

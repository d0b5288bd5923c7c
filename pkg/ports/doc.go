/*
Package ports defines the driven and driving ports of the colorsort engine.

These interfaces decouple the protocol core from its surroundings, so the same
engine can be observed over HTTP, MCP or a terminal, and record its run history
in any store.

# Key Interfaces

  - HistoryStore: append-only record of SystemState snapshots for one run.
  - Simulator: the operations adapters drive (start, reset, state, history, potential).
*/
package ports

/*
Package domain contains the core models of the colorsort protocol.

It defines the entities exchanged between the engine and its observers: colored
tokens, the processes holding them, the messages they trade, and the read-only
snapshots produced by the engine. The package is kept pure and free of I/O.

# Key Entities

  - Color / Palette: opaque token colors and the ordered palette that drives priorities.
  - Process: a holder of a token stack plus its protocol flags (wanted, partner, done).
  - Message: a REQUEST, SEND or DONE exchanged between two processes.
  - Distribution: the initial assignment of tokens to processes.
  - SystemState: a point-in-time snapshot of a run, never aliasing live engine state.
*/
package domain

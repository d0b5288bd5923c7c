/*
Package colorsort simulates a distributed color-sorting protocol.

A fixed set of processes each hold a stack of colored tokens. Processes exchange
tokens one at a time over point-to-point messages until every process holds a
single color, or the best arrangement the distribution allows. Tokens are never
created or destroyed.

# Concept

Each process picks the color it wants, chooses a partner likely to hold it and
sends a REQUEST. The partner answers with a SEND carrying one token, unless that
token is the color it is collecting itself. A termination oracle decides when a
process is done, after which it announces DONE to the others. The driver
delivers one message per iteration from a FIFO queue, so every run is
deterministic for a given distribution and palette.

Several processes wanting the same color are resolved by priority: the palette
defines a rotation in which every process prefers a different color first.
Losing claimants concede the color and move on to their next best one.

# Key Features

  - Token conservation: checked after every delivered message.
  - Guaranteed termination: stagnation, iteration and stall guards force completion.
  - Hexagonal layout: the core is driven through ports.Simulator by HTTP, MCP or CLI adapters.
  - Observability: lifecycle hooks feed structured logs, Prometheus metrics and SSE streams.

# Usage

	dist := domain.Distribution{
		"P1": {"R", "G"},
		"P2": {"G", "R"},
	}
	sim, err := colorsort.New(dist, colorsort.WithPalette("R", "G"))
	if err != nil {
		log.Fatal(err)
	}
	if err := sim.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
	fmt.Println(sim.State().Status)
*/
package colorsort

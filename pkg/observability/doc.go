/*
Package observability provides tools for monitoring the colorsort engine.

It includes lifecycle hooks for structured logging and Prometheus metrics.
Both plug into the engine through domain.LifecycleHooks and can be combined
with any other hook set.
*/
package observability

/*
Package observability provides tools for monitoring the reveal sequencer.

It includes lifecycle hooks for logging transitions, Prometheus metrics bound to
those hooks, and a broadcaster streaming phase events to live subscribers.
Hooks from several sources are combined with Chain.
*/
package observability

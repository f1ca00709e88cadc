/*
Package clock provides the schedulers the sequencer runs on.

Virtual is a deterministic clock for tests and simulations: time only moves
when Advance is called, and due tasks run in (due time, scheduling order).
Loop is a real-time cooperative event loop: timers fire on their own
goroutines but every task is executed on the goroutine running Loop.Run.

Completion is the awaitable used for steps that must block the next one.
*/
package clock

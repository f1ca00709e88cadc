/*
Package sequence drives the enter/exit reveal sequence.

The sequence is a pure state machine: Transition maps the current phase and an
incoming signal to the next phase and the list of effects to perform. The
Orchestrator executes those effects in order on a scheduler, suspending on
conceal operations and waits, and feeds the internal phase-complete signal back
into Transition when a phase's effects have all finished.

	Idle -> TitleRevealed -> SceneTwoEntering -> SceneTwoSettled
	     -> ExitingSceneTwo -> ExitGraceWait -> ResetToSceneOne -> ReEntryWait -> Idle

Signals a phase does not accept are ignored: a cycle trigger that arrives
while a previous cycle is still running is dropped, never queued.
*/
package sequence

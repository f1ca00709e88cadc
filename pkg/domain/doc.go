/*
Package domain contains the shared vocabulary of the reveal sequencer.

It defines the sequence phases, the two page scenes, the signals the sequencer
reacts to and the effects it asks its collaborators to perform. The package is
kept free of I/O, timers and rendering, following Hexagonal Architecture
principles: everything here is plain data.

# Key Entities

  - Phase: a step of the enter/exit sequence (Idle, TitleRevealed, ...).
  - Scene: one of the two mutually exclusive presentation states of the page.
  - Signal: an externally originated animation-completion event.
  - Effect: a structural description of what the orchestrator must do next.
*/
package domain

/*
Package ports defines the driven ports (interfaces) of the reveal sequencer.

These interfaces decouple the sequencing core from the visual layer and from
the way time passes, allowing the same orchestrator to run against a parsed
HTML page on a real event loop or against an in-memory page on a virtual clock.

# Key Interfaces

  - Scheduler: runs "after N milliseconds" tasks on a single cooperative loop.
  - Element: a capability handle to one visual element (styles, flags, text).
  - Page: resolves the elements the sequencer animates.
  - SignalSink / SignalSource: deliver external animation-completion signals.
*/
package ports

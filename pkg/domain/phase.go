package domain

// Phase names a step of the enter/exit sequence.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseTitleRevealed    Phase = "title_revealed"
	PhaseSceneTwoEntering Phase = "scene_two_entering"
	PhaseSceneTwoSettled  Phase = "scene_two_settled"
	PhaseExitingSceneTwo  Phase = "exiting_scene_two"
	PhaseExitGraceWait    Phase = "exit_grace_wait"
	PhaseResetToSceneOne  Phase = "reset_to_scene_one"
	PhaseReEntryWait      Phase = "re_entry_wait"
)

// Phases returns every phase in sequence order, starting at Idle.
func Phases() []Phase {
	return []Phase{
		PhaseIdle,
		PhaseTitleRevealed,
		PhaseSceneTwoEntering,
		PhaseSceneTwoSettled,
		PhaseExitingSceneTwo,
		PhaseExitGraceWait,
		PhaseResetToSceneOne,
		PhaseReEntryWait,
	}
}

// Resting reports whether the phase waits for an external signal
// rather than for its own effects to finish.
func (p Phase) Resting() bool {
	return p == PhaseTitleRevealed || p == PhaseSceneTwoSettled
}

// DecorativeActive reports whether the decorative element carries its
// "active" flag while the sequence is in this phase.
func (p Phase) DecorativeActive() bool {
	switch p {
	case PhaseSceneTwoEntering, PhaseSceneTwoSettled, PhaseExitingSceneTwo, PhaseExitGraceWait:
		return true
	}
	return false
}

package domain

// Scene is one of the two presentation states of the whole page.
type Scene int

const (
	SceneOne Scene = iota
	SceneTwo
)

// Presentation flags consumed by the styling layer.
const (
	FlagSceneOne = "scene-one"
	FlagSceneTwo = "scene-two"
	FlagActive   = "active"
	FlagRemoving = "removing"
)

// Flag returns the page root flag that represents the scene.
func (s Scene) Flag() string {
	if s == SceneTwo {
		return FlagSceneTwo
	}
	return FlagSceneOne
}

func (s Scene) String() string {
	return s.Flag()
}

// MarshalText renders the scene as its flag name.
func (s Scene) MarshalText() ([]byte, error) {
	return []byte(s.Flag()), nil
}

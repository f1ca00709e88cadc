package ports

import "io"

// FlagSet is a set of presentation flags (a class list).
type FlagSet interface {
	AddFlag(flag string)
	RemoveFlag(flag string)
	HasFlag(flag string) bool
}

// Element is a capability handle to one visual element.
type Element interface {
	FlagSet

	// Children returns the element children in document order.
	// Units created by Split are not reported as children of the element itself.
	Children() []Element

	// Text returns the text content of the element.
	Text() string

	// Split replaces the content of the element with one unit child per part
	// and returns the new units in order.
	Split(parts []string) []Element

	// Units returns the children created by a previous Split, or nil.
	Units() []Element

	// SetStyle writes an inline style property.
	SetStyle(property, value string)

	// Style reads an inline style property, "" when unset.
	Style(property string) string
}

// Page resolves the elements the sequencer works with.
// Lookups return a nil Element when nothing matches.
type Page interface {
	// Root is the page root carrying the scene flags.
	Root() FlagSet

	// Find returns the first element carrying the class.
	Find(class string) Element

	// FindAll returns every element carrying the class, in document order.
	FindAll(class string) []Element
}

// Renderer is implemented by pages that can serialize their current state.
type Renderer interface {
	Render(w io.Writer) error
}

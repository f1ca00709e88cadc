package animator

import (
	"github.com/aretw0/reveal/pkg/clock"
	"github.com/aretw0/reveal/pkg/ports"
)

// HighlightClass marks word elements whose characters are highlighted.
const HighlightClass = "frame__highlight"

// Unit is one independently timed visual piece: a single character.
type Unit struct {
	Element   ports.Element
	Index     int
	Highlight bool
}

func (u *Unit) reveal() {
	u.Element.SetStyle("opacity", "1")
	u.Element.SetStyle("transform", "translateY(0)")
}

func (u *Unit) fade() {
	u.Element.SetStyle("opacity", "0")
}

func (u *Unit) offset(transform string) {
	u.Element.SetStyle("transform", transform)
}

// Group is the ordered set of units of one text block.
type Group struct {
	Name  string
	Units []*Unit

	inflight *operation
}

// operation is the last reveal or conceal scheduled on a group.
type operation struct {
	done    *clock.Completion
	conceal bool
}

// active returns the operation still running on the group, if any.
func (g *Group) active() *operation {
	if g.inflight == nil || g.inflight.done.Done() {
		return nil
	}
	return g.inflight
}

// Len returns the number of units; a nil group has none.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Units)
}

// Text reassembles the group's characters.
func (g *Group) Text() string {
	if g == nil {
		return ""
	}
	out := make([]byte, 0, len(g.Units))
	for _, u := range g.Units {
		out = append(out, u.Element.Text()...)
	}
	return string(out)
}

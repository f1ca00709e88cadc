package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/reveal/pkg/ports"
)

// Entry is one recorded style write.
type Entry struct {
	At       time.Duration
	Element  string
	Property string
	Value    string
}

// Journal records every style write made on a page, in order.
type Journal struct {
	entries []Entry
}

// Entries returns a copy of the recorded writes.
func (j *Journal) Entries() []Entry {
	return append([]Entry(nil), j.entries...)
}

// Where returns the writes of property with the given value.
func (j *Journal) Where(property, value string) []Entry {
	var out []Entry
	for _, e := range j.entries {
		if e.Property == property && e.Value == value {
			out = append(out, e)
		}
	}
	return out
}

type tree struct {
	mu      sync.Mutex
	now     func() time.Duration
	journal *Journal
}

// Element is an in-memory implementation of ports.Element.
type Element struct {
	tree     *tree
	id       string
	text     string
	flags    []string
	children []*Element
	units    []*Element
	styles   map[string]string
}

var _ ports.Element = (*Element)(nil)

// NewElement builds an element carrying the space separated classes.
// text is the element's own content; it is ignored once children are given.
func NewElement(classes, text string, children ...*Element) *Element {
	return &Element{
		text:     text,
		flags:    strings.Fields(classes),
		children: children,
		styles:   make(map[string]string),
	}
}

// ID returns the label the element is recorded under in the journal.
func (e *Element) ID() string {
	return e.id
}

func (e *Element) AddFlag(flag string) {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	for _, f := range e.flags {
		if f == flag {
			return
		}
	}
	e.flags = append(e.flags, flag)
}

func (e *Element) RemoveFlag(flag string) {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	kept := e.flags[:0]
	for _, f := range e.flags {
		if f != flag {
			kept = append(kept, f)
		}
	}
	e.flags = kept
}

func (e *Element) HasFlag(flag string) bool {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	return e.hasFlag(flag)
}

func (e *Element) hasFlag(flag string) bool {
	for _, f := range e.flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Flags returns the current flags in insertion order.
func (e *Element) Flags() []string {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	return append([]string(nil), e.flags...)
}

func (e *Element) Children() []ports.Element {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	if len(e.children) == 0 {
		return nil
	}
	out := make([]ports.Element, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

func (e *Element) Text() string {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	return e.textLocked()
}

func (e *Element) textLocked() string {
	switch {
	case len(e.units) > 0:
		var sb strings.Builder
		for _, u := range e.units {
			sb.WriteString(u.textLocked())
		}
		return sb.String()
	case len(e.children) > 0:
		var sb strings.Builder
		for _, c := range e.children {
			sb.WriteString(c.textLocked())
		}
		return sb.String()
	}
	return e.text
}

func (e *Element) Split(parts []string) []ports.Element {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()

	e.text = ""
	e.children = nil
	e.units = make([]*Element, len(parts))
	out := make([]ports.Element, len(parts))
	for i, part := range parts {
		u := &Element{
			tree:   e.tree,
			id:     fmt.Sprintf("%s[%d]", e.id, i),
			text:   part,
			styles: make(map[string]string),
		}
		e.units[i] = u
		out[i] = u
	}
	return out
}

func (e *Element) Units() []ports.Element {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	if len(e.units) == 0 {
		return nil
	}
	out := make([]ports.Element, len(e.units))
	for i, u := range e.units {
		out[i] = u
	}
	return out
}

func (e *Element) SetStyle(property, value string) {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	e.styles[property] = value
	at := time.Duration(0)
	if e.tree.now != nil {
		at = e.tree.now()
	}
	e.tree.journal.entries = append(e.tree.journal.entries, Entry{
		At:       at,
		Element:  e.id,
		Property: property,
		Value:    value,
	})
}

func (e *Element) Style(property string) string {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	return e.styles[property]
}

// Page is an in-memory implementation of ports.Page.
type Page struct {
	tree *tree
	body *Element
}

var _ ports.Page = (*Page)(nil)

// Option configures a Page.
type Option func(*Page)

// WithClock stamps journal entries with the given time source.
func WithClock(now func() time.Duration) Option {
	return func(p *Page) {
		p.tree.now = now
	}
}

// NewPage adopts body and its descendants. Elements are labelled by their
// first class, with a "#n" suffix for repeated labels.
func NewPage(body *Element, opts ...Option) *Page {
	p := &Page{
		tree: &tree{journal: &Journal{}},
		body: body,
	}
	for _, opt := range opts {
		opt(p)
	}

	seen := make(map[string]int)
	var adopt func(e *Element)
	adopt = func(e *Element) {
		e.tree = p.tree
		if e.styles == nil {
			e.styles = make(map[string]string)
		}
		label := "span"
		if len(e.flags) > 0 {
			label = e.flags[0]
		}
		seen[label]++
		if seen[label] > 1 {
			label = fmt.Sprintf("%s#%d", label, seen[label])
		}
		e.id = label
		for _, c := range e.children {
			adopt(c)
		}
	}
	adopt(body)
	return p
}

// Journal returns the record of style writes.
func (p *Page) Journal() *Journal {
	return p.tree.journal
}

// Body returns the root element.
func (p *Page) Body() *Element {
	return p.body
}

func (p *Page) Root() ports.FlagSet {
	return p.body
}

func (p *Page) Find(class string) ports.Element {
	if found := p.FindAll(class); len(found) > 0 {
		return found[0]
	}
	return nil
}

func (p *Page) FindAll(class string) []ports.Element {
	p.tree.mu.Lock()
	defer p.tree.mu.Unlock()

	var out []ports.Element
	var walk func(e *Element)
	walk = func(e *Element) {
		if e.hasFlag(class) {
			out = append(out, e)
		}
		for _, c := range e.children {
			walk(c)
		}
	}
	walk(p.body)
	return out
}

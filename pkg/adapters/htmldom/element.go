package htmldom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aretw0/reveal/pkg/ports"
)

// Element wraps one element node of a Document.
type Element struct {
	node *html.Node
}

var _ ports.Element = (*Element)(nil)

func (e *Element) AddFlag(flag string) {
	classes := strings.Fields(attr(e.node, "class"))
	for _, c := range classes {
		if c == flag {
			return
		}
	}
	setAttr(e.node, "class", strings.Join(append(classes, flag), " "))
}

func (e *Element) RemoveFlag(flag string) {
	classes := strings.Fields(attr(e.node, "class"))
	kept := classes[:0]
	for _, c := range classes {
		if c != flag {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		removeAttr(e.node, "class")
		return
	}
	setAttr(e.node, "class", strings.Join(kept, " "))
}

func (e *Element) HasFlag(flag string) bool {
	return hasClass(e.node, flag)
}

// Children returns the child elements, leaving out units created by Split.
func (e *Element) Children() []ports.Element {
	var out []ports.Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && !hasAttr(c, UnitAttr) {
			out = append(out, &Element{node: c})
		}
	}
	return out
}

func (e *Element) Text() string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(e.node)
	return sb.String()
}

// Split replaces the content of the element with one span per part.
func (e *Element) Split(parts []string) []ports.Element {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}

	out := make([]ports.Element, len(parts))
	for i, part := range parts {
		span := &html.Node{
			Type:     html.ElementNode,
			Data:     "span",
			DataAtom: atom.Span,
			Attr:     []html.Attribute{{Key: UnitAttr, Val: ""}},
		}
		span.AppendChild(&html.Node{Type: html.TextNode, Data: part})
		e.node.AppendChild(span)
		out[i] = &Element{node: span}
	}
	return out
}

func (e *Element) Units() []ports.Element {
	var out []ports.Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasAttr(c, UnitAttr) {
			out = append(out, &Element{node: c})
		}
	}
	return out
}

func (e *Element) SetStyle(property, value string) {
	decls := parseStyle(attr(e.node, "style"))
	for i := range decls {
		if decls[i].property == property {
			decls[i].value = value
			setAttr(e.node, "style", formatStyle(decls))
			return
		}
	}
	setAttr(e.node, "style", formatStyle(append(decls, declaration{property, value})))
}

func (e *Element) Style(property string) string {
	for _, d := range parseStyle(attr(e.node, "style")) {
		if d.property == property {
			return d.value
		}
	}
	return ""
}

type declaration struct {
	property string
	value    string
}

// parseStyle splits an inline style attribute into ordered declarations.
func parseStyle(style string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(style, ";") {
		property, value, ok := strings.Cut(part, ":")
		property = strings.TrimSpace(property)
		if !ok || property == "" {
			continue
		}
		decls = append(decls, declaration{property: property, value: strings.TrimSpace(value)})
	}
	return decls
}

func formatStyle(decls []declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.property + ": " + d.value
	}
	return strings.Join(parts, "; ")
}

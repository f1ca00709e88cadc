// Package htmldom implements the page ports on a parsed HTML document.
package htmldom

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aretw0/reveal/pkg/ports"
)

// UnitAttr marks the spans created by Split.
const UnitAttr = "data-reveal-unit"

// Document is an HTML page whose body carries the scene flags.
type Document struct {
	root *html.Node
	body *html.Node
}

var (
	_ ports.Page     = (*Document)(nil)
	_ ports.Renderer = (*Document)(nil)
)

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &Document{root: root, body: root}
	if body := findFirst(root, func(n *html.Node) bool { return n.DataAtom == atom.Body }); body != nil {
		doc.body = body
	}
	return doc, nil
}

// Open parses the HTML file at path.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Render writes the current markup, including every flag and inline style written so far.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Root returns the body element.
func (d *Document) Root() ports.FlagSet {
	return &Element{node: d.body}
}

// Find returns the first element carrying class, or nil.
func (d *Document) Find(class string) ports.Element {
	n := findFirst(d.body, func(n *html.Node) bool { return hasClass(n, class) })
	if n == nil {
		return nil
	}
	return &Element{node: n}
}

// FindAll returns every element carrying class in document order.
func (d *Document) FindAll(class string) []ports.Element {
	var out []ports.Element
	walk(d.body, func(n *html.Node) bool {
		if hasClass(n, class) {
			out = append(out, &Element{node: n})
		}
		return false
	})
	return out
}

// walk visits element nodes depth first until visit returns true.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && visit(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if walk(c, visit) {
			return true
		}
	}
	return false
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(n, func(n *html.Node) bool {
		if match(n) {
			found = n
			return true
		}
		return false
	})
	return found
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

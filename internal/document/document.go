package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EmptyPage is the markup of a document with nothing in its body.
const EmptyPage = "<!DOCTYPE html><html><head></head><body></body></html>"

// Document is a parsed HTML document plus per-node property state.
type Document struct {
	root  *html.Node
	props map[*html.Node]map[string]any
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("document: parse: %w", err)
	}
	return &Document{
		root:  root,
		props: make(map[*html.Node]map[string]any),
	}, nil
}

// ParseString parses markup as a full HTML document.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Empty returns a document with an empty body.
func Empty() *Document {
	d, err := ParseString(EmptyPage)
	if err != nil {
		panic(err)
	}
	return d
}

func compile(selector string) (cascadia.SelectorGroup, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, &SelectorError{Selector: selector, Err: err}
	}
	return sel, nil
}

// Select returns every element matching selector, in document order.
func (d *Document) Select(selector string) (Selection, error) {
	sel, err := compile(selector)
	if err != nil {
		return Selection{doc: d}, err
	}
	return Selection{doc: d, nodes: cascadia.QueryAll(d.root, sel)}, nil
}

// MustSelect is Select for selectors known to be valid.
func (d *Document) MustSelect(selector string) Selection {
	s, err := d.Select(selector)
	if err != nil {
		panic(err)
	}
	return s
}

// Body returns the body element.
func (d *Document) Body() Selection {
	var body *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return false
		}
		return true
	})
	if body == nil {
		return Selection{doc: d}
	}
	return Selection{doc: d, nodes: []*html.Node{body}}
}

// Wrap returns a selection of the given nodes. Nodes are not checked for
// membership in d.
func (d *Document) Wrap(nodes ...*html.Node) Selection {
	return Selection{doc: d, nodes: nodes}
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document. Render errors yield the empty string.
func (d *Document) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

// prop returns the side-table property of n.
func (d *Document) prop(n *html.Node, name string) (any, bool) {
	v, ok := d.props[n][name]
	return v, ok
}

func (d *Document) setProp(n *html.Node, name string, value any) {
	m := d.props[n]
	if m == nil {
		m = make(map[string]any)
		d.props[n] = m
	}
	m[name] = value
}

func (d *Document) removeProp(n *html.Node, name string) {
	if m := d.props[n]; m != nil {
		delete(m, name)
		if len(m) == 0 {
			delete(d.props, n)
		}
	}
}

// forget drops side-table state for n and its descendants.
func (d *Document) forget(n *html.Node) {
	walk(n, func(c *html.Node) bool {
		delete(d.props, c)
		return true
	})
}

// walk visits n and its descendants in document order until fn returns
// false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

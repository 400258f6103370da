package document

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Selection is an ordered set of elements of one document. The zero value
// is an empty selection; mutations on it are no-ops.
type Selection struct {
	doc   *Document
	nodes []*html.Node
}

// Len returns the number of selected elements.
func (s Selection) Len() int {
	return len(s.nodes)
}

// IsEmpty returns true if nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.nodes) == 0
}

// Document returns the owning document.
func (s Selection) Document() *Document {
	return s.doc
}

// Nodes returns the selected nodes.
func (s Selection) Nodes() []*html.Node {
	return s.nodes
}

// Eq returns the i-th element, or an empty selection.
func (s Selection) Eq(i int) Selection {
	if i < 0 || i >= len(s.nodes) {
		return Selection{doc: s.doc}
	}
	return Selection{doc: s.doc, nodes: []*html.Node{s.nodes[i]}}
}

// Each calls fn with each element as a single-element selection.
func (s Selection) Each(fn func(i int, el Selection)) {
	for i, n := range s.nodes {
		fn(i, Selection{doc: s.doc, nodes: []*html.Node{n}})
	}
}

// Find returns descendants of the selection matching selector.
func (s Selection) Find(selector string) (Selection, error) {
	sel, err := compile(selector)
	if err != nil {
		return Selection{doc: s.doc}, err
	}
	var out []*html.Node
	for _, n := range s.nodes {
		out = append(out, cascadia.QueryAll(n, sel)...)
	}
	return Selection{doc: s.doc, nodes: unique(out)}, nil
}

// Is reports whether any selected element matches selector.
func (s Selection) Is(selector string) bool {
	sel, err := compile(selector)
	if err != nil {
		return false
	}
	for _, n := range s.nodes {
		if sel.Match(n) {
			return true
		}
	}
	return false
}

// Closest returns, for each element, the element itself or its nearest
// ancestor matching selector.
func (s Selection) Closest(selector string) (Selection, error) {
	sel, err := compile(selector)
	if err != nil {
		return Selection{doc: s.doc}, err
	}
	var out []*html.Node
	for _, n := range s.nodes {
		for p := n; p != nil; p = p.Parent {
			if p.Type == html.ElementNode && sel.Match(p) {
				out = append(out, p)
				break
			}
		}
	}
	return Selection{doc: s.doc, nodes: unique(out)}, nil
}

// Parent returns the element parents of the selection.
func (s Selection) Parent() Selection {
	var out []*html.Node
	for _, n := range s.nodes {
		if n.Parent != nil && n.Parent.Type == html.ElementNode {
			out = append(out, n.Parent)
		}
	}
	return Selection{doc: s.doc, nodes: unique(out)}
}

// Children returns the element children of the selection.
func (s Selection) Children() Selection {
	var out []*html.Node
	for _, n := range s.nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				out = append(out, c)
			}
		}
	}
	return Selection{doc: s.doc, nodes: out}
}

// Siblings returns the element siblings of each selected element.
func (s Selection) Siblings() Selection {
	var out []*html.Node
	for _, n := range s.nodes {
		if n.Parent == nil {
			continue
		}
		for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
			if c != n && c.Type == html.ElementNode {
				out = append(out, c)
			}
		}
	}
	return Selection{doc: s.doc, nodes: unique(out)}
}

// Attr returns an attribute of the first element.
func (s Selection) Attr(name string) (string, bool) {
	if len(s.nodes) == 0 {
		return "", false
	}
	return getAttr(s.nodes[0], name)
}

// AttrOr returns an attribute of the first element, or def when absent.
func (s Selection) AttrOr(name, def string) string {
	if v, ok := s.Attr(name); ok {
		return v
	}
	return def
}

// HasClass reports whether any selected element has the class.
func (s Selection) HasClass(name string) bool {
	for _, n := range s.nodes {
		for _, c := range classList(n) {
			if c == name {
				return true
			}
		}
	}
	return false
}

// Text returns the combined text content of the selection.
func (s Selection) Text() string {
	var b strings.Builder
	for _, n := range s.nodes {
		walk(n, func(c *html.Node) bool {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
			return true
		})
	}
	return b.String()
}

// HTML returns the inner markup of the first element.
func (s Selection) HTML() (string, error) {
	if len(s.nodes) == 0 {
		return "", nil
	}
	var b strings.Builder
	for c := s.nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// OuterHTML returns the markup of the first element.
func (s Selection) OuterHTML() (string, error) {
	if len(s.nodes) == 0 {
		return "", nil
	}
	var b strings.Builder
	if err := html.Render(&b, s.nodes[0]); err != nil {
		return "", err
	}
	return b.String(), nil
}

// IsAttached reports whether the first element is still in the document.
func (s Selection) IsAttached() bool {
	if len(s.nodes) == 0 || s.doc == nil {
		return false
	}
	for p := s.nodes[0]; p != nil; p = p.Parent {
		if p == s.doc.root {
			return true
		}
	}
	return false
}

func unique(nodes []*html.Node) []*html.Node {
	if len(nodes) < 2 {
		return nodes
	}
	seen := make(map[*html.Node]struct{}, len(nodes))
	out := nodes[:0:0]
	for _, n := range nodes {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func getAttr(n *html.Node, name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, name, value string) {
	name = strings.ToLower(name)
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	name = strings.ToLower(name)
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func classList(n *html.Node) []string {
	v, _ := getAttr(n, "class")
	return strings.Fields(v)
}

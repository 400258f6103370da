package document

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// fragment parses markup as the content of context.
func fragment(markup string, context *html.Node) ([]*html.Node, error) {
	if context == nil || context.Type != html.ElementNode {
		context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("document: parse fragment: %w", err)
	}
	return nodes, nil
}

// After inserts markup after every element. Elements without a parent are
// skipped.
func (s Selection) After(markup string) error {
	for _, n := range s.nodes {
		if n.Parent == nil {
			continue
		}
		nodes, err := fragment(markup, n.Parent)
		if err != nil {
			return err
		}
		next := n.NextSibling
		for _, c := range nodes {
			n.Parent.InsertBefore(c, next)
		}
	}
	return nil
}

// Before inserts markup before every element.
func (s Selection) Before(markup string) error {
	for _, n := range s.nodes {
		if n.Parent == nil {
			continue
		}
		nodes, err := fragment(markup, n.Parent)
		if err != nil {
			return err
		}
		for _, c := range nodes {
			n.Parent.InsertBefore(c, n)
		}
	}
	return nil
}

// Append inserts markup as the last children of every element.
func (s Selection) Append(markup string) error {
	for _, n := range s.nodes {
		nodes, err := fragment(markup, n)
		if err != nil {
			return err
		}
		for _, c := range nodes {
			n.AppendChild(c)
		}
	}
	return nil
}

// Prepend inserts markup as the first children of every element.
func (s Selection) Prepend(markup string) error {
	for _, n := range s.nodes {
		nodes, err := fragment(markup, n)
		if err != nil {
			return err
		}
		first := n.FirstChild
		for _, c := range nodes {
			n.InsertBefore(c, first)
		}
	}
	return nil
}

// ReplaceWith replaces every element with markup.
func (s Selection) ReplaceWith(markup string) error {
	for _, n := range s.nodes {
		if n.Parent == nil {
			continue
		}
		nodes, err := fragment(markup, n.Parent)
		if err != nil {
			return err
		}
		parent := n.Parent
		for _, c := range nodes {
			parent.InsertBefore(c, n)
		}
		parent.RemoveChild(n)
		s.doc.forget(n)
	}
	return nil
}

// SetHTML replaces the content of every element with markup.
func (s Selection) SetHTML(markup string) error {
	for _, n := range s.nodes {
		nodes, err := fragment(markup, n)
		if err != nil {
			return err
		}
		s.clear(n)
		for _, c := range nodes {
			n.AppendChild(c)
		}
	}
	return nil
}

// SetText replaces the content of every element with a text node.
func (s Selection) SetText(text string) Selection {
	for _, n := range s.nodes {
		s.clear(n)
		if text != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		}
	}
	return s
}

// Empty removes all children of every element.
func (s Selection) Empty() Selection {
	for _, n := range s.nodes {
		s.clear(n)
	}
	return s
}

// Detach takes every element out of the document and returns them. Their
// properties are kept, so a detached selection can be inspected later.
func (s Selection) Detach() Selection {
	for _, n := range s.nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	return s
}

// Remove takes every element out of the document and drops its
// properties.
func (s Selection) Remove() {
	for _, n := range s.nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		s.doc.forget(n)
	}
}

// Fade hides every element, swaps in markup as its content, then shows it
// again.
func (s Selection) Fade(markup string) error {
	s.Hide()
	if err := s.SetHTML(markup); err != nil {
		return err
	}
	s.Show()
	return nil
}

func (s Selection) clear(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		s.doc.forget(c)
		c = next
	}
}

// CreateElement returns a new detached element.
func (d *Document) CreateElement(tag string) Selection {
	tag = strings.ToLower(tag)
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	return Selection{doc: d, nodes: []*html.Node{n}}
}

// AppendTo moves every element to the end of the first element of parent.
func (s Selection) AppendTo(parent Selection) Selection {
	if len(parent.nodes) == 0 {
		return s
	}
	p := parent.nodes[0]
	for _, n := range s.nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		p.AppendChild(n)
	}
	return s
}

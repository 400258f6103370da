package document

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// unsubmitted input types never contribute to a serialized form.
var unsubmitted = map[string]bool{
	"button": true,
	"file":   true,
	"image":  true,
	"reset":  true,
	"submit": true,
}

// Serialize encodes the successful controls of the selected forms (or the
// selected controls themselves) as application/x-www-form-urlencoded, in
// document order.
func (s Selection) Serialize() string {
	var pairs []string
	for _, n := range s.nodes {
		if n.DataAtom == atom.Form {
			walk(n, func(c *html.Node) bool {
				if c != n && isControl(c) {
					pairs = s.appendControl(pairs, c)
				}
				return true
			})
			continue
		}
		if isControl(n) {
			pairs = s.appendControl(pairs, n)
		}
	}
	return strings.Join(pairs, "&")
}

func isControl(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Input, atom.Select, atom.Textarea:
		return true
	}
	return false
}

func (s Selection) appendControl(pairs []string, n *html.Node) []string {
	name, ok := getAttr(n, "name")
	if !ok || name == "" {
		return pairs
	}
	if _, disabled := getAttr(n, "disabled"); disabled {
		return pairs
	}

	switch n.DataAtom {
	case atom.Input:
		typ, _ := getAttr(n, "type")
		typ = strings.ToLower(typ)
		if unsubmitted[typ] {
			return pairs
		}
		if typ == "checkbox" || typ == "radio" {
			if _, checked := getAttr(n, "checked"); !checked {
				return pairs
			}
			v, ok := getAttr(n, "value")
			if !ok {
				v = "on"
			}
			return append(pairs, encodePair(name, v))
		}
		return append(pairs, encodePair(name, s.controlValue(n)))

	case atom.Textarea:
		v := s.controlValue(n)
		return append(pairs, encodePair(name, v))

	case atom.Select:
		_, multiple := getAttr(n, "multiple")
		var options, selected []*html.Node
		walk(n, func(c *html.Node) bool {
			if c.Type == html.ElementNode && c.DataAtom == atom.Option {
				options = append(options, c)
				if _, ok := getAttr(c, "selected"); ok {
					selected = append(selected, c)
				}
			}
			return true
		})
		if len(selected) == 0 && !multiple && len(options) > 0 {
			selected = options[:1]
		}
		if !multiple && len(selected) > 1 {
			selected = selected[len(selected)-1:]
		}
		for _, o := range selected {
			if _, disabled := getAttr(o, "disabled"); disabled {
				continue
			}
			pairs = append(pairs, encodePair(name, optionValue(o)))
		}
	}
	return pairs
}

// controlValue prefers a value property set on the node over its markup.
func (s Selection) controlValue(n *html.Node) string {
	if v, ok := s.doc.prop(n, "value"); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	if n.DataAtom == atom.Textarea {
		return Selection{doc: s.doc, nodes: []*html.Node{n}}.Text()
	}
	v, _ := getAttr(n, "value")
	return v
}

func optionValue(o *html.Node) string {
	if v, ok := getAttr(o, "value"); ok {
		return v
	}
	text := Selection{nodes: []*html.Node{o}}.Text()
	return strings.Join(strings.Fields(text), " ")
}

var newlines = strings.NewReplacer("\r\n", "\r\n", "\n", "\r\n")

func encodePair(name, value string) string {
	return url.QueryEscape(name) + "=" + url.QueryEscape(newlines.Replace(value))
}

package document

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// AddClass adds each space-separated class name to every element.
func (s Selection) AddClass(names string) Selection {
	add := strings.Fields(names)
	for _, n := range s.nodes {
		classes := classList(n)
		for _, name := range add {
			if !contains(classes, name) {
				classes = append(classes, name)
			}
		}
		setClasses(n, classes)
	}
	return s
}

// RemoveClass removes each space-separated class name from every element.
func (s Selection) RemoveClass(names string) Selection {
	drop := strings.Fields(names)
	for _, n := range s.nodes {
		classes := classList(n)
		kept := classes[:0]
		for _, c := range classes {
			if !contains(drop, c) {
				kept = append(kept, c)
			}
		}
		setClasses(n, kept)
	}
	return s
}

// ClearClasses removes every class from every element.
func (s Selection) ClearClasses() Selection {
	for _, n := range s.nodes {
		setClasses(n, nil)
	}
	return s
}

// ToggleClass flips each space-separated class name on every element.
func (s Selection) ToggleClass(names string) Selection {
	toggle := strings.Fields(names)
	for _, n := range s.nodes {
		classes := classList(n)
		for _, name := range toggle {
			if i := indexOf(classes, name); i >= 0 {
				classes = append(classes[:i], classes[i+1:]...)
			} else {
				classes = append(classes, name)
			}
		}
		setClasses(n, classes)
	}
	return s
}

func setClasses(n *html.Node, classes []string) {
	if len(classes) == 0 {
		if _, ok := getAttr(n, "class"); ok {
			setAttr(n, "class", "")
		}
		return
	}
	setAttr(n, "class", strings.Join(classes, " "))
}

// SetAttr sets an attribute on every element.
func (s Selection) SetAttr(name, value string) Selection {
	for _, n := range s.nodes {
		setAttr(n, name, value)
	}
	return s
}

// RemoveAttr removes an attribute from every element.
func (s Selection) RemoveAttr(name string) Selection {
	for _, n := range s.nodes {
		removeAttr(n, name)
	}
	return s
}

// CSS returns an inline style property of the first element.
func (s Selection) CSS(name string) string {
	if len(s.nodes) == 0 {
		return ""
	}
	style, _ := getAttr(s.nodes[0], "style")
	name = cssName(name)
	for _, d := range parseStyle(style) {
		if d.name == name {
			return d.value
		}
	}
	return ""
}

// SetCSS sets an inline style property on every element. An empty value
// removes the property. Camel-case names are accepted.
func (s Selection) SetCSS(name, value string) Selection {
	name = cssName(name)
	value = strings.TrimSpace(value)
	for _, n := range s.nodes {
		style, _ := getAttr(n, "style")
		decls := parseStyle(style)
		i := -1
		for j, d := range decls {
			if d.name == name {
				i = j
				break
			}
		}
		switch {
		case value == "" && i >= 0:
			decls = append(decls[:i], decls[i+1:]...)
		case value == "":
		case i >= 0:
			decls[i].value = value
		default:
			decls = append(decls, declaration{name: name, value: value})
		}
		if len(decls) == 0 {
			removeAttr(n, "style")
			continue
		}
		setAttr(n, "style", formatStyle(decls))
	}
	return s
}

// reflected lists boolean properties that are mirrored by an attribute.
var reflected = map[string]bool{
	"checked":  true,
	"disabled": true,
	"hidden":   true,
	"multiple": true,
	"readonly": true,
	"required": true,
	"selected": true,
}

// Prop returns a property of the first element. Reflected boolean
// properties are read from their attribute.
func (s Selection) Prop(name string) (any, bool) {
	if len(s.nodes) == 0 {
		return nil, false
	}
	n := s.nodes[0]
	if lname := strings.ToLower(name); reflected[lname] {
		_, ok := getAttr(n, lname)
		return ok, true
	}
	return s.doc.prop(n, name)
}

// SetProp sets a property on every element. Reflected boolean properties
// add or remove their attribute according to the value's truthiness; other
// properties live in the document's side table.
func (s Selection) SetProp(name string, value any) Selection {
	lname := strings.ToLower(name)
	for _, n := range s.nodes {
		if reflected[lname] {
			if truthy(value) {
				setAttr(n, lname, lname)
			} else {
				removeAttr(n, lname)
			}
			continue
		}
		s.doc.setProp(n, name, value)
	}
	return s
}

// RemoveProp removes a property from every element.
func (s Selection) RemoveProp(name string) Selection {
	lname := strings.ToLower(name)
	for _, n := range s.nodes {
		if reflected[lname] {
			removeAttr(n, lname)
			continue
		}
		s.doc.removeProp(n, name)
	}
	return s
}

// Hide sets display:none on every element.
func (s Selection) Hide() Selection {
	return s.SetCSS("display", "none")
}

// Show clears an inline display:none on every element.
func (s Selection) Show() Selection {
	for _, n := range s.nodes {
		el := Selection{doc: s.doc, nodes: []*html.Node{n}}
		if el.CSS("display") == "none" {
			el.SetCSS("display", "")
		}
	}
	return s
}

// IsHidden reports whether the first element has an inline display:none.
func (s Selection) IsHidden() bool {
	return s.CSS("display") == "none"
}

// SetHeight sets the CSS height. Unitless numbers are pixels.
func (s Selection) SetHeight(value string) Selection {
	return s.SetCSS("height", cssLength(value))
}

// SetWidth sets the CSS width. Unitless numbers are pixels.
func (s Selection) SetWidth(value string) Selection {
	return s.SetCSS("width", cssLength(value))
}

// Property names used for scroll state.
const (
	propScrollLeft = "scrollLeft"
	propScrollTop  = "scrollTop"
)

// SetScrollLeft records the horizontal scroll position of every element.
func (s Selection) SetScrollLeft(v float64) Selection {
	return s.SetProp(propScrollLeft, clampScroll(v))
}

// SetScrollTop records the vertical scroll position of every element.
func (s Selection) SetScrollTop(v float64) Selection {
	return s.SetProp(propScrollTop, clampScroll(v))
}

// ScrollLeft returns the horizontal scroll position of the first element.
func (s Selection) ScrollLeft() float64 {
	v, _ := s.Prop(propScrollLeft)
	f, _ := v.(float64)
	return f
}

// ScrollTop returns the vertical scroll position of the first element.
func (s Selection) ScrollTop() float64 {
	v, _ := s.Prop(propScrollTop)
	f, _ := v.(float64)
	return f
}

// SetOffset positions every element at top/left pixels. Statically
// positioned elements become relatively positioned. There is no layout, so
// coordinates are taken relative to the element's normal position.
func (s Selection) SetOffset(top, left float64) Selection {
	return s.SetOffsetTop(top).SetOffsetLeft(left)
}

// SetOffsetTop is SetOffset for the vertical coordinate only.
func (s Selection) SetOffsetTop(top float64) Selection {
	return s.offset("top", top)
}

// SetOffsetLeft is SetOffset for the horizontal coordinate only.
func (s Selection) SetOffsetLeft(left float64) Selection {
	return s.offset("left", left)
}

func (s Selection) offset(side string, v float64) Selection {
	for _, n := range s.nodes {
		el := Selection{doc: s.doc, nodes: []*html.Node{n}}
		if pos := el.CSS("position"); pos == "" || pos == "static" {
			el.SetCSS("position", "relative")
		}
		el.SetCSS(side, formatPx(v))
	}
	return s
}

func clampScroll(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func cssLength(v string) string {
	v = strings.TrimSpace(v)
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return formatPx(f)
	}
	return v
}

func formatPx(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64) + "px"
}

// truthy follows script truthiness for decoded JSON values.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}

func contains(list []string, s string) bool {
	return indexOf(list, s) >= 0
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

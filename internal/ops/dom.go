package ops

import (
	"context"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dshills/actionwire/internal/document"
	"github.com/dshills/actionwire/internal/op"
)

// unitless CSS properties take bare numbers.
var unitless = map[string]bool{
	"column-count": true,
	"fill-opacity": true,
	"flex-grow":    true,
	"flex-shrink":  true,
	"font-weight":  true,
	"line-height":  true,
	"opacity":      true,
	"order":        true,
	"orphans":      true,
	"widows":       true,
	"z-index":      true,
	"zoom":         true,
}

func (h *handlers) markup(apply func(document.Selection, string) error) func(context.Context, op.Record) error {
	return func(_ context.Context, rec op.Record) error {
		sel, err := h.target(rec)
		if err != nil {
			return err
		}
		return apply(sel, rec.String("value"))
	}
}

func (h *handlers) text(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	sel.SetText(rec.String("value"))
	return nil
}

func (h *handlers) addClass(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	sel.AddClass(rec.String("value"))
	return nil
}

// dom-remove-class names the classes in "name". Without a name every class
// is removed.
func (h *handlers) removeClass(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	if name, ok := field(rec, "name"); ok {
		sel.RemoveClass(name.String())
	} else {
		sel.ClearClasses()
	}
	return nil
}

func (h *handlers) toggleClass(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	sel.ToggleClass(rec.String("value"))
	return nil
}

// forEachSetting calls fn with name/value, or with each entry of
// properties when name is absent.
func forEachSetting(rec op.Record, fn func(name string, value gjson.Result)) {
	if name := rec.String("name"); name != "" {
		fn(name, rec.Get("value"))
		return
	}
	for _, f := range rec.Fields("properties") {
		fn(f.Key, f.Value)
	}
}

func (h *handlers) setAttr(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	forEachSetting(rec, func(name string, value gjson.Result) {
		switch {
		case !value.Exists():
		case value.Type == gjson.Null:
			sel.RemoveAttr(name)
		default:
			sel.SetAttr(name, value.String())
		}
	})
	return nil
}

func (h *handlers) removeAttr(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	for _, name := range strings.Fields(rec.String("name")) {
		sel.RemoveAttr(name)
	}
	return nil
}

func (h *handlers) setCSS(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	forEachSetting(rec, func(name string, value gjson.Result) {
		if !value.Exists() {
			return
		}
		sel.SetCSS(name, cssValue(name, value))
	})
	return nil
}

// cssValue renders a record value for a CSS property, adding px to bare
// numbers where the property has a unit.
func cssValue(name string, value gjson.Result) string {
	if value.Type != gjson.Number {
		return value.String()
	}
	s := strconv.FormatFloat(value.Float(), 'f', -1, 64)
	prop := strings.ToLower(name)
	if unitless[prop] || unitless[hyphenate(name)] {
		return s
	}
	return s + "px"
}

func hyphenate(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (h *handlers) setProp(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	forEachSetting(rec, func(name string, value gjson.Result) {
		sel.SetProp(name, value.Value())
	})
	return nil
}

func (h *handlers) removeProp(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	sel.RemoveProp(rec.String("name"))
	return nil
}

func (h *handlers) detach(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	sel.Detach()
	return nil
}

func (h *handlers) removeElement(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	sel.Remove()
	return nil
}

func (h *handlers) makeEmpty(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	sel.Empty()
	return nil
}

// dimension reads "value", falling back to the named legacy field.
// field returns a top-level field that is present and not null.
func field(rec op.Record, name string) (gjson.Result, bool) {
	v := rec.Get(name)
	if !v.Exists() || v.Type == gjson.Null {
		return gjson.Result{}, false
	}
	return v, true
}

func dimension(rec op.Record, legacy string) (string, bool) {
	v := rec.Get("value")
	if !v.Exists() {
		v = rec.Get(legacy)
	}
	if !v.Exists() || v.Type == gjson.Null {
		return "", false
	}
	return v.String(), true
}

func (h *handlers) setHeight(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	if v, ok := dimension(rec, "height"); ok {
		sel.SetHeight(v)
	}
	return nil
}

func (h *handlers) setWidth(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	if v, ok := dimension(rec, "width"); ok {
		sel.SetWidth(v)
	}
	return nil
}

func (h *handlers) setScrollLeft(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	if v, ok := field(rec, "value"); ok {
		sel.SetScrollLeft(v.Float())
	}
	return nil
}

func (h *handlers) setScrollTop(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	if v, ok := field(rec, "value"); ok {
		sel.SetScrollTop(v.Float())
	}
	return nil
}

func (h *handlers) setOffset(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	coords, ok := field(rec, "coordinates")
	if !ok {
		return nil
	}
	if top := coords.Get("top"); top.Exists() && top.Type != gjson.Null {
		sel.SetOffsetTop(top.Float())
	}
	if left := coords.Get("left"); left.Exists() && left.Type != gjson.Null {
		sel.SetOffsetLeft(left.Float())
	}
	return nil
}

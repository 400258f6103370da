package ops

import (
	"context"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dshills/actionwire/internal/document"
	"github.com/dshills/actionwire/internal/op"
)

// ModalID returns the element id of the modal with the given key.
func ModalID(key string) string {
	return "modal-" + key
}

func (h *handlers) modalSelection(key string) (document.Selection, error) {
	return h.Document.Select("[id=" + strconv.Quote(ModalID(key)) + "]")
}

// modal {id, value, style?, options?} replaces the modal keyed by id with a
// new div.modal appended to the body.
func (h *handlers) modal(_ context.Context, rec op.Record) error {
	if h.Document == nil {
		return ErrNoDocument
	}
	key := rec.Get("id").String()
	existing, err := h.modalSelection(key)
	if err != nil {
		return err
	}
	hideModal(existing)
	existing.Remove()

	el := h.Document.CreateElement("div").AppendTo(h.Document.Body())
	el.AddClass("modal").SetAttr("id", ModalID(key))
	if style := rec.String("style"); style != "" {
		el.SetAttr("style", style)
	}

	show := true
	options := rec.Get("options")
	switch {
	case options.IsObject():
		options.ForEach(func(k, v gjson.Result) bool {
			if k.String() == "show" {
				show = v.Bool()
				return true
			}
			el.SetAttr("data-"+hyphenate(k.String()), v.String())
			return true
		})
	case options.Type == gjson.String:
		show = options.String() != "hide"
	}
	if show {
		showModal(el)
	} else {
		hideModal(el)
	}

	return el.Prepend(rec.String("value"))
}

// remove-modal {id}
func (h *handlers) removeModal(_ context.Context, rec op.Record) error {
	if h.Document == nil {
		return ErrNoDocument
	}
	existing, err := h.modalSelection(rec.Get("id").String())
	if err != nil {
		return err
	}
	hideModal(existing)
	existing.Remove()
	return nil
}

func showModal(sel document.Selection) {
	sel.AddClass("in").SetCSS("display", "block").SetAttr("aria-hidden", "false")
}

func hideModal(sel document.Selection) {
	sel.RemoveClass("in").Hide().SetAttr("aria-hidden", "true")
}

// tab-show {id} activates the tab link selected by id and its pane.
func (h *handlers) tabShow(_ context.Context, rec op.Record) error {
	sel, err := h.target(rec)
	if err != nil {
		return err
	}
	var firstErr error
	sel.Each(func(_ int, tab document.Selection) {
		if err := h.activateTab(tab); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	return firstErr
}

func (h *handlers) activateTab(tab document.Selection) error {
	li, err := tab.Closest("li")
	if err != nil {
		return err
	}
	if li.IsEmpty() {
		li = tab
	}
	li.Siblings().RemoveClass("active")
	li.AddClass("active")

	target := paneSelector(tab)
	if target == "" {
		return nil
	}
	pane, err := h.Document.Select(target)
	if err != nil {
		return err
	}
	pane.Siblings().RemoveClass("active in")
	pane.AddClass("active in")
	return nil
}

// paneSelector returns data-target, or the fragment of href.
func paneSelector(tab document.Selection) string {
	if target, ok := tab.Attr("data-target"); ok && target != "" {
		return target
	}
	href := tab.AttrOr("href", "")
	i := strings.LastIndex(href, "#")
	if i < 0 || i == len(href)-1 {
		return ""
	}
	return href[i:]
}

// Package trigger marks the controls that started a request as busy and
// returns them to idle.
//
// Both operations are idempotent and never fail: an empty selection is a
// no-op, a busy element marked busy again keeps its saved state.
package trigger

import (
	"strings"

	"github.com/dshills/actionwire/internal/document"
)

// Style selects how a busy control looks.
type Style uint8

const (
	// StylePlain only toggles the disabled attribute.
	StylePlain Style = iota

	// StyleLoading also adds the "disabled" class and swaps the control's
	// label for a loading text until it is idle again.
	StyleLoading
)

// String returns the style's configuration name.
func (s Style) String() string {
	if s == StyleLoading {
		return "loading"
	}
	return "plain"
}

// ParseStyle parses "plain" or "loading". Anything else is StyleLoading.
func ParseStyle(s string) Style {
	if strings.EqualFold(strings.TrimSpace(s), "plain") {
		return StylePlain
	}
	return StyleLoading
}

// DefaultLoadingText labels a busy control that has no data-loading-text.
const DefaultLoadingText = "Loading..."

const (
	attrDisabled    = "disabled"
	attrLoadingText = "data-loading-text"
	attrResetText   = "data-reset-text"
)

// Affordance marks controls busy and idle.
type Affordance struct {
	Style       Style
	LoadingText string
}

// Default returns the loading-style affordance.
func Default() Affordance {
	return Affordance{Style: StyleLoading, LoadingText: DefaultLoadingText}
}

// MarkBusy disables every control in sel.
func (a Affordance) MarkBusy(sel document.Selection) {
	sel.Each(func(_ int, el document.Selection) {
		el.SetAttr(attrDisabled, attrDisabled)
		if a.Style != StyleLoading {
			return
		}
		el.AddClass(attrDisabled)
		if _, saved := el.Attr(attrResetText); saved {
			return
		}
		el.SetAttr(attrResetText, label(el))
		setLabel(el, el.AttrOr(attrLoadingText, a.loadingText()), false)
	})
}

// MarkIdle re-enables every control in sel and restores its label.
func (a Affordance) MarkIdle(sel document.Selection) {
	sel.Each(func(_ int, el document.Selection) {
		el.RemoveAttr(attrDisabled)
		if a.Style != StyleLoading {
			return
		}
		el.RemoveClass(attrDisabled)
		if saved, ok := el.Attr(attrResetText); ok {
			setLabel(el, saved, true)
			el.RemoveAttr(attrResetText)
		}
	})
}

// IsBusy reports whether the first control in sel is disabled.
func IsBusy(sel document.Selection) bool {
	_, ok := sel.Attr(attrDisabled)
	return ok
}

func (a Affordance) loadingText() string {
	if a.LoadingText == "" {
		return DefaultLoadingText
	}
	return a.LoadingText
}

func isInput(el document.Selection) bool {
	return el.Is("input")
}

// label returns the control's current label: the value of an input, the
// inner markup of anything else.
func label(el document.Selection) string {
	if isInput(el) {
		return el.AttrOr("value", "")
	}
	markup, err := el.HTML()
	if err != nil {
		return el.Text()
	}
	return markup
}

func setLabel(el document.Selection, text string, markup bool) {
	if isInput(el) {
		el.SetAttr("value", text)
		return
	}
	if markup {
		if err := el.SetHTML(text); err == nil {
			return
		}
	}
	el.SetText(text)
}

var defaultAffordance = Default()

// MarkBusy disables sel with the loading style.
func MarkBusy(sel document.Selection) {
	defaultAffordance.MarkBusy(sel)
}

// MarkIdle restores sel from the loading style.
func MarkIdle(sel document.Selection) {
	defaultAffordance.MarkIdle(sel)
}

package ops

import (
	"context"

	"github.com/dshills/actionwire/internal/dispatcher"
	"github.com/dshills/actionwire/internal/document"
	"github.com/dshills/actionwire/internal/notify"
	"github.com/dshills/actionwire/internal/op"
)

// Navigator changes the page location.
type Navigator interface {
	Reload() error
	Navigate(url string) error
	OpenWindow(url, name, options string) error
}

// Dispatcher re-enters dispatch for handlers that expand into other
// operations.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec op.Record) error
}

// Deps are the collaborators built-in handlers act on. Handlers whose
// collaborator is nil fail with the matching Err* value.
type Deps struct {
	Document   *document.Document
	Notifier   notify.Notifier
	Navigator  Navigator
	Dispatcher Dispatcher
}

type handlers struct {
	Deps
}

// RegisterBuiltins registers the base and bootstrap sets.
func RegisterBuiltins(reg *dispatcher.Registry, deps Deps) {
	RegisterBase(reg, deps)
	RegisterBootstrap(reg, deps)
}

// RegisterBase registers notification, navigation, error and dom-*
// handlers.
func RegisterBase(reg *dispatcher.Registry, deps Deps) {
	h := &handlers{Deps: deps}
	for kind, fn := range map[op.Kind]dispatcher.HandlerFunc{
		op.KindNotification: h.notification,
		op.KindRefreshPage:  h.refreshPage,
		op.KindOpenPage:     h.openPage,
		op.KindOpenWindow:   h.openWindow,
		op.KindError:        h.reportError,

		op.KindDomAddClass:    h.addClass,
		op.KindDomRemoveClass: h.removeClass,
		op.KindDomToggleClass: h.toggleClass,

		op.KindDomAfter:       h.markup(document.Selection.After),
		op.KindDomBefore:      h.markup(document.Selection.Before),
		op.KindDomAppend:      h.markup(document.Selection.Append),
		op.KindDomPrepend:     h.markup(document.Selection.Prepend),
		op.KindDomReplaceWith: h.markup(document.Selection.ReplaceWith),
		op.KindDomHTML:        h.markup(document.Selection.SetHTML),
		op.KindDomFade:        h.markup(document.Selection.Fade),
		op.KindDomText:        h.text,

		op.KindDomSetAttr:    h.setAttr,
		op.KindDomRemoveAttr: h.removeAttr,
		op.KindDomSetCSS:     h.setCSS,
		op.KindDomSetProp:    h.setProp,
		op.KindDomRemoveProp: h.removeProp,

		op.KindDomDetach:        h.detach,
		op.KindDomRemoveElement: h.removeElement,
		op.KindDomMakeEmpty:     h.makeEmpty,

		op.KindDomSetHeight:     h.setHeight,
		op.KindDomSetWidth:      h.setWidth,
		op.KindDomSetScrollLeft: h.setScrollLeft,
		op.KindDomSetScrollTop:  h.setScrollTop,
		op.KindDomSetOffset:     h.setOffset,
	} {
		reg.Register(kind.TypeName(), fn)
	}
}

// RegisterBootstrap registers modal, remove-modal and tab-show.
func RegisterBootstrap(reg *dispatcher.Registry, deps Deps) {
	h := &handlers{Deps: deps}
	reg.RegisterFunc(op.KindModal.TypeName(), h.modal)
	reg.RegisterFunc(op.KindRemoveModal.TypeName(), h.removeModal)
	reg.RegisterFunc(op.KindTabShow.TypeName(), h.tabShow)
}

// target selects the elements named by the record's id. A missing id
// selects nothing.
func (h *handlers) target(rec op.Record) (document.Selection, error) {
	if h.Document == nil {
		return document.Selection{}, ErrNoDocument
	}
	selector := rec.String("id")
	if selector == "" {
		return document.Selection{}, nil
	}
	return h.Document.Select(selector)
}

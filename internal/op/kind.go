package op

// Built-in operation type names.
const (
	TypeNotification     = "notification"
	TypeRefreshPage      = "refresh-page"
	TypeOpenPage         = "open-page"
	TypeOpenWindow       = "open-window"
	TypeDomAddClass      = "dom-add-class"
	TypeDomRemoveClass   = "dom-remove-class"
	TypeDomToggleClass   = "dom-toggle-class"
	TypeDomAfter         = "dom-after"
	TypeDomBefore        = "dom-before"
	TypeDomAppend        = "dom-append"
	TypeDomPrepend       = "dom-prepend"
	TypeDomReplaceWith   = "dom-replace-with"
	TypeDomSetAttr       = "dom-set-attr"
	TypeDomRemoveAttr    = "dom-remove-attr"
	TypeDomSetCSS        = "dom-set-css"
	TypeDomSetProp       = "dom-set-prop"
	TypeDomRemoveProp    = "dom-remove-prop"
	TypeDomDetach        = "dom-detach"
	TypeDomRemoveElement = "dom-remove-element"
	TypeDomMakeEmpty     = "dom-make-empty"
	TypeDomHTML          = "dom-html"
	TypeDomText          = "dom-text"
	TypeDomSetHeight     = "dom-set-height"
	TypeDomSetWidth      = "dom-set-width"
	TypeDomSetScrollLeft = "dom-set-scroll-left"
	TypeDomSetScrollTop  = "dom-set-scroll-top"
	TypeDomSetOffset     = "dom-set-offset"
	TypeDomFade          = "dom-fade"
	TypeError            = "error"
	TypeModal            = "modal"
	TypeRemoveModal      = "remove-modal"
	TypeTabShow          = "tab-show"
)

// Kind classifies a record type against the built-in catalog.
// Any type name outside the catalog is KindCustom; it may still have a
// handler registered by a plug-in.
type Kind uint8

const (
	KindCustom Kind = iota
	KindNotification
	KindRefreshPage
	KindOpenPage
	KindOpenWindow
	KindDomAddClass
	KindDomRemoveClass
	KindDomToggleClass
	KindDomAfter
	KindDomBefore
	KindDomAppend
	KindDomPrepend
	KindDomReplaceWith
	KindDomSetAttr
	KindDomRemoveAttr
	KindDomSetCSS
	KindDomSetProp
	KindDomRemoveProp
	KindDomDetach
	KindDomRemoveElement
	KindDomMakeEmpty
	KindDomHTML
	KindDomText
	KindDomSetHeight
	KindDomSetWidth
	KindDomSetScrollLeft
	KindDomSetScrollTop
	KindDomSetOffset
	KindDomFade
	KindError
	KindModal
	KindRemoveModal
	KindTabShow
)

var kindTypes = [...]string{
	KindCustom:           "",
	KindNotification:     TypeNotification,
	KindRefreshPage:      TypeRefreshPage,
	KindOpenPage:         TypeOpenPage,
	KindOpenWindow:       TypeOpenWindow,
	KindDomAddClass:      TypeDomAddClass,
	KindDomRemoveClass:   TypeDomRemoveClass,
	KindDomToggleClass:   TypeDomToggleClass,
	KindDomAfter:         TypeDomAfter,
	KindDomBefore:        TypeDomBefore,
	KindDomAppend:        TypeDomAppend,
	KindDomPrepend:       TypeDomPrepend,
	KindDomReplaceWith:   TypeDomReplaceWith,
	KindDomSetAttr:       TypeDomSetAttr,
	KindDomRemoveAttr:    TypeDomRemoveAttr,
	KindDomSetCSS:        TypeDomSetCSS,
	KindDomSetProp:       TypeDomSetProp,
	KindDomRemoveProp:    TypeDomRemoveProp,
	KindDomDetach:        TypeDomDetach,
	KindDomRemoveElement: TypeDomRemoveElement,
	KindDomMakeEmpty:     TypeDomMakeEmpty,
	KindDomHTML:          TypeDomHTML,
	KindDomText:          TypeDomText,
	KindDomSetHeight:     TypeDomSetHeight,
	KindDomSetWidth:      TypeDomSetWidth,
	KindDomSetScrollLeft: TypeDomSetScrollLeft,
	KindDomSetScrollTop:  TypeDomSetScrollTop,
	KindDomSetOffset:     TypeDomSetOffset,
	KindDomFade:          TypeDomFade,
	KindError:            TypeError,
	KindModal:            TypeModal,
	KindRemoveModal:      TypeRemoveModal,
	KindTabShow:          TypeTabShow,
}

var typeKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTypes))
	for k, name := range kindTypes {
		if name != "" {
			m[name] = Kind(k)
		}
	}
	return m
}()

// KindOf returns the kind for a type name.
func KindOf(typeName string) Kind {
	return typeKinds[typeName]
}

// TypeName returns the wire type name for a built-in kind.
// KindCustom and out-of-range kinds return "".
func (k Kind) TypeName() string {
	if int(k) >= len(kindTypes) {
		return ""
	}
	return kindTypes[k]
}

// String returns the type name, or "custom" for KindCustom.
func (k Kind) String() string {
	if name := k.TypeName(); name != "" {
		return name
	}
	return "custom"
}

// IsBuiltin reports whether k names a type from the built-in catalog.
func (k Kind) IsBuiltin() bool {
	return k != KindCustom && int(k) < len(kindTypes)
}

package plugin

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/actionwire/internal/document"
	"github.com/dshills/actionwire/internal/notify"
	"github.com/dshills/actionwire/internal/op"
)

func (h *Host) installAPI(L *lua.LState) {
	L.SetGlobal("ops", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"register": h.luaRegister,
		"dispatch": h.luaDispatch,
		"has":      h.luaHas,
	}))
	L.SetGlobal("dom", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"add_class":    h.luaAddClass,
		"remove_class": h.luaRemoveClass,
		"set_attr":     h.luaSetAttr,
		"attr":         h.luaAttr,
		"html":         h.luaHTML,
		"text":         h.luaText,
		"count":        h.luaCount,
	}))
	L.SetGlobal("notify", L.NewFunction(h.luaNotify))
}

func luaContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (h *Host) luaRegister(L *lua.LState) int {
	typeName := L.CheckString(1)
	fn := L.CheckFunction(2)
	if typeName == "" {
		L.ArgError(1, "empty operation type")
		return 0
	}

	script := scriptName(luaContext(L))
	h.registry.Register(typeName, h.handler(typeName, fn))

	h.mu.Lock()
	h.registered[typeName] = script
	h.mu.Unlock()
	if kind := op.KindOf(typeName); kind.IsBuiltin() {
		h.logger.Info("plugin overrides built-in operation", "type", kind, "script", script)
	} else {
		h.logger.Debug("plugin registered operation", "type", typeName, "script", script)
	}
	return 0
}

func (h *Host) luaDispatch(L *lua.LState) int {
	tbl := L.CheckTable(1)
	if h.deps.Dispatcher == nil {
		L.RaiseError("%v", ErrNoDispatcher)
		return 0
	}
	rec, err := h.bridge.ToRecord(tbl)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	if err := h.deps.Dispatcher.Dispatch(luaContext(L), rec); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (h *Host) luaHas(L *lua.LState) int {
	L.Push(lua.LBool(h.registry.Has(L.CheckString(1))))
	return 1
}

// selectArg selects the elements named by argument 1, raising a Lua error
// on a bad selector or a missing document.
func (h *Host) selectArg(L *lua.LState) document.Selection {
	selector := L.CheckString(1)
	if h.deps.Document == nil {
		L.RaiseError("%v", ErrNoDocument)
		return document.Selection{}
	}
	sel, err := h.deps.Document.Select(selector)
	if err != nil {
		L.RaiseError("%v", err)
	}
	return sel
}

func (h *Host) luaAddClass(L *lua.LState) int {
	h.selectArg(L).AddClass(L.CheckString(2))
	return 0
}

func (h *Host) luaRemoveClass(L *lua.LState) int {
	h.selectArg(L).RemoveClass(L.CheckString(2))
	return 0
}

func (h *Host) luaSetAttr(L *lua.LState) int {
	sel := h.selectArg(L)
	name := L.CheckString(2)
	if v := L.Get(3); v == lua.LNil {
		sel.RemoveAttr(name)
	} else {
		sel.SetAttr(name, L.ToStringMeta(v).String())
	}
	return 0
}

func (h *Host) luaAttr(L *lua.LState) int {
	v, ok := h.selectArg(L).Attr(L.CheckString(2))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(v))
	return 1
}

func (h *Host) luaHTML(L *lua.LState) int {
	sel := h.selectArg(L)
	if L.GetTop() >= 2 {
		if err := sel.SetHTML(L.CheckString(2)); err != nil {
			L.RaiseError("%v", err)
		}
		return 0
	}
	markup, err := sel.HTML()
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LString(markup))
	return 1
}

func (h *Host) luaText(L *lua.LState) int {
	sel := h.selectArg(L)
	if L.GetTop() >= 2 {
		sel.SetText(L.CheckString(2))
		return 0
	}
	L.Push(lua.LString(sel.Text()))
	return 1
}

func (h *Host) luaCount(L *lua.LState) int {
	L.Push(lua.LNumber(h.selectArg(L).Len()))
	return 1
}

func (h *Host) luaNotify(L *lua.LState) int {
	n := notify.Notification{
		Title:  L.CheckString(1),
		Text:   L.OptString(2, ""),
		Sticky: L.OptBool(3, false),
	}
	if h.deps.Notifier == nil {
		L.RaiseError("%v", ErrNoNotifier)
		return 0
	}
	if err := h.deps.Notifier.Notify(luaContext(L), n); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// Package plugin hosts Lua scripts that add operation handlers.
//
// A script registers handlers with ops.register; each handler receives the
// record as a table and fails by raising an error:
//
//	ops.register("flash", function(rec)
//	    dom.add_class(rec.id, "flash-" .. rec.level)
//	    notify("Flash", rec.text)
//	end)
//
// Registrations go into the dispatcher's registry, so a script can
// replace a built-in type. The globals available to scripts are:
//
//	ops.register(name, fn)       register a handler
//	ops.dispatch(tbl)            dispatch a record table
//	ops.has(name)                report whether a type is registered
//	dom.add_class(sel, names)
//	dom.remove_class(sel, names)
//	dom.set_attr(sel, name, value)   nil value removes the attribute
//	dom.attr(sel, name)          first match's attribute, or nil
//	dom.html(sel [, markup])     get or set inner markup
//	dom.text(sel [, text])       get or set text
//	dom.count(sel)               number of matches
//	notify(title, text [, sticky])
//
// All scripts share one sandboxed state; see package lua.
package plugin

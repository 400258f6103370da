// Package ops provides the built-in operation handlers.
//
// The base set covers notifications, navigation and the jQuery manipulation
// vocabulary (dom-*). The bootstrap set adds modal dialogs and tabs. Each
// handler reads only the record fields it documents and applies them to
// the document, notifier or navigator it was registered with.
//
//	ops.RegisterBuiltins(registry, ops.Deps{
//	    Document:   doc,
//	    Notifier:   notifier,
//	    Navigator:  browser,
//	    Dispatcher: d,
//	})
package ops

package plugin

import (
	"errors"

	plua "github.com/dshills/actionwire/internal/plugin/lua"
)

var (
	// ErrStateClosed is returned after the host is closed.
	ErrStateClosed = plua.ErrStateClosed

	// ErrNoDocument is raised by dom.* when the host has no document.
	ErrNoDocument = errors.New("plugin: no document")

	// ErrNoNotifier is raised by notify when the host has no notifier.
	ErrNoNotifier = errors.New("plugin: no notifier")

	// ErrNoDispatcher is raised by ops.dispatch when the host has no
	// dispatcher.
	ErrNoDispatcher = errors.New("plugin: no dispatcher")
)

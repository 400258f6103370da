package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/actionwire/internal/dispatcher"
	"github.com/dshills/actionwire/internal/document"
	"github.com/dshills/actionwire/internal/notify"
	"github.com/dshills/actionwire/internal/op"
	plua "github.com/dshills/actionwire/internal/plugin/lua"
)

// Dispatcher applies a single record.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec op.Record) error
}

// Deps are what scripts can act on. A nil member makes the matching Lua
// functions raise an error.
type Deps struct {
	Document   *document.Document
	Notifier   notify.Notifier
	Dispatcher Dispatcher
}

// Host runs plug-in scripts in one Lua state.
type Host struct {
	registry *dispatcher.Registry
	deps     Deps
	logger   *slog.Logger
	timeout  time.Duration

	state  *plua.State
	bridge *plua.Bridge

	mu         sync.RWMutex
	scripts    []string
	registered map[string]string
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger sets the logger for script output and failures.
func WithLogger(logger *slog.Logger) HostOption {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithExecutionTimeout bounds each entry into Lua.
func WithExecutionTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		h.timeout = d
	}
}

// New creates a host registering script handlers into registry.
func New(registry *dispatcher.Registry, deps Deps, opts ...HostOption) (*Host, error) {
	h := &Host{
		registry:   registry,
		deps:       deps,
		logger:     slog.New(slog.DiscardHandler),
		timeout:    plua.DefaultExecutionTimeout,
		registered: make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}

	state, err := plua.NewState(plua.WithExecutionTimeout(h.timeout))
	if err != nil {
		return nil, fmt.Errorf("plugin: create state: %w", err)
	}
	h.state = state
	h.bridge = plua.NewBridge(state.L)
	state.Sandbox().SetPrint(func(msg string) {
		h.logger.Info("lua print", "message", msg)
	})

	err = state.Do(context.Background(), func(L *lua.LState) error {
		h.installAPI(L)
		return nil
	})
	if err != nil {
		_ = state.Close()
		return nil, fmt.Errorf("plugin: install api: %w", err)
	}
	return h, nil
}

// LoadFile runs the script at path.
func (h *Host) LoadFile(ctx context.Context, path string) error {
	name := filepath.Base(path)
	err := h.state.Do(withScript(ctx, name), func(L *lua.LState) error {
		return L.DoFile(path)
	})
	if err != nil {
		return fmt.Errorf("plugin: load %s: %w", path, err)
	}
	h.addScript(path)
	h.logger.Info("plugin loaded", "path", path)
	return nil
}

// LoadString runs code as a script called name.
func (h *Host) LoadString(ctx context.Context, name, code string) error {
	err := h.state.Do(withScript(ctx, name), func(L *lua.LState) error {
		return L.DoString(code)
	})
	if err != nil {
		return fmt.Errorf("plugin: load %s: %w", name, err)
	}
	h.addScript(name)
	h.logger.Debug("plugin loaded", "name", name)
	return nil
}

func (h *Host) addScript(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scripts = append(h.scripts, name)
}

// Scripts returns the loaded scripts in load order.
func (h *Host) Scripts() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.scripts...)
}

// Registered returns the operation types registered by scripts, sorted.
func (h *Host) Registered() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	types := make([]string, 0, len(h.registered))
	for t := range h.registered {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Source returns the script that registered typeName.
func (h *Host) Source(typeName string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.registered[typeName]
	return s, ok
}

// Close releases the Lua state. Handlers registered by scripts then fail
// with ErrStateClosed.
func (h *Host) Close() error {
	return h.state.Close()
}

// handler wraps a Lua function as an operation handler.
func (h *Host) handler(typeName string, fn *lua.LFunction) dispatcher.HandlerFunc {
	return func(ctx context.Context, rec op.Record) error {
		err := h.state.Do(ctx, func(L *lua.LState) error {
			return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, h.bridge.FromRecord(rec))
		})
		if err != nil {
			return fmt.Errorf("plugin: %s: %w", typeName, err)
		}
		return nil
	}
}

type scriptKey struct{}

func withScript(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, scriptKey{}, name)
}

func scriptName(ctx context.Context) string {
	name, _ := ctx.Value(scriptKey{}).(string)
	return name
}

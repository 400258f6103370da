package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds each entry into Lua.
const DefaultExecutionTimeout = 5 * time.Second

// activeKey marks a context that is already running inside a State.
type activeKey struct{}

// State is a sandboxed Lua runtime.
//
// gopher-lua's LState is not goroutine-safe. State serializes every entry
// through Do; callers must not touch L outside of it.
type State struct {
	L *lua.LState

	mu               sync.Mutex
	executionTimeout time.Duration
	sandbox          *Sandbox
	closed           bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the limit for one entry into Lua. Zero
// disables it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// NewState creates a sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	s := &State{executionTimeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	s.L = L
	s.sandbox = NewSandbox(L)
	s.sandbox.Install()
	return s, nil
}

// openSafeLibraries opens base, table, string and math. io, os, debug,
// package and coroutine stay closed.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// Do runs fn with exclusive access to the Lua state. While fn runs,
// L.Context() carries ctx plus the execution timeout; a Do called with that
// context runs fn directly.
func (s *State) Do(ctx context.Context, fn func(L *lua.LState) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if owner, _ := ctx.Value(activeKey{}).(*State); owner == s {
		return doWithRecovery(s.L, fn)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}

	ctx = context.WithValue(ctx, activeKey{}, s)
	cancel := context.CancelFunc(func() {})
	if s.executionTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
	}
	defer cancel()

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	err := doWithRecovery(s.L, fn)
	if err == nil {
		return nil
	}
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
	case ctxErr != nil:
		return fmt.Errorf("lua: %w", ctxErr)
	}
	return err
}

// doWithRecovery executes fn with panic recovery.
func doWithRecovery(L *lua.LState, fn func(*lua.LState) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn(L)
}

// DoString executes a chunk of Lua code.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.Do(ctx, func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// DoFile executes a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.Do(ctx, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// Call calls fn with args and returns its results. fn may be a function
// value or the name of a global function.
func (s *State) Call(ctx context.Context, fn any, args ...lua.LValue) ([]lua.LValue, error) {
	var results []lua.LValue
	err := s.Do(ctx, func(L *lua.LState) error {
		fnVal, err := resolveFunc(L, fn)
		if err != nil {
			return err
		}

		top := L.GetTop()
		if err := L.CallByParam(lua.P{Fn: fnVal, NRet: lua.MultRet, Protect: true}, args...); err != nil {
			return err
		}
		n := L.GetTop() - top
		results = make([]lua.LValue, 0, n)
		for i := 1; i <= n; i++ {
			results = append(results, L.Get(top+i))
		}
		L.Pop(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func resolveFunc(L *lua.LState, fn any) (lua.LValue, error) {
	switch f := fn.(type) {
	case *lua.LFunction:
		return f, nil
	case string:
		v := L.GetGlobal(f)
		if v.Type() != lua.LTFunction {
			return nil, fmt.Errorf("%q is not a function (got %s)", f, v.Type())
		}
		return v, nil
	default:
		return nil, fmt.Errorf("cannot call %T", fn)
	}
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(ctx context.Context, name string) lua.LValue {
	v := lua.LValue(lua.LNil)
	_ = s.Do(ctx, func(L *lua.LState) error {
		v = L.GetGlobal(name)
		return nil
	})
	return v
}

// Sandbox returns the state's sandbox.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Later calls return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}

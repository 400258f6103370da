package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// removedGlobals load code from disk or strings, or reach the module
// system, which is never opened.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// Sandbox restricts what Lua code can reach.
type Sandbox struct {
	L     *lua.LState
	print func(msg string)
}

// NewSandbox creates a sandbox for L.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{L: L}
}

// Install removes the unsafe globals and routes print through the
// sandbox.
func (s *Sandbox) Install() {
	for _, name := range removedGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.L.SetGlobal("print", s.L.NewFunction(s.luaPrint))
}

// SetPrint directs print output to fn. A nil fn discards it.
func (s *Sandbox) SetPrint(fn func(msg string)) {
	s.print = fn
}

func (s *Sandbox) luaPrint(L *lua.LState) int {
	if s.print == nil {
		return 0
	}
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	s.print(strings.Join(parts, "\t"))
	return 0
}

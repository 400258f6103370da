// Package lua wraps gopher-lua for running operation plug-ins.
//
// # State
//
// A State is a sandboxed Lua runtime. Only the base, table, string and
// math libraries are opened, and the functions that load code from disk or
// strings are removed:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	err = state.DoString(ctx, `x = 1 + 1`)
//
// Every entry into Lua goes through State.Do, which holds the state's lock
// and installs a context carrying the execution timeout. Go functions
// called from Lua that re-enter the state with L.Context() run on the
// same lock without deadlocking.
//
// # Bridge
//
// Bridge converts between Lua values, Go values and operation records:
//
//	tbl := bridge.FromRecord(rec)   // record -> table
//	rec, err := bridge.ToRecord(tbl) // table -> record
package lua

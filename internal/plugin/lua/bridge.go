package lua

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/actionwire/internal/op"
)

// Bridge converts values between Go, JSON records and Lua.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a Bridge for L.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// FromRecord converts rec into a Lua table.
func (b *Bridge) FromRecord(rec op.Record) *lua.LTable {
	if t, ok := b.FromJSON(gjson.Parse(rec.Raw())).(*lua.LTable); ok {
		return t
	}
	return b.L.NewTable()
}

// FromJSON converts a parsed JSON value into a Lua value. Arrays become
// 1-based sequences; null becomes nil.
func (b *Bridge) FromJSON(res gjson.Result) lua.LValue {
	switch {
	case res.IsObject():
		t := b.L.NewTable()
		res.ForEach(func(key, value gjson.Result) bool {
			t.RawSetString(key.String(), b.FromJSON(value))
			return true
		})
		return t
	case res.IsArray():
		t := b.L.NewTable()
		i := 1
		res.ForEach(func(_, value gjson.Result) bool {
			t.RawSetInt(i, b.FromJSON(value))
			i++
			return true
		})
		return t
	}

	switch res.Type {
	case gjson.String:
		return lua.LString(res.Str)
	case gjson.Number:
		return lua.LNumber(res.Num)
	case gjson.True:
		return lua.LTrue
	case gjson.False:
		return lua.LFalse
	default:
		return lua.LNil
	}
}

// ToRecord converts a Lua table with a string "type" field into a record.
func (b *Bridge) ToRecord(t *lua.LTable) (op.Record, error) {
	typeName, ok := t.RawGetString("type").(lua.LString)
	if !ok || typeName == "" {
		return op.Record{}, fmt.Errorf("%w: missing string field \"type\"", ErrNotRecord)
	}
	fields, ok := b.ToGoValue(t).(map[string]any)
	if !ok {
		return op.Record{}, fmt.Errorf("%w: sequence table", ErrNotRecord)
	}
	return op.New(string(typeName), fields)
}

// ToGoValue converts a Lua value to a Go value. Integral numbers become
// int64; sequences become []any; other tables become map[string]any.
func (b *Bridge) ToGoValue(lv lua.LValue) any {
	return b.toGoValue(lv, make(map[*lua.LTable]bool))
}

func (b *Bridge) toGoValue(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return b.tableToGo(v, visited)
	default:
		return nil
	}
}

func (b *Bridge) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	count, maxN := 0, 0
	isArray := true
	t.ForEach(func(k, _ lua.LValue) {
		count++
		if kn, ok := k.(lua.LNumber); ok {
			if n := int(kn); float64(n) == float64(kn) && n > 0 {
				maxN = max(maxN, n)
				return
			}
		}
		isArray = false
	})

	if isArray && maxN > 0 && count == maxN {
		arr := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			arr[i-1] = b.toGoValue(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = strconv.FormatFloat(float64(kv), 'f', -1, 64)
		default:
			key = k.String()
		}
		m[key] = b.toGoValue(v, visited)
	})
	return m
}

// ToLuaValue converts a Go value to a Lua value.
func (b *Bridge) ToLuaValue(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		t := b.L.NewTable()
		for i, s := range val {
			t.RawSetInt(i+1, lua.LString(s))
		}
		return t
	case []any:
		t := b.L.NewTable()
		for i, e := range val {
			t.RawSetInt(i+1, b.ToLuaValue(e))
		}
		return t
	case map[string]any:
		t := b.L.NewTable()
		for k, e := range val {
			t.RawSetString(k, b.ToLuaValue(e))
		}
		return t
	case lua.LValue:
		return val
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

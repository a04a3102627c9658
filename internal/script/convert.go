// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package script

import (
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/cmdbind/internal/command"
)

// toLua converts a bound argument value into a Lua value. Slices become
// 1-indexed array tables; types without a Lua equivalent become strings.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(val)
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case command.Sender:
		return senderTable(L, val)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		t := L.CreateTable(rv.Len(), 0)
		for i := range rv.Len() {
			t.RawSetInt(i+1, toLua(L, rv.Index(i).Interface()))
		}
		return t
	}
	return lua.LString(fmt.Sprint(v))
}

// argsTable builds the args table passed to handlers, keyed by parameter name.
func argsTable(L *lua.LState, params []command.ParameterSpec, args *command.Args) *lua.LTable {
	t := L.CreateTable(0, len(params))
	for _, p := range params {
		v, ok := args.Lookup(p.Name)
		if !ok {
			continue
		}
		L.SetField(t, p.Name, toLua(L, v))
	}
	return t
}

// senderTable exposes a sender to Lua as {name, is_player, send}.
// send accepts both sender.send(msg) and sender:send(msg).
func senderTable(L *lua.LState, s command.Sender) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "name", lua.LString(s.Name()))
	L.SetField(t, "is_player", lua.LBool(s.IsPlayer()))
	L.SetField(t, "send", L.NewFunction(func(L *lua.LState) int {
		idx := 1
		if L.Get(1).Type() == lua.LTTable {
			idx = 2
		}
		s.SendMessage(L.CheckString(idx))
		return 0
	}))
	return t
}

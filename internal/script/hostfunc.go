// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package script

import (
	"log/slog"

	"github.com/oklog/ulid/v2"
	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/cmdbind/internal/command"
)

// hostModule is the global table holding host functions.
const hostModule = "cmdbind"

// registerHostFunctions adds the cmdbind module to a Lua state:
//
//	cmdbind.log(level, message)
//	cmdbind.new_request_id() -> string
//	cmdbind.commands() -> {{name, help, usage}, ...}
func registerHostFunctions(L *lua.LState, logger *slog.Logger, registry *command.Registry, pack string) {
	mod := L.NewTable()
	L.SetField(mod, "log", L.NewFunction(logFn(logger, pack)))
	L.SetField(mod, "new_request_id", L.NewFunction(newRequestIDFn))
	L.SetField(mod, "commands", L.NewFunction(commandsFn(registry)))
	L.SetGlobal(hostModule, mod)
}

func logFn(logger *slog.Logger, pack string) lua.LGFunction {
	return func(L *lua.LState) int {
		level := L.CheckString(1)
		message := L.CheckString(2)

		l := logger.With("pack", pack)
		switch level {
		case "debug":
			l.Debug(message)
		case "warn":
			l.Warn(message)
		case "error":
			l.Error(message)
		default:
			l.Info(message)
		}
		return 0
	}
}

func newRequestIDFn(L *lua.LState) int {
	L.Push(lua.LString(ulid.Make().String()))
	return 1
}

func commandsFn(registry *command.Registry) lua.LGFunction {
	return func(L *lua.LState) int {
		cmds := registry.All()
		tbl := L.CreateTable(len(cmds), 0)
		for i, cmd := range cmds {
			desc := cmd.Descriptor()
			cmdTbl := L.NewTable()
			L.SetField(cmdTbl, "name", lua.LString(desc.QualifiedName()))
			L.SetField(cmdTbl, "help", lua.LString(desc.HelpText()))
			L.SetField(cmdTbl, "usage", lua.LString(desc.UsageText()))
			tbl.RawSetInt(i+1, cmdTbl)
		}
		L.Push(tbl)
		return 1
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package handlers implements the built-in commands of the core namespace.
package handlers

import (
	"github.com/holomush/cmdbind/internal/command"
)

// Namespace is the namespace of every built-in command.
const Namespace = "core"

// RegisterAll registers all core command handlers with the registry.
// Panics if any registration fails (indicates a programming error).
func RegisterAll(reg *command.Registry) {
	reg.MustRegister(command.Definition{
		Name:  Namespace + ":help",
		Help:  "List commands and what they do",
		Usage: "help [-v|--verbose] [pattern]",
		Params: []command.ParameterSpec{
			command.SenderParam("sender"),
			command.FlagParam("verbose", "v", "verbose"),
			command.OptionalParam("pattern", command.TypeString, "*"),
		},
	}, NewHelpHandler(reg))

	reg.MustRegister(command.Definition{
		Name:  Namespace + ":echo",
		Help:  "Repeat text back to you",
		Usage: "echo [--repeat=N] <text...>",
		Params: []command.ParameterSpec{
			command.SenderParam("sender"),
			command.PositionalParam("text", command.TypeString).With(command.DirectiveRestOfInput),
			command.OptionalParam("repeat", command.TypeInt, 1),
		},
	}, EchoHandler)

	reg.MustRegister(command.Definition{
		Name:  Namespace + ":sum",
		Help:  "Add up a list of integers",
		Usage: "sum <n...>",
		Params: []command.ParameterSpec{
			command.SenderParam("sender"),
			command.VariadicParam("values", command.TypeInt),
		},
	}, SumHandler)

	reg.MustRegister(command.Definition{
		Name:  Namespace + ":whoami",
		Help:  "Show who you are",
		Usage: "whoami",
		Params: []command.ParameterSpec{
			command.SenderParam("sender"),
		},
	}, WhoamiHandler)
}

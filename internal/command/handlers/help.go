// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/holomush/cmdbind/internal/command"
)

// NewHelpHandler returns the handler for core:help.
//
// The pattern is a glob matched against both the qualified and the bare
// command name; '*' does not cross the namespace separator, so "core:*"
// lists the core namespace and "k*" lists every command starting with k.
func NewHelpHandler(reg *command.Registry) command.Handler {
	return func(_ context.Context, args *command.Args) error {
		sender := args.Sender()
		pattern := args.String("pattern")
		verbose := args.Bool("verbose")

		g, err := glob.Compile(pattern, ':')
		if err != nil {
			sender.SendMessage(fmt.Sprintf("Invalid pattern %q.", pattern))
			return nil
		}

		var b strings.Builder
		matched := 0
		for _, cmd := range reg.All() {
			desc := cmd.Descriptor()
			if !g.Match(desc.QualifiedName()) && !g.Match(desc.Name()) {
				continue
			}
			matched++
			fmt.Fprintf(&b, "\n  %-20s %s", desc.QualifiedName(), desc.HelpText())
			if verbose {
				fmt.Fprintf(&b, "\n  %-20s usage: %s", "", desc.UsageText())
			}
		}

		if matched == 0 {
			sender.SendMessage(fmt.Sprintf("No commands match %q.", pattern))
			return nil
		}
		sender.SendMessage(fmt.Sprintf("Commands matching %q:%s", pattern, b.String()))
		return nil
	}
}

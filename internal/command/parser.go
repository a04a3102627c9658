// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"strings"
	"unicode"

	"github.com/samber/oops"
)

// Line is a command line split into the command name and its raw input.
type Line struct {
	Name  string // first whitespace-delimited token, prefix removed
	Input string // everything after the name, unparsed
	Raw   string // original line
}

// SplitLine splits a command line into name and input. If prefix is not
// empty, a leading prefix (e.g. "/") is stripped from the name.
// The input keeps its internal whitespace; it is parsed later by the
// resolved command.
func SplitLine(line, prefix string) (*Line, error) {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if prefix != "" {
		trimmed = strings.TrimLeftFunc(strings.TrimPrefix(trimmed, prefix), unicode.IsSpace)
	}
	if trimmed == "" {
		return nil, oops.In("command").Code(CodeEmptyInput).Errorf("no command provided")
	}

	idx := strings.IndexFunc(trimmed, unicode.IsSpace)
	if idx == -1 {
		return &Line{Name: trimmed, Raw: line}, nil
	}

	return &Line{
		Name:  trimmed[:idx],
		Input: strings.TrimLeftFunc(trimmed[idx:], unicode.IsSpace),
		Raw:   line,
	}, nil
}

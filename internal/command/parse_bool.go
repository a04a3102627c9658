// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import "strings"

// ParseBool parses a positional boolean token. Accepted values are
// true/false, yes/no, on/off and 1/0, case-insensitively.
// Flag-role booleans never reach this parser.
func ParseBool(cur *Cursor, _ Directives) (bool, error) {
	n := cur.boundary()
	token := cur.Rest()[:n]

	var v bool
	switch strings.ToLower(token) {
	case "true", "yes", "on", "1":
		v = true
	case "false", "no", "off", "0":
		v = false
	default:
		return false, newParseError(CodeInvalidBool, parseFault(CodeInvalidBool).
			With("token", token).
			Errorf("invalid boolean: %q", token))
	}

	cur.Advance(n)
	return v, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseString parses a single string token.
//
// With DirectiveRestOfInput the remaining input is returned verbatim.
// Otherwise the token ends at unquoted whitespace (not consumed) or at a
// closing quote (consumed, not returned). Within a token:
//   - '"' opens a quoted section; the next unescaped '"' ends the token
//   - '\"', '\\' and '\' followed by whitespace yield the literal character
//   - '\t' and '\n' yield a tab and a newline
//
// Any other escape fails with CodeUnrecognizedEscape, and a backslash at the
// end of input fails with CodeInvalidBackslash.
func ParseString(cur *Cursor, dirs Directives) (string, error) {
	if dirs.Has(DirectiveRestOfInput) {
		return cur.TakeAll(), nil
	}

	input := cur.Rest()
	var b strings.Builder
	end := 0
	inQuotes := false

scan:
	for end < len(input) {
		c, size := utf8.DecodeRuneInString(input[end:])

		switch {
		case c == '"':
			end += size
			if inQuotes {
				break scan
			}
			inQuotes = true

		case c == '\\':
			end += size
			if end >= len(input) {
				return "", ErrInvalidBackslash()
			}
			next, nextSize := utf8.DecodeRuneInString(input[end:])
			switch {
			case next == '"' || next == '\\' || unicode.IsSpace(next):
				b.WriteRune(next)
			case next == 't':
				b.WriteByte('\t')
			case next == 'n':
				b.WriteByte('\n')
			default:
				return "", ErrUnrecognizedEscape(next)
			}
			end += nextSize

		case unicode.IsSpace(c) && !inQuotes:
			break scan

		default:
			b.WriteString(input[end : end+size])
			end += size
		}
	}

	cur.Advance(end)
	return b.String(), nil
}

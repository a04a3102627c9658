// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseInt parses a 32-bit signed decimal integer: an optional sign followed
// by digits. The digits must be followed by whitespace or end of input.
//
// Out-of-range values fail with CodeIntegerOverflow wrapping strconv.ErrRange.
// Missing digits or trailing non-digits fail with CodeIntegerFormat wrapping
// strconv.ErrSyntax.
func ParseInt(cur *Cursor, _ Directives) (int, error) {
	input := cur.Rest()

	end := 0
	if strings.HasPrefix(input, "+") || strings.HasPrefix(input, "-") {
		end++
	}
	digitsStart := end
	for end < len(input) && input[end] >= '0' && input[end] <= '9' {
		end++
	}

	token := input[:end]
	if end == digitsStart {
		return 0, intFormatFault(tokenAt(input))
	}
	if end < len(input) {
		if next, _ := utf8.DecodeRuneInString(input[end:]); !unicode.IsSpace(next) {
			return 0, intFormatFault(tokenAt(input))
		}
	}

	n, err := strconv.ParseInt(token, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, WrapParseFault(CodeIntegerOverflow, err, "integer out of range: %s", token)
		}
		return 0, WrapParseFault(CodeIntegerFormat, err, "invalid integer: %s", token)
	}

	cur.Advance(end)
	return int(n), nil
}

func intFormatFault(token string) error {
	cause := &strconv.NumError{Func: "ParseInt", Num: token, Err: strconv.ErrSyntax}
	return WrapParseFault(CodeIntegerFormat, cause, "invalid integer: %q", token)
}

// tokenAt returns input up to its first whitespace, for error context.
func tokenAt(input string) string {
	if i := strings.IndexFunc(input, unicode.IsSpace); i >= 0 {
		return input[:i]
	}
	return input
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Cursor is a shrinking view over the unconsumed suffix of command input.
// Consumption only moves forward; a Cursor never grows back.
type Cursor struct {
	rest string
}

// NewCursor returns a cursor positioned at the start of input.
func NewCursor(input string) *Cursor {
	return &Cursor{rest: input}
}

// Rest returns the unconsumed input.
func (c *Cursor) Rest() string {
	return c.rest
}

// Len returns the number of unconsumed bytes.
func (c *Cursor) Len() int {
	return len(c.rest)
}

// Empty reports whether all input has been consumed.
func (c *Cursor) Empty() bool {
	return len(c.rest) == 0
}

// Blank reports whether the unconsumed input is empty or whitespace only.
func (c *Cursor) Blank() bool {
	return strings.TrimLeftFunc(c.rest, unicode.IsSpace) == ""
}

// HasPrefix reports whether the unconsumed input starts with prefix.
func (c *Cursor) HasPrefix(prefix string) bool {
	return strings.HasPrefix(c.rest, prefix)
}

// Peek decodes the next rune without consuming it.
// It returns utf8.RuneError and 0 when the cursor is empty.
func (c *Cursor) Peek() (rune, int) {
	if c.Empty() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(c.rest)
}

// TrimStart consumes leading whitespace.
func (c *Cursor) TrimStart() {
	c.rest = strings.TrimLeftFunc(c.rest, unicode.IsSpace)
}

// Advance consumes n bytes. n is clamped to the remaining length.
func (c *Cursor) Advance(n int) {
	if n <= 0 {
		return
	}
	if n > len(c.rest) {
		n = len(c.rest)
	}
	c.rest = c.rest[n:]
}

// TakeAll consumes and returns everything that remains.
func (c *Cursor) TakeAll() string {
	s := c.rest
	c.rest = ""
	return s
}

// boundary returns the byte offset of the first whitespace rune,
// or the remaining length if there is none.
func (c *Cursor) boundary() int {
	if i := strings.IndexFunc(c.rest, unicode.IsSpace); i >= 0 {
		return i
	}
	return len(c.rest)
}

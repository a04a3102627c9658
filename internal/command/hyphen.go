// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"strings"
	"unicode/utf8"
)

// flagSet holds the hyphenated arguments recognized in one invocation.
type flagSet struct {
	shorts    map[rune]struct{}
	longs     map[string]struct{}
	optionals map[string]any
}

func newFlagSet() *flagSet {
	return &flagSet{
		shorts:    make(map[rune]struct{}),
		longs:     make(map[string]struct{}),
		optionals: make(map[string]any),
	}
}

// has reports whether any alias of a flag parameter was given.
func (f *flagSet) has(aliases []string) bool {
	for _, alias := range aliases {
		if utf8.RuneCountInString(alias) == 1 {
			r, _ := utf8.DecodeRuneInString(alias)
			if _, ok := f.shorts[r]; ok {
				return true
			}
			continue
		}
		if _, ok := f.longs[alias]; ok {
			return true
		}
	}
	return false
}

// scanHyphenated consumes leading hyphenated arguments:
//
//	-xyz          short flags x, y and z
//	--name        long flag
//	--name=value  optional, value parsed with the optional's type
//
// It stops at the first token that does not start with '-'.
func (c *Command) scanHyphenated(cur *Cursor, flags *flagSet) error {
	cur.TrimStart()
	for cur.HasPrefix("-") {
		space := cur.boundary()

		var err error
		if cur.HasPrefix("--") {
			if equals := strings.IndexByte(cur.Rest(), '='); equals >= 0 && equals < space {
				err = c.scanOptional(cur, flags, equals)
			} else {
				err = c.scanLongFlag(cur, flags, space)
			}
		} else {
			err = c.scanShortFlags(cur, flags, space)
		}
		if err != nil {
			return err
		}

		cur.TrimStart()
	}
	return nil
}

func (c *Command) scanShortFlags(cur *Cursor, flags *flagSet, space int) error {
	token := cur.Rest()[:space]
	if space <= 1 {
		return ErrInvalidHyphenated(token)
	}

	for _, r := range token[1:] {
		if _, ok := c.desc.shortFlags[r]; !ok {
			return ErrUnrecognizedShortFlag(r)
		}
		flags.shorts[r] = struct{}{}
	}

	cur.Advance(space)
	return nil
}

func (c *Command) scanLongFlag(cur *Cursor, flags *flagSet, space int) error {
	token := cur.Rest()[:space]
	if space <= 2 {
		return ErrInvalidHyphenated(token)
	}

	name := token[2:]
	if _, ok := c.desc.longFlags[name]; !ok {
		return ErrUnrecognizedLongFlag(name)
	}
	flags.longs[name] = struct{}{}

	cur.Advance(space)
	return nil
}

func (c *Command) scanOptional(cur *Cursor, flags *flagSet, equals int) error {
	if equals <= 2 {
		return ErrInvalidHyphenated(cur.Rest()[:cur.boundary()])
	}

	name := cur.Rest()[2:equals]
	idx, ok := c.desc.optionals[name]
	if !ok {
		return ErrUnrecognizedOptional(name)
	}

	cur.Advance(equals + 1)
	cur.TrimStart()

	v, err := c.parseValue(cur, c.desc.params[idx], c.desc.params[idx].Type)
	if err != nil {
		return err
	}
	flags.optionals[name] = v
	return nil
}

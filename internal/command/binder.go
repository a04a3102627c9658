// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"strings"
)

// bindInput converts raw input into handler arguments.
//
// Hyphenated arguments are scanned first, but only when the command declares
// flags or optionals, so a leading "-5" stays a positional value otherwise.
// Parameters are then bound in declaration order:
//   - Sender: the invoking sender, consuming nothing
//   - Flag: true iff any alias was given
//   - Variadic: every remaining value, possibly none
//   - Optional: the --name=value, else the default at end of input,
//     else the next positional value
//   - Positional: the next value, required
//
// Input left over after binding is a CodeTooManyArguments fault.
func (c *Command) bindInput(sender Sender, input string) (*Args, error) {
	cur := NewCursor(input)
	flags := newFlagSet()

	if c.desc.hasHyphenated() {
		if err := c.scanHyphenated(cur, flags); err != nil {
			return nil, err
		}
	}

	values := make([]any, len(c.desc.params))
	for i, p := range c.desc.params {
		v, err := c.bindParam(cur, sender, flags, p)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	if !cur.Blank() {
		return nil, ErrTooManyArguments(strings.TrimSpace(cur.Rest()))
	}

	return &Args{sender: sender, params: c.desc.params, values: values}, nil
}

func (c *Command) bindParam(cur *Cursor, sender Sender, flags *flagSet, p ParameterSpec) (any, error) {
	switch p.Role {
	case RoleSender:
		return sender, nil

	case RoleFlag:
		return flags.has(p.Aliases), nil

	case RoleVariadic:
		elem := p.Type.Elem()
		items := make([]any, 0)
		cur.TrimStart()
		for !cur.Empty() {
			before := cur.Len()
			v, err := c.parseValue(cur, p, elem)
			if err != nil {
				return nil, err
			}
			if cur.Len() == before {
				return nil, newParseError(CodeInvalidArgument, parseFault(CodeInvalidArgument).
					With("parameter", p.Name).
					With("type", string(elem)).
					Errorf("%s parser consumed no input", elem))
			}
			items = append(items, v)
			cur.TrimStart()
		}
		return c.parsers.collect(elem, items)

	case RoleOptional:
		cur.TrimStart()
		if v, ok := flags.optionals[OptionalName(p.Name)]; ok {
			return v, nil
		}
		if cur.Empty() {
			return p.Default, nil
		}
		return c.parseValue(cur, p, p.Type)

	default:
		cur.TrimStart()
		return c.parseValue(cur, p, p.Type)
	}
}

// parseValue parses one value of type t for parameter p.
func (c *Command) parseValue(cur *Cursor, p ParameterSpec, t Type) (any, error) {
	if cur.Empty() {
		return nil, ErrMissingArgument(p.Name)
	}
	return c.parsers.Parse(t, cur, p.Directives)
}

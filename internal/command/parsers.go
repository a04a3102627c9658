// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"slices"
	"strings"
	"sync"

	"github.com/samber/oops"
)

// Type is the key a parameter declares to select its value parser.
// Slice types are written with a "[]" prefix, e.g. "[]int".
type Type string

// Built-in types.
const (
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeBool   Type = "bool"
	// TypeSender is the conventional type for Sender-role parameters.
	// It has no parser; the binder injects the invoking sender.
	TypeSender Type = "sender"
)

const sliceTypePrefix = "[]"

// SliceOf returns the slice type whose elements are t.
func SliceOf(t Type) Type {
	return Type(sliceTypePrefix + string(t))
}

// IsSlice reports whether t is a slice type.
func (t Type) IsSlice() bool {
	return strings.HasPrefix(string(t), sliceTypePrefix)
}

// Elem returns the element type of a slice type, or t itself otherwise.
func (t Type) Elem() Type {
	return Type(strings.TrimPrefix(string(t), sliceTypePrefix))
}

// Directive changes how a parser consumes input for one parameter.
type Directive string

// DirectiveRestOfInput makes the string parser return the remaining input
// verbatim instead of a single token.
const DirectiveRestOfInput Directive = "rest-of-input"

// Directives is the set of directives attached to a parameter.
type Directives []Directive

// Has reports whether d contains directive.
func (d Directives) Has(directive Directive) bool {
	return slices.Contains(d, directive)
}

// ParseFunc consumes a prefix of the cursor and returns the parsed value.
// The binder guarantees the cursor starts with a non-whitespace character.
// On failure the cursor position is unspecified; the invocation is abandoned.
type ParseFunc[T any] func(cur *Cursor, dirs Directives) (T, error)

type parserEntry struct {
	parse   func(cur *Cursor, dirs Directives) (any, error)
	collect func(values []any) any
	// accepts reports whether v is a T; acceptsSlice whether it is a []T.
	accepts      func(v any) bool
	acceptsSlice func(v any) bool
}

// ParserRegistry maps declared types to value parsers.
// It is safe for concurrent use.
type ParserRegistry struct {
	parsers map[Type]parserEntry
	mu      sync.RWMutex
}

// NewParserRegistry creates a registry holding the built-in parsers for
// TypeString, TypeInt and TypeBool.
func NewParserRegistry() *ParserRegistry {
	r := NewEmptyParserRegistry()
	RegisterParser(r, TypeString, ParseString)
	RegisterParser(r, TypeInt, ParseInt)
	RegisterParser(r, TypeBool, ParseBool)
	return r
}

// NewEmptyParserRegistry creates a registry with no parsers.
func NewEmptyParserRegistry() *ParserRegistry {
	return &ParserRegistry{parsers: make(map[Type]parserEntry)}
}

// RegisterParser registers fn as the parser for t, replacing any previous
// parser. Variadic parameters of type SliceOf(t) bind a []T.
func RegisterParser[T any](r *ParserRegistry, t Type, fn ParseFunc[T]) {
	if t.IsSlice() {
		panic("command.RegisterParser: cannot register a parser for slice type " + string(t))
	}
	entry := parserEntry{
		parse: func(cur *Cursor, dirs Directives) (any, error) {
			return fn(cur, dirs)
		},
		collect: func(values []any) any {
			out := make([]T, len(values))
			for i, v := range values {
				out[i] = v.(T) //nolint:forcetypeassert // produced by fn above
			}
			return out
		},
		accepts: func(v any) bool {
			_, ok := v.(T)
			return ok
		},
		acceptsSlice: func(v any) bool {
			_, ok := v.([]T)
			return ok
		},
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[t] = entry
}

// Has reports whether a parser is registered for t.
func (r *ParserRegistry) Has(t Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.parsers[t]
	return ok
}

// Accepts reports whether v is a value of type t: a T for a type
// registered with RegisterParser[T], or a []T for SliceOf that type.
// Values of unregistered types are never accepted.
func (r *ParserRegistry) Accepts(t Type, v any) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t.IsSlice() {
		entry, ok := r.parsers[t.Elem()]
		return ok && entry.acceptsSlice(v)
	}
	entry, ok := r.parsers[t]
	return ok && entry.accepts(v)
}

// Types returns the registered types in sorted order.
func (r *ParserRegistry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]Type, 0, len(r.parsers))
	for t := range r.parsers {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Parse parses one value of type t from the cursor.
// It fails with CodeUnrecognizedArgType when no parser is registered for t.
// Parser failures that are not already parse faults are wrapped with
// CodeInvalidArgument, preserving the cause.
func (r *ParserRegistry) Parse(t Type, cur *Cursor, dirs Directives) (any, error) {
	entry, ok := r.lookup(t)
	if !ok {
		return nil, ErrUnrecognizedArgType(t)
	}
	v, err := entry.parse(cur, dirs)
	if err != nil {
		return nil, WrapParseFault(CodeInvalidArgument, err, "invalid %s argument", t)
	}
	return v, nil
}

// collect builds a typed slice for the element type t.
func (r *ParserRegistry) collect(t Type, values []any) (any, error) {
	entry, ok := r.lookup(t)
	if !ok {
		return nil, ErrUnrecognizedArgType(t)
	}
	return entry.collect(values), nil
}

func (r *ParserRegistry) lookup(t Type) (parserEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.parsers[t]
	return entry, ok
}

// ParseValue parses text as a complete value of type t. Unlike Parse, the
// whole text must be consumed. It is used for defaults declared as text.
func (r *ParserRegistry) ParseValue(t Type, text string) (any, error) {
	cur := NewCursor(text)
	cur.TrimStart()
	v, err := r.Parse(t, cur, nil)
	if err != nil {
		return nil, err
	}
	if !cur.Blank() {
		return nil, oops.In("command").
			Code(CodeInvalidArgument).
			With("type", string(t)).
			With("text", text).
			Errorf("trailing input after %s value", t)
	}
	return v, nil
}

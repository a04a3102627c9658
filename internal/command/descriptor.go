// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Role is how a parameter receives its value.
type Role int

// Parameter roles. RoleAuto lets the descriptor builder classify the
// parameter: Optional when it has a default, Positional otherwise.
const (
	RoleAuto Role = iota
	RoleSender
	RoleFlag
	RoleOptional
	RoleVariadic
	RolePositional
)

func (r Role) String() string {
	switch r {
	case RoleAuto:
		return "auto"
	case RoleSender:
		return "sender"
	case RoleFlag:
		return "flag"
	case RoleOptional:
		return "optional"
	case RoleVariadic:
		return "variadic"
	case RolePositional:
		return "positional"
	default:
		return "unknown"
	}
}

// Default help and usage text for commands that declare none.
const (
	MissingHelpText  = "No help text available."
	MissingUsageText = "No usage text available."
)

// ParameterSpec declares one handler parameter.
type ParameterSpec struct {
	Name       string
	Type       Type
	Role       Role
	Default    any
	HasDefault bool
	Aliases    []string // Flag only: one rune is -x, longer is --name
	Directives Directives
}

// SenderParam declares a parameter bound to the invoking sender.
func SenderParam(name string) ParameterSpec {
	return ParameterSpec{Name: name, Type: TypeSender, Role: RoleSender}
}

// FlagParam declares a boolean flag set by any of its aliases.
func FlagParam(name string, aliases ...string) ParameterSpec {
	return ParameterSpec{Name: name, Type: TypeBool, Role: RoleFlag, Aliases: aliases}
}

// PositionalParam declares a required positional parameter.
func PositionalParam(name string, t Type) ParameterSpec {
	return ParameterSpec{Name: name, Type: t, Role: RolePositional}
}

// OptionalParam declares a parameter with a default, settable with
// --name=value or positionally.
func OptionalParam(name string, t Type, def any) ParameterSpec {
	return ParameterSpec{Name: name, Type: t, Role: RoleOptional, Default: def, HasDefault: true}
}

// VariadicParam declares a trailing parameter collecting every remaining
// value of type elem.
func VariadicParam(name string, elem Type) ParameterSpec {
	return ParameterSpec{Name: name, Type: SliceOf(elem), Role: RoleVariadic}
}

// With returns a copy of p with the directives appended.
func (p ParameterSpec) With(dirs ...Directive) ParameterSpec {
	p.Directives = append(slices.Clone(p.Directives), dirs...)
	return p
}

// OptionalName returns the user-facing --name for an optional parameter.
func OptionalName(param string) string {
	return strings.ReplaceAll(param, "_", "-")
}

// classify resolves the role of a declared parameter.
func classify(p ParameterSpec) Role {
	switch p.Role {
	case RoleSender, RoleFlag, RoleVariadic:
		return p.Role
	}
	if p.HasDefault {
		return RoleOptional
	}
	if p.Role == RoleOptional {
		// Optional without a default; rejected by the builder.
		return RoleOptional
	}
	return RolePositional
}

// Definition is everything needed to register a command.
type Definition struct {
	Name      string // qualified "namespace:name"
	Help      string
	Usage     string
	Sensitive bool // invocations are not logged with their input
	Params    []ParameterSpec
}

// Descriptor is the immutable, classified form of a Definition.
//
//nolint:revive // stutter is fine for a central type
type Descriptor struct {
	name      string
	help      string
	usage     string
	shouldLog bool
	params    []ParameterSpec

	shortFlags map[rune]struct{}
	longFlags  map[string]struct{}
	optionals  map[string]int // --name → index into params
}

// NewDescriptor classifies def's parameters and validates them against
// parsers. Any fault rejects the definition.
func NewDescriptor(def Definition, parsers *ParserRegistry) (*Descriptor, error) {
	if err := ValidateQualifiedName(def.Name); err != nil {
		return nil, err
	}

	d := &Descriptor{
		name:       def.Name,
		help:       def.Help,
		usage:      def.Usage,
		shouldLog:  !def.Sensitive,
		params:     make([]ParameterSpec, 0, len(def.Params)),
		shortFlags: make(map[rune]struct{}),
		longFlags:  make(map[string]struct{}),
		optionals:  make(map[string]int),
	}
	if d.help == "" {
		d.help = MissingHelpText
	}
	if d.usage == "" {
		d.usage = MissingUsageText
	}

	names := make(map[string]struct{}, len(def.Params))
	variadics := 0

	for i, decl := range def.Params {
		p := decl
		p.Aliases = slices.Clone(decl.Aliases)
		p.Directives = slices.Clone(decl.Directives)
		p.Role = classify(decl)

		if p.Name == "" || strings.IndexFunc(p.Name, unicode.IsSpace) >= 0 {
			return nil, errInvalidDefinition(def.Name, "parameter name must be non-empty without whitespace",
				"index", i, "parameter", p.Name)
		}
		if _, dup := names[p.Name]; dup {
			return nil, errInvalidDefinition(def.Name, "duplicate parameter name", "parameter", p.Name)
		}
		names[p.Name] = struct{}{}

		if p.Role != RoleFlag && len(p.Aliases) > 0 {
			return nil, errInvalidDefinition(def.Name, "only flag parameters may declare aliases", "parameter", p.Name)
		}

		switch p.Role {
		case RoleSender:
			// bound from the invocation; nothing to validate

		case RoleFlag:
			if err := d.addFlag(def.Name, p); err != nil {
				return nil, err
			}

		case RoleVariadic:
			variadics++
			if variadics > 1 {
				return nil, errInvalidDefinition(def.Name, "at most one variadic parameter is permitted", "parameter", p.Name)
			}
			if i != len(def.Params)-1 {
				return nil, errInvalidDefinition(def.Name, "variadic parameter must be last", "parameter", p.Name)
			}
			if !p.Type.IsSlice() {
				return nil, errInvalidDefinition(def.Name, "variadic parameter must be slice-typed",
					"parameter", p.Name, "type", string(p.Type))
			}
			if !parsers.Has(p.Type.Elem()) {
				return nil, errInvalidDefinition(def.Name, "no parser registered for variadic element type",
					"parameter", p.Name, "type", string(p.Type.Elem()))
			}

		case RoleOptional:
			if !p.HasDefault {
				return nil, errInvalidDefinition(def.Name, "optional parameter requires a default", "parameter", p.Name)
			}
			if !parsers.Has(p.Type) {
				return nil, errInvalidDefinition(def.Name, "no parser registered for type",
					"parameter", p.Name, "type", string(p.Type))
			}
			key := OptionalName(p.Name)
			if _, dup := d.optionals[key]; dup {
				return nil, errInvalidDefinition(def.Name, "conflicting optional name", "optional", key)
			}
			d.optionals[key] = len(d.params)

		default:
			if !parsers.Has(p.Type) {
				return nil, errInvalidDefinition(def.Name, "no parser registered for type",
					"parameter", p.Name, "type", string(p.Type))
			}
		}

		if p.HasDefault && p.Role != RoleSender && !parsers.Accepts(p.Type, p.Default) {
			return nil, errInvalidDefinition(def.Name, "default does not match parameter type",
				"parameter", p.Name, "type", string(p.Type), "default_type", fmt.Sprintf("%T", p.Default))
		}

		d.params = append(d.params, p)
	}

	for key := range d.optionals {
		if _, clash := d.longFlags[key]; clash {
			return nil, errInvalidDefinition(def.Name, "optional name conflicts with a long flag alias", "alias", key)
		}
	}

	return d, nil
}

func (d *Descriptor) addFlag(command string, p ParameterSpec) error {
	if p.Type != TypeBool {
		return errInvalidDefinition(command, "flag parameter must be bool",
			"parameter", p.Name, "type", string(p.Type))
	}
	if len(p.Aliases) == 0 {
		return errInvalidDefinition(command, "flag parameter must declare at least one alias", "parameter", p.Name)
	}

	for _, alias := range p.Aliases {
		if alias == "" || strings.HasPrefix(alias, "-") || strings.ContainsRune(alias, '=') ||
			strings.IndexFunc(alias, unicode.IsSpace) >= 0 {
			return errInvalidDefinition(command, "malformed flag alias", "parameter", p.Name, "alias", alias)
		}

		if utf8.RuneCountInString(alias) == 1 {
			r, _ := utf8.DecodeRuneInString(alias)
			if _, dup := d.shortFlags[r]; dup {
				return errInvalidDefinition(command, "conflicting short flag alias", "alias", alias)
			}
			d.shortFlags[r] = struct{}{}
			continue
		}

		if _, dup := d.longFlags[alias]; dup {
			return errInvalidDefinition(command, "conflicting long flag alias", "alias", alias)
		}
		d.longFlags[alias] = struct{}{}
	}
	return nil
}

// QualifiedName returns the "namespace:name" of the command.
func (d *Descriptor) QualifiedName() string { return d.name }

// Namespace returns the part of the qualified name before the colon.
func (d *Descriptor) Namespace() string {
	ns, _, _ := strings.Cut(d.name, ":")
	return ns
}

// Name returns the part of the qualified name after the colon.
func (d *Descriptor) Name() string {
	_, name, _ := strings.Cut(d.name, ":")
	return name
}

// HelpText returns the help text.
func (d *Descriptor) HelpText() string { return d.help }

// UsageText returns the usage text.
func (d *Descriptor) UsageText() string { return d.usage }

// ShouldLog reports whether invocations should be logged with their input.
func (d *Descriptor) ShouldLog() bool { return d.shouldLog }

// Params returns a copy of the classified parameter schema.
func (d *Descriptor) Params() []ParameterSpec {
	out := make([]ParameterSpec, len(d.params))
	for i, p := range d.params {
		p.Aliases = slices.Clone(p.Aliases)
		p.Directives = slices.Clone(p.Directives)
		out[i] = p
	}
	return out
}

// ShortFlags returns the declared short flag characters in sorted order.
func (d *Descriptor) ShortFlags() []rune {
	out := make([]rune, 0, len(d.shortFlags))
	for r := range d.shortFlags {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// LongFlags returns the declared long flag names in sorted order.
func (d *Descriptor) LongFlags() []string {
	out := make([]string, 0, len(d.longFlags))
	for f := range d.longFlags {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Optionals returns the declared --name=value names in sorted order.
func (d *Descriptor) Optionals() []string {
	out := make([]string, 0, len(d.optionals))
	for o := range d.optionals {
		out = append(out, o)
	}
	slices.Sort(out)
	return out
}

// hasHyphenated reports whether any flag or optional is declared.
func (d *Descriptor) hasHyphenated() bool {
	return len(d.shortFlags)+len(d.longFlags)+len(d.optionals) > 0
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package script loads command packs: a pack.yaml manifest declaring
// commands and a Lua source file implementing their handlers.
package script

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/holomush/cmdbind/internal/command"
)

// ManifestFile is the manifest file name inside a pack directory.
const ManifestFile = "pack.yaml"

// Error codes.
const (
	CodeInvalidManifest    = "INVALID_MANIFEST"
	CodeIncompatibleEngine = "INCOMPATIBLE_ENGINE"
	CodePackLoadFailed     = "PACK_LOAD_FAILED"
	CodePackAlreadyLoaded  = "PACK_ALREADY_LOADED"
	CodePackNotLoaded      = "PACK_NOT_LOADED"
	CodeHostClosed         = "HOST_CLOSED"
	CodeScriptFailed       = "SCRIPT_FAILED"
)

// Parameter role names accepted in manifests.
const (
	RoleSender     = "sender"
	RoleFlag       = "flag"
	RoleOptional   = "optional"
	RoleVariadic   = "variadic"
	RolePositional = "positional"
)

// Manifest represents a pack.yaml file.
type Manifest struct {
	Name     string        `yaml:"name" jsonschema:"pattern=^[a-z]([a-z0-9_-]*[a-z0-9])?$,maxLength=32" jsonschema_description:"Pack name, used as the command namespace"`
	Version  string        `yaml:"version" jsonschema:"minLength=1" jsonschema_description:"Semantic version of the pack (MAJOR.MINOR.PATCH)"`
	Engine   string        `yaml:"engine,omitempty" jsonschema_description:"Semantic version constraint the engine must satisfy, e.g. >=1.0.0"`
	Entry    string        `yaml:"entry" jsonschema:"minLength=1" jsonschema_description:"Lua source file relative to the pack directory"`
	Commands []CommandSpec `yaml:"commands" jsonschema:"minItems=1"`
}

// CommandSpec declares one command implemented by a Lua function.
type CommandSpec struct {
	Name      string      `yaml:"name" jsonschema:"minLength=1,maxLength=20"`
	Help      string      `yaml:"help,omitempty"`
	Usage     string      `yaml:"usage,omitempty"`
	Sensitive bool        `yaml:"sensitive,omitempty" jsonschema_description:"Do not log the input of invocations"`
	Handler   string      `yaml:"handler" jsonschema:"pattern=^[A-Za-z_][A-Za-z0-9_]*$" jsonschema_description:"Global Lua function called as handler(sender, args)"`
	Params    []ParamSpec `yaml:"params,omitempty"`
}

// ParamSpec declares one command parameter.
type ParamSpec struct {
	Name string `yaml:"name" jsonschema:"minLength=1"`
	// Type is a parser type key. For variadic parameters it is the element
	// type. Defaults to bool for flags, sender for senders, string otherwise.
	Type string `yaml:"type,omitempty"`
	// Role is left empty to classify by default: optional when a default is
	// given, positional otherwise.
	Role    string   `yaml:"role,omitempty" jsonschema:"enum=sender,enum=flag,enum=optional,enum=variadic,enum=positional"`
	Default any      `yaml:"default,omitempty" jsonschema_description:"Default value, parsed with the parameter's type parser"`
	Aliases []string `yaml:"aliases,omitempty" jsonschema_description:"Flag aliases: one character is -x, longer is --name"`
	Rest    bool     `yaml:"rest,omitempty" jsonschema_description:"String parameter takes the rest of the input"`
}

// maxNameLength is the maximum allowed length for pack names.
const maxNameLength = 32

// namePattern validates pack names: must start with lowercase letter,
// followed by lowercase letters, digits, hyphens or underscores.
// Cannot end with a hyphen or underscore.
var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9_-]*[a-z0-9])?$`)

var handlerPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseManifest parses and validates a pack.yaml file.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, invalidManifest().Errorf("manifest data is empty")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, invalidManifest().Wrapf(err, "invalid YAML")
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

func invalidManifest() oops.OopsErrorBuilder {
	return oops.In("script").Code(CodeInvalidManifest)
}

// Validate checks manifest constraints that do not depend on a registry.
func (m *Manifest) Validate() error {
	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return invalidManifest().With("pack", m.Name).
			Errorf("name %q must start with a-z, contain only a-z, 0-9, '-' or '_', and not end with '-' or '_'", m.Name)
	}
	if len(m.Name) > maxNameLength {
		return invalidManifest().With("pack", m.Name).
			Errorf("name must be %d characters or less, got %d", maxNameLength, len(m.Name))
	}

	if m.Version == "" {
		return invalidManifest().With("pack", m.Name).Errorf("version is required")
	}
	if _, err := semver.StrictNewVersion(m.Version); err != nil {
		return invalidManifest().With("pack", m.Name).With("version", m.Version).
			Wrapf(err, "version %q must be a semantic version (MAJOR.MINOR.PATCH)", m.Version)
	}
	if m.Engine != "" {
		if _, err := semver.NewConstraint(m.Engine); err != nil {
			return invalidManifest().With("pack", m.Name).With("engine", m.Engine).
				Wrapf(err, "engine %q is not a valid version constraint", m.Engine)
		}
	}

	if m.Entry == "" {
		return invalidManifest().With("pack", m.Name).Errorf("entry is required")
	}
	if !strings.HasSuffix(m.Entry, ".lua") {
		return invalidManifest().With("pack", m.Name).With("entry", m.Entry).
			Errorf("entry must be a .lua file")
	}

	if len(m.Commands) == 0 {
		return invalidManifest().With("pack", m.Name).Errorf("at least one command is required")
	}
	seen := make(map[string]bool, len(m.Commands))
	for i, c := range m.Commands {
		if err := command.ValidateCommandName(c.Name); err != nil {
			return invalidManifest().With("pack", m.Name).With("index", i).
				Errorf("commands[%d]: %v", i, err)
		}
		if seen[c.Name] {
			return invalidManifest().With("pack", m.Name).With("command", c.Name).
				Errorf("command %q declared more than once", c.Name)
		}
		seen[c.Name] = true
		if !handlerPattern.MatchString(c.Handler) {
			return invalidManifest().With("pack", m.Name).With("command", c.Name).
				Errorf("handler %q must be a Lua identifier", c.Handler)
		}
		for j, p := range c.Params {
			if p.Name == "" {
				return invalidManifest().With("pack", m.Name).With("command", c.Name).
					Errorf("params[%d]: name is required", j)
			}
			if _, ok := roleNames[p.Role]; !ok {
				return invalidManifest().With("pack", m.Name).With("command", c.Name).
					With("role", p.Role).
					Errorf("params[%d]: unknown role %q", j, p.Role)
			}
		}
	}

	return nil
}

// CheckEngine reports whether the engine version satisfies the manifest's
// engine constraint. A nil engine or an empty constraint always passes.
func (m *Manifest) CheckEngine(engine *semver.Version) error {
	if m.Engine == "" || engine == nil {
		return nil
	}
	c, err := semver.NewConstraint(m.Engine)
	if err != nil {
		return invalidManifest().With("pack", m.Name).With("engine", m.Engine).
			Wrapf(err, "engine %q is not a valid version constraint", m.Engine)
	}
	if !c.Check(engine) {
		return oops.In("script").Code(CodeIncompatibleEngine).
			With("pack", m.Name).
			With("engine", m.Engine).
			With("engine_version", engine.String()).
			Errorf("pack %s requires engine %s, running %s", m.Name, m.Engine, engine)
	}
	return nil
}

var roleNames = map[string]command.Role{
	"":             command.RoleAuto,
	RoleSender:     command.RoleSender,
	RoleFlag:       command.RoleFlag,
	RoleOptional:   command.RoleOptional,
	RoleVariadic:   command.RoleVariadic,
	RolePositional: command.RolePositional,
}

// Definitions converts the manifest's commands into command definitions in
// the pack's namespace. Defaults are parsed with parsers.
func (m *Manifest) Definitions(parsers *command.ParserRegistry) ([]command.Definition, error) {
	defs := make([]command.Definition, 0, len(m.Commands))
	for _, c := range m.Commands {
		def := command.Definition{
			Name:      m.Name + ":" + c.Name,
			Help:      c.Help,
			Usage:     c.Usage,
			Sensitive: c.Sensitive,
			Params:    make([]command.ParameterSpec, 0, len(c.Params)),
		}
		for _, p := range c.Params {
			spec, err := p.spec(parsers)
			if err != nil {
				return nil, invalidManifest().
					With("pack", m.Name).
					With("command", c.Name).
					With("parameter", p.Name).
					Errorf("command %s parameter %s: %v", c.Name, p.Name, err)
			}
			def.Params = append(def.Params, spec)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (p ParamSpec) spec(parsers *command.ParserRegistry) (command.ParameterSpec, error) {
	role, ok := roleNames[p.Role]
	if !ok {
		return command.ParameterSpec{}, fmt.Errorf("unknown role %q", p.Role)
	}

	t := command.Type(p.Type)
	if t == "" {
		switch role {
		case command.RoleFlag:
			t = command.TypeBool
		case command.RoleSender:
			t = command.TypeSender
		default:
			t = command.TypeString
		}
	}
	if role == command.RoleVariadic && !t.IsSlice() {
		t = command.SliceOf(t)
	}

	spec := command.ParameterSpec{
		Name:    p.Name,
		Type:    t,
		Role:    role,
		Aliases: p.Aliases,
	}
	if p.Rest {
		spec = spec.With(command.DirectiveRestOfInput)
	}
	if text, ok := p.Default.(string); ok && t == command.TypeString {
		spec.Default = text
		spec.HasDefault = true
	} else if p.Default != nil {
		v, err := parsers.ParseValue(t, fmt.Sprint(p.Default))
		if err != nil {
			return command.ParameterSpec{}, err
		}
		spec.Default = v
		spec.HasDefault = true
	}
	return spec, nil
}

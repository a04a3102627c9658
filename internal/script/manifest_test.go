// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package script

import (
	"context"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/cmdbind/internal/command"
	"github.com/holomush/cmdbind/pkg/errutil"
)

const validManifest = `
name: fun
version: 1.2.3
entry: main.lua
commands:
  - name: greet
    help: Greets someone.
    usage: greet <name>
    handler: greet
    params:
      - name: sender
        role: sender
      - name: who
`

func TestParseManifest_Valid(t *testing.T) {
	m, err := ParseManifest([]byte(validManifest))
	require.NoError(t, err)

	assert.Equal(t, "fun", m.Name)
	assert.Equal(t, "1.2.3", m.Version)
	assert.Empty(t, m.Engine)
	assert.Equal(t, "main.lua", m.Entry)
	require.Len(t, m.Commands, 1)

	c := m.Commands[0]
	assert.Equal(t, "greet", c.Name)
	assert.Equal(t, "Greets someone.", c.Help)
	assert.Equal(t, "greet <name>", c.Usage)
	assert.Equal(t, "greet", c.Handler)
	assert.False(t, c.Sensitive)
	require.Len(t, c.Params, 2)
	assert.Equal(t, RoleSender, c.Params[0].Role)
	assert.Empty(t, c.Params[1].Role)
}

func TestParseManifest_Empty(t *testing.T) {
	_, err := ParseManifest(nil)
	errutil.AssertErrorCode(t, err, CodeInvalidManifest)
}

func TestParseManifest_InvalidYAML(t *testing.T) {
	_, err := ParseManifest([]byte("name: [fun"))
	errutil.AssertErrorCode(t, err, CodeInvalidManifest)
}

func TestManifest_Validate(t *testing.T) {
	valid := func() *Manifest {
		return &Manifest{
			Name:    "fun",
			Version: "1.0.0",
			Entry:   "main.lua",
			Commands: []CommandSpec{{
				Name:    "greet",
				Handler: "greet",
				Params:  []ParamSpec{{Name: "who"}},
			}},
		}
	}

	tests := []struct {
		name    string
		modify  func(*Manifest)
		wantErr string
	}{
		{"valid", func(*Manifest) {}, ""},
		{"empty name", func(m *Manifest) { m.Name = "" }, "name"},
		{"uppercase name", func(m *Manifest) { m.Name = "Fun" }, "name"},
		{"name ends with hyphen", func(m *Manifest) { m.Name = "fun-" }, "name"},
		{"name starts with digit", func(m *Manifest) { m.Name = "1fun" }, "name"},
		{"name too long", func(m *Manifest) { m.Name = "a" + strings.Repeat("b", 32) }, "32 characters"},
		{"single letter name", func(m *Manifest) { m.Name = "f" }, ""},
		{"underscore name", func(m *Manifest) { m.Name = "fun_pack" }, ""},
		{"missing version", func(m *Manifest) { m.Version = "" }, "version"},
		{"not semver - plain text", func(m *Manifest) { m.Version = "latest" }, "version"},
		{"not semver - two numbers", func(m *Manifest) { m.Version = "1.0" }, "version"},
		{"not semver - leading v", func(m *Manifest) { m.Version = "v1.0.0" }, "version"},
		{"prerelease version", func(m *Manifest) { m.Version = "1.0.0-beta.1" }, ""},
		{"engine constraint", func(m *Manifest) { m.Engine = ">=1.0.0, <2.0.0" }, ""},
		{"bad engine constraint", func(m *Manifest) { m.Engine = "newest" }, "engine"},
		{"missing entry", func(m *Manifest) { m.Entry = "" }, "entry"},
		{"entry not lua", func(m *Manifest) { m.Entry = "main.py" }, "entry"},
		{"no commands", func(m *Manifest) { m.Commands = nil }, "at least one command"},
		{"invalid command name", func(m *Manifest) { m.Commands[0].Name = "9lives" }, "commands[0]"},
		{"duplicate command", func(m *Manifest) {
			m.Commands = append(m.Commands, m.Commands[0])
		}, "more than once"},
		{"missing handler", func(m *Manifest) { m.Commands[0].Handler = "" }, "handler"},
		{"handler not identifier", func(m *Manifest) { m.Commands[0].Handler = "do-it" }, "handler"},
		{"param without name", func(m *Manifest) { m.Commands[0].Params[0].Name = "" }, "name is required"},
		{"unknown role", func(m *Manifest) { m.Commands[0].Params[0].Role = "switch" }, "unknown role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.modify(m)

			err := m.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			errutil.AssertErrorCode(t, err, CodeInvalidManifest)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestManifest_CheckEngine(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		engine     *semver.Version
		wantCode   string
	}{
		{"no constraint", "", semver.MustParse("0.1.0"), ""},
		{"no engine version", ">=2.0.0", nil, ""},
		{"satisfied", ">=1.0.0, <2.0.0", semver.MustParse("1.4.2"), ""},
		{"caret satisfied", "^1.2", semver.MustParse("1.9.0"), ""},
		{"too old", ">=1.0.0", semver.MustParse("0.9.0"), CodeIncompatibleEngine},
		{"too new", "~1.2.0", semver.MustParse("1.3.0"), CodeIncompatibleEngine},
		{"bad constraint", "newest", semver.MustParse("1.0.0"), CodeInvalidManifest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{Name: "fun", Engine: tt.constraint}

			err := m.CheckEngine(tt.engine)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			errutil.AssertErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestManifest_CheckEngine_Context(t *testing.T) {
	m := &Manifest{Name: "fun", Engine: ">=2.0.0"}

	err := m.CheckEngine(semver.MustParse("1.0.0"))
	errutil.AssertErrorContext(t, err, "pack", "fun")
	errutil.AssertErrorContext(t, err, "engine_version", "1.0.0")
}

func TestManifest_Definitions(t *testing.T) {
	m := &Manifest{
		Name: "fun",
		Commands: []CommandSpec{
			{
				Name:      "kick",
				Help:      "Kicks.",
				Usage:     "kick [-f] <who> [reason]",
				Sensitive: true,
				Handler:   "kick",
				Params: []ParamSpec{
					{Name: "sender", Role: RoleSender},
					{Name: "force", Role: RoleFlag, Aliases: []string{"f", "force"}},
					{Name: "who"},
					{Name: "reason", Default: "No reason given.", Rest: true},
				},
			},
			{
				Name:    "roll",
				Handler: "roll",
				Params: []ParamSpec{
					{Name: "sides", Type: "int", Default: 6},
					{Name: "loud", Type: "bool", Default: false},
					{Name: "mods", Type: "int", Role: RoleVariadic},
				},
			},
		},
	}

	defs, err := m.Definitions(command.NewParserRegistry())
	require.NoError(t, err)
	require.Len(t, defs, 2)

	kick := defs[0]
	assert.Equal(t, "fun:kick", kick.Name)
	assert.Equal(t, "Kicks.", kick.Help)
	assert.Equal(t, "kick [-f] <who> [reason]", kick.Usage)
	assert.True(t, kick.Sensitive)
	require.Len(t, kick.Params, 4)

	assert.Equal(t, command.RoleSender, kick.Params[0].Role)
	assert.Equal(t, command.TypeSender, kick.Params[0].Type)

	assert.Equal(t, command.RoleFlag, kick.Params[1].Role)
	assert.Equal(t, command.TypeBool, kick.Params[1].Type)
	assert.Equal(t, []string{"f", "force"}, kick.Params[1].Aliases)

	assert.Equal(t, command.RoleAuto, kick.Params[2].Role)
	assert.Equal(t, command.TypeString, kick.Params[2].Type)
	assert.False(t, kick.Params[2].HasDefault)

	assert.True(t, kick.Params[3].HasDefault)
	assert.Equal(t, "No reason given.", kick.Params[3].Default)
	assert.True(t, kick.Params[3].Directives.Has(command.DirectiveRestOfInput))

	roll := defs[1]
	assert.Equal(t, "fun:roll", roll.Name)
	require.Len(t, roll.Params, 3)
	assert.Equal(t, 6, roll.Params[0].Default)
	assert.Equal(t, false, roll.Params[1].Default)
	assert.Equal(t, command.RoleVariadic, roll.Params[2].Role)
	assert.Equal(t, command.SliceOf(command.TypeInt), roll.Params[2].Type)
}

func TestManifest_Definitions_RegisterCleanly(t *testing.T) {
	m, err := ParseManifest([]byte(validManifest))
	require.NoError(t, err)

	reg := command.NewRegistry()
	defs, err := m.Definitions(reg.Parsers())
	require.NoError(t, err)

	for _, def := range defs {
		_, err := reg.Register(def, func(_ context.Context, _ *command.Args) error { return nil })
		require.NoError(t, err)
	}
	_, ok := reg.Get("fun:greet")
	assert.True(t, ok)
}

func TestManifest_Definitions_BadDefault(t *testing.T) {
	tests := []struct {
		name  string
		param ParamSpec
	}{
		{"int default not a number", ParamSpec{Name: "n", Type: "int", Default: "many"}},
		{"int default overflows", ParamSpec{Name: "n", Type: "int", Default: 1 << 40}},
		{"bool default not a bool", ParamSpec{Name: "b", Type: "bool", Default: "maybe"}},
		{"unknown type", ParamSpec{Name: "d", Type: "duration", Default: "5s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{
				Name:     "fun",
				Commands: []CommandSpec{{Name: "cmd", Handler: "cmd", Params: []ParamSpec{tt.param}}},
			}

			_, err := m.Definitions(command.NewParserRegistry())
			errutil.AssertErrorCode(t, err, CodeInvalidManifest)
			errutil.AssertErrorContext(t, err, "parameter", tt.param.Name)
		})
	}
}

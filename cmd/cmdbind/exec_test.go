// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecCommand_Properties(t *testing.T) {
	cmd := NewExecCmd()

	assert.Contains(t, cmd.Use, "exec")
	assert.Contains(t, cmd.Short, "single command")
	assert.NotNil(t, cmd.Flags().Lookup("as"))
}

func TestExecCommand_RequiresLine(t *testing.T) {
	_, _, err := execute(t, "", "exec")
	assert.Error(t, err)
}

func TestExecCommand_BuiltIns(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"echo", []string{"exec", "echo", "hello", "world"}, "hello world\n"},
		{"echo repeat", []string{"exec", "echo", "--repeat=2", "hi"}, "hi\nhi\n"},
		{"sum", []string{"exec", "sum", "1", "2", "39"}, "42\n"},
		{"qualified name", []string{"exec", "core:sum", "5"}, "5\n"},
		{"whoami console", []string{"exec", "whoami"}, "You are Console (console).\n"},
		{"whoami player", []string{"exec", "--as", "alice", "whoami"}, "You are alice (player).\n"},
		{"flag after separator", []string{"exec", "--", "echo", "--repeat=2", "x"}, "x\nx\n"},
		{"repeat out of range", []string{"exec", "echo", "--repeat=99", "hi"}, "Repeat must be between 1 and 10.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestExecCommand_Failures(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantCode string
	}{
		{
			name:     "unknown command",
			args:     []string{"exec", "frobnicate"},
			wantOut:  "Unknown command. Try 'help'.",
			wantCode: "UNKNOWN_COMMAND",
		},
		{
			name:    "parse fault",
			args:    []string{"exec", "sum", "one"},
			wantOut: "Invalid syntax:",
		},
		{
			name:    "handler failure",
			args:    []string{"--scripts", moderationPack, "exec", "--as", "mod", "kick", "mod"},
			wantOut: "An error occurred while executing the command.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "command failed")
			assert.Contains(t, out, tt.wantOut)
			if tt.wantCode != "" {
				assert.Contains(t, err.Error(), tt.wantCode)
			}
		})
	}
}

func TestExecCommand_Prefix(t *testing.T) {
	out, _, err := execute(t, "", "--prefix", "/", "exec", "/echo", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)
}

func TestExecCommand_ConfigFile(t *testing.T) {
	path := writeConfig(t, `
prefix: "!"
log-level: error
scripts:
  - `+moderationPack+`
`)

	out, _, err := execute(t, "", "--config", path, "exec", "--as", "mod", "!kick", "bob", "spamming")
	require.NoError(t, err)
	assert.Equal(t, "Kicked bob: spamming\n", out)
}

func TestExecCommand_ScriptPack(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name: "default reason",
			args: []string{"exec", "--as", "mod", "kick", "bob"},
			want: "Kicked bob: Misbehaving.\n",
		},
		{
			name: "qualified name with rest",
			args: []string{"exec", "--as", "mod", "moderation:kick", "bob", "being", "loud"},
			want: "Kicked bob: being loud\n",
		},
		{
			name:    "self kick refused",
			args:    []string{"exec", "--as", "mod", "kick", "mod"},
			want:    "An error occurred while executing the command.\n",
			wantErr: true,
		},
		{
			name: "self kick forced",
			args: []string{"exec", "--as", "mod", "kick", "-f", "mod", "testing"},
			want: "Kicked mod: testing\n",
		},
		{
			name: "variadic ints",
			args: []string{"exec", "tally", "1", "1", "-1"},
			want: "3 votes: 2 for, 1 against, net 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--scripts", moderationPack}, tt.args...)
			out, _, err := execute(t, "", args...)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestExecCommand_BrokenPackIsSkipped(t *testing.T) {
	out, errOut, err := execute(t, "",
		"--log-level", "error",
		"--scripts", t.TempDir(),
		"exec", "echo", "still", "works")
	require.NoError(t, err)
	assert.Equal(t, "still works\n", out)
	assert.Contains(t, errOut, "failed to load command pack")
}

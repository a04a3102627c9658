// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/holomush/cmdbind/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the cmdbind CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cmdbind",
		Short: "cmdbind - typed command parsing and dispatch",
		Long: `cmdbind binds command lines to typed handler parameters.
It runs built-in commands and Lua command packs from an interactive
console or one line at a time.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default $XDG_CONFIG_HOME/cmdbind/config.yaml if present)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewConsoleCmd())
	cmd.AddCommand(NewExecCmd())
	cmd.AddCommand(NewCommandsCmd())
	cmd.AddCommand(NewValidatePackCmd())

	return cmd
}

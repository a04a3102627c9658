// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCommandsCmd creates the commands subcommand.
func NewCommandsCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List available commands",
		Long: `List every built-in command and every command loaded from the
configured command packs, by qualified name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommands(cmd, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include usage text")
	return cmd
}

func runCommands(cmd *cobra.Command, verbose bool) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	out := cmd.OutOrStdout()
	for _, c := range a.registry.All() {
		d := c.Descriptor()
		fmt.Fprintf(out, "%s - %s\n", d.QualifiedName(), d.HelpText())
		if verbose {
			fmt.Fprintf(out, "    usage: %s\n", d.UsageText())
		}
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/holomush/cmdbind/internal/command"
)

// NewExecCmd creates the exec subcommand.
func NewExecCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "exec [flags] -- <command line>",
		Short: "Run a single command line",
		Long: `Dispatch one command line and exit. The arguments are joined with
single spaces to form the line; use -- to pass flags through to the command.
Exits non-zero if the command fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, as, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "dispatch as the named player instead of the console")
	// Flags after the command name belong to the command line.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runExec(cmd *cobra.Command, as, line string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if err := a.dispatch(ctx, "exec", newSender(as, cmd.OutOrStdout()), line); err != nil {
		cmd.SilenceUsage = true
		return fmt.Errorf("command failed: %s", command.FaultCode(err))
	}
	return nil
}

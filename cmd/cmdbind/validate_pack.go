// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/holomush/cmdbind/internal/command"
	"github.com/holomush/cmdbind/internal/script"
)

// NewValidatePackCmd creates the validate-pack subcommand.
func NewValidatePackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-pack <dir>...",
		Short: "Validate command packs without running them",
		Long: `Validates each command pack directory: the manifest schema, the
engine constraint, the Lua entry file and every command definition.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch pack errors early:
  cmdbind validate-pack packs/moderation`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := loadConfig(cmd); err != nil {
				return err
			}
			return runValidatePack(cmd, args)
		},
	}
}

func runValidatePack(cmd *cobra.Command, dirs []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	failed := 0
	for _, dir := range dirs {
		// A registry per pack so packs are checked independently.
		host := script.NewHost(command.NewRegistry(), script.WithEngineVersion(engineVersion()))
		m, err := host.LoadDir(ctx, dir)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %s\n", dir, script.FormatSchemaError(err))
			slog.Debug("pack validation failed", "dir", dir, "error", err)
			continue
		}
		fmt.Fprintf(out, "ok   %s %s (%d commands)\n", m.Name, m.Version, len(m.Commands))
		//nolint:errcheck // nothing is left to release on failure
		host.Close(ctx)
	}

	if failed > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("validation failed: %d of %d packs invalid", failed, len(dirs))
	}
	return nil
}

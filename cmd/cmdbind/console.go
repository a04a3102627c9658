// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

// consolePrompt is written before each line is read.
const consolePrompt = "> "

// NewConsoleCmd creates the console subcommand.
func NewConsoleCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Run commands interactively",
		Long: `Read command lines from standard input and dispatch them one at a
time until end of input or interrupt. Command output and error messages
are written to standard output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(cmd, as)
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "dispatch as the named player instead of the console")
	return cmd
}

func runConsole(cmd *cobra.Command, as string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	out := cmd.OutOrStdout()
	sender := newSender(as, out)
	lines := readLines(ctx, cmd.InOrStdin())

	a.logger.InfoContext(ctx, "console started", "sender", sender.Name(), "packs", a.host.Packs())
	for {
		fmt.Fprint(out, consolePrompt)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			a.logger.InfoContext(ctx, "console interrupted")
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			line = l
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		//nolint:errcheck // the sender has already been told
		a.dispatch(ctx, "console", sender, line)
	}
}

// readLines streams lines from r until EOF or ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

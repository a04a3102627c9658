// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSender(name string, player bool) (*WriterSender, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewWriterSender(name, player, buf), buf
}

func noopHandler(_ context.Context, _ *Args) error {
	return nil
}

// captureHandler returns a handler storing the last bound Args in *got.
func captureHandler(got **Args) Handler {
	return func(_ context.Context, args *Args) error {
		*got = args
		return nil
	}
}

func mustCommand(t *testing.T, def Definition, h Handler) *Command {
	t.Helper()
	cmd, err := NewCommand(def, h, NewParserRegistry())
	require.NoError(t, err)
	return cmd
}

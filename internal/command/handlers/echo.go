// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"
	"fmt"

	"github.com/holomush/cmdbind/internal/command"
)

// MaxEchoRepeat bounds --repeat for core:echo.
const MaxEchoRepeat = 10

// EchoHandler sends the rest of the input back to the sender.
// An out-of-range --repeat is reported to the sender, not returned.
func EchoHandler(_ context.Context, args *command.Args) error {
	repeat := args.Int("repeat")
	if repeat < 1 || repeat > MaxEchoRepeat {
		args.Sender().SendMessage(fmt.Sprintf("Repeat must be between 1 and %d.", MaxEchoRepeat))
		return nil
	}

	text := args.String("text")
	for range repeat {
		args.Sender().SendMessage(text)
	}
	return nil
}

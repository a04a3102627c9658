// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"
	"fmt"

	"github.com/holomush/cmdbind/internal/command"
)

// WhoamiHandler tells the sender their name and kind.
func WhoamiHandler(_ context.Context, args *command.Args) error {
	sender := command.Get[command.Sender](args, "sender")
	kind := "console"
	if sender.IsPlayer() {
		kind = "player"
	}
	sender.SendMessage(fmt.Sprintf("You are %s (%s).", sender.Name(), kind))
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"
	"strconv"

	"github.com/holomush/cmdbind/internal/command"
)

// SumHandler adds up its arguments. No arguments sum to zero.
func SumHandler(_ context.Context, args *command.Args) error {
	var total int64
	for _, v := range args.Ints("values") {
		total += int64(v)
	}
	args.Sender().SendMessage(strconv.FormatInt(total, 10))
	return nil
}

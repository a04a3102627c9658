// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Sender identifies who issued a command.
type Sender interface {
	// Name returns the display name.
	Name() string
	// IsPlayer reports whether the sender is an interactive actor rather
	// than the console or another non-interactive source.
	IsPlayer() bool
	// SendMessage delivers a line of output to the sender.
	SendMessage(msg string)
}

// ConsoleName is the display name of the console sender.
const ConsoleName = "Console"

// WriterSender is a Sender writing its messages to an io.Writer, one per line.
// It is safe for concurrent use.
type WriterSender struct {
	name   string
	player bool
	mu     sync.Mutex
	w      io.Writer
}

// NewWriterSender creates a sender named name writing to w.
func NewWriterSender(name string, player bool, w io.Writer) *WriterSender {
	return &WriterSender{name: name, player: player, w: w}
}

// NewConsoleSender creates the non-player console sender writing to w.
// If w is nil, it writes to os.Stdout.
func NewConsoleSender(w io.Writer) *WriterSender {
	if w == nil {
		w = os.Stdout
	}
	return NewWriterSender(ConsoleName, false, w)
}

// Name implements Sender.
func (s *WriterSender) Name() string { return s.name }

// IsPlayer implements Sender.
func (s *WriterSender) IsPlayer() bool { return s.player }

// SendMessage implements Sender. Write errors are dropped; the sender has
// nowhere else to report them.
func (s *WriterSender) SendMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	//nolint:errcheck // output to a gone sender is discarded
	fmt.Fprintln(s.w, msg)
}

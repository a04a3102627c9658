// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package testutil provides helpers for testing command handlers.
package testutil

import (
	"strings"
	"sync"

	"github.com/holomush/cmdbind/internal/command"
)

// RecordingSender is a command.Sender that keeps every message it receives.
type RecordingSender struct {
	name   string
	player bool

	mu       sync.Mutex
	messages []string
}

var _ command.Sender = (*RecordingSender)(nil)

// NewPlayer creates a recording sender for a player.
func NewPlayer(name string) *RecordingSender {
	return &RecordingSender{name: name, player: true}
}

// NewConsole creates a recording sender for the console.
func NewConsole() *RecordingSender {
	return &RecordingSender{name: command.ConsoleName}
}

// Name implements command.Sender.
func (s *RecordingSender) Name() string { return s.name }

// IsPlayer implements command.Sender.
func (s *RecordingSender) IsPlayer() bool { return s.player }

// SendMessage implements command.Sender.
func (s *RecordingSender) SendMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Messages returns a copy of the received messages.
func (s *RecordingSender) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

// Output returns all received messages joined by newlines.
func (s *RecordingSender) Output() string {
	return strings.Join(s.Messages(), "\n")
}

// Reset discards received messages.
func (s *RecordingSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"context"
	"sync"
	"sync/atomic"
)

// ExecuteEvent is raised synchronously before a command parses its input.
// Observers may cancel the invocation or rewrite the input that will be parsed.
type ExecuteEvent struct {
	command  *Descriptor
	sender   Sender
	input    string
	canceled bool
	reason   string
}

// Command returns the descriptor of the command about to run.
func (e *ExecuteEvent) Command() *Descriptor { return e.command }

// Sender returns the invoking sender.
func (e *ExecuteEvent) Sender() Sender { return e.sender }

// Input returns the raw input that will be parsed.
func (e *ExecuteEvent) Input() string { return e.input }

// SetInput replaces the raw input that will be parsed.
func (e *ExecuteEvent) SetInput(input string) { e.input = input }

// Cancel stops the invocation. No input is parsed and the handler is not called.
func (e *ExecuteEvent) Cancel(reason string) {
	e.canceled = true
	e.reason = reason
}

// Canceled reports whether an observer canceled the invocation.
func (e *ExecuteEvent) Canceled() bool { return e.canceled }

// CancelReason returns the reason given to Cancel.
func (e *ExecuteEvent) CancelReason() string { return e.reason }

// ExecuteHook observes command invocations before parsing.
type ExecuteHook func(ctx context.Context, e *ExecuteEvent)

// hookList is a copy-on-write list of hooks. Firing never takes a lock.
type hookList struct {
	mu    sync.Mutex // serializes writers
	hooks atomic.Pointer[[]ExecuteHook]
}

func (h *hookList) add(hook ExecuteHook) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var next []ExecuteHook
	if cur := h.hooks.Load(); cur != nil {
		next = append(next, *cur...)
	}
	next = append(next, hook)
	h.hooks.Store(&next)
}

// fire runs every hook in registration order. All hooks run even after one
// cancels; the cancel flag is read once they are done. A panicking hook
// stops the remaining hooks and is returned as an error.
func (h *hookList) fire(ctx context.Context, e *ExecuteEvent) error {
	if h == nil {
		return nil
	}
	cur := h.hooks.Load()
	if cur == nil {
		return nil
	}
	for _, hook := range *cur {
		if err := runHook(ctx, hook, e); err != nil {
			return err
		}
	}
	return nil
}

func runHook(ctx context.Context, hook ExecuteHook, e *ExecuteEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError("hook", r)
		}
	}()
	hook(ctx, e)
	return nil
}

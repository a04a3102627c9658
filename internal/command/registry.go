// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/samber/oops"
)

// Registry owns the parser registry, the registered commands and the
// pre-execution hooks. It is safe for concurrent use; commands may be
// registered and unregistered while others are being looked up.
type Registry struct {
	parsers  *ParserRegistry
	hooks    *hookList
	commands map[string]*Command // by qualified name
	mu       sync.RWMutex
}

// RegistryOption configures a Registry during construction.
type RegistryOption func(*Registry)

// WithParsers makes the registry use parsers instead of the built-in set.
func WithParsers(parsers *ParserRegistry) RegistryOption {
	return func(r *Registry) {
		r.parsers = parsers
	}
}

// NewRegistry creates a command registry with the built-in parsers.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		hooks:    &hookList{},
		commands: make(map[string]*Command),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.parsers == nil {
		r.parsers = NewParserRegistry()
	}
	return r
}

// Parsers returns the parser registry used to build descriptors.
// New argument types are added with RegisterParser on it.
func (r *Registry) Parsers() *ParserRegistry {
	return r.parsers
}

// OnExecute adds a hook run before every command invocation.
func (r *Registry) OnExecute(hook ExecuteHook) {
	r.hooks.add(hook)
}

// Register builds and adds a command. Definitions that fail to build are
// rejected, as are qualified names already registered.
func (r *Registry) Register(def Definition, handler Handler) (*Command, error) {
	cmd, err := newCommand(def, handler, r.parsers, r.hooks)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[def.Name]; exists {
		return nil, oops.In("command").Code(CodeDuplicateCommand).
			With("command", def.Name).
			Errorf("command %s is already registered", def.Name)
	}
	r.commands[def.Name] = cmd

	slog.Debug("command registered", "command", def.Name, "params", len(cmd.desc.params))
	return cmd, nil
}

// MustRegister is Register that panics on error. It is meant for built-in
// commands whose definitions are fixed at compile time.
func (r *Registry) MustRegister(def Definition, handler Handler) *Command {
	cmd, err := r.Register(def, handler)
	if err != nil {
		panic("command.MustRegister: " + err.Error())
	}
	return cmd
}

// Unregister removes a command by qualified name.
// It reports whether the command was registered.
func (r *Registry) Unregister(qualifiedName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[qualifiedName]; !ok {
		return false
	}
	delete(r.commands, qualifiedName)
	slog.Debug("command unregistered", "command", qualifiedName)
	return true
}

// Get retrieves a command by qualified name.
func (r *Registry) Get(qualifiedName string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[qualifiedName]
	return cmd, ok
}

// Find resolves a qualified name, or a bare name when exactly one namespace
// registers it. Bare name matching is case-insensitive.
func (r *Registry) Find(name string) (*Command, error) {
	if strings.Contains(name, ":") {
		if cmd, ok := r.Get(name); ok {
			return cmd, nil
		}
		return nil, ErrUnknownCommand(name)
	}

	r.mu.RLock()
	var matches []*Command
	for _, cmd := range r.commands {
		if strings.EqualFold(cmd.desc.Name(), name) {
			matches = append(matches, cmd)
		}
	}
	r.mu.RUnlock()

	switch len(matches) {
	case 0:
		return nil, ErrUnknownCommand(name)
	case 1:
		return matches[0], nil
	default:
		candidates := make([]string, len(matches))
		for i, m := range matches {
			candidates[i] = m.desc.name
		}
		slices.Sort(candidates)
		return nil, ErrAmbiguousCommand(name, candidates)
	}
}

// All returns all registered commands sorted by qualified name.
// The returned slice is a copy and safe to modify.
func (r *Registry) All() []*Command {
	r.mu.RLock()
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	r.mu.RUnlock()

	slices.SortFunc(cmds, func(a, b *Command) int {
		return strings.Compare(a.desc.name, b.desc.name)
	})
	return cmds
}

// Invoke resolves name and invokes it for sender with input.
func (r *Registry) Invoke(ctx context.Context, sender Sender, name, input string) error {
	cmd, err := r.Find(name)
	if err != nil {
		return err
	}
	return cmd.Invoke(ctx, sender, input)
}

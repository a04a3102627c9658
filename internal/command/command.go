// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"context"
	"slices"
)

// Handler runs a command after its input has been bound.
// Returned errors are reported to the caller as *ExecuteError.
type Handler func(ctx context.Context, args *Args) error

// Outcome is the terminal state of one invocation.
type Outcome int

// Invocation outcomes.
const (
	OutcomeNone Outcome = iota // rejected before the pre-execution hook
	OutcomeDone
	OutcomeCanceled
	OutcomeParseFault
	OutcomeHandlerFault // the handler or a pre-execution hook failed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeParseFault:
		return "parse_fault"
	case OutcomeHandlerFault:
		return "handler_fault"
	default:
		return "none"
	}
}

// Command is a registered handler together with its descriptor.
type Command struct {
	desc    *Descriptor
	handler Handler
	parsers *ParserRegistry
	hooks   *hookList
}

// NewCommand builds a standalone command outside of a Registry.
// Standalone commands have no pre-execution hooks.
func NewCommand(def Definition, handler Handler, parsers *ParserRegistry) (*Command, error) {
	return newCommand(def, handler, parsers, nil)
}

func newCommand(def Definition, handler Handler, parsers *ParserRegistry, hooks *hookList) (*Command, error) {
	if handler == nil {
		return nil, errInvalidDefinition(def.Name, "handler cannot be nil")
	}
	if parsers == nil {
		return nil, errInvalidDefinition(def.Name, "parser registry cannot be nil")
	}
	desc, err := NewDescriptor(def, parsers)
	if err != nil {
		return nil, err
	}
	return &Command{
		desc:    desc,
		handler: handler,
		parsers: parsers,
		hooks:   hooks,
	}, nil
}

// Descriptor returns the command's descriptor.
func (c *Command) Descriptor() *Descriptor {
	return c.desc
}

// QualifiedName returns the command's "namespace:name".
func (c *Command) QualifiedName() string {
	return c.desc.name
}

// Invoke parses input for sender and runs the handler.
// It returns nil on success or when a pre-execution hook cancels the call,
// a *ParseError when the input does not bind, or an *ExecuteError when the
// handler fails or a hook panics.
func (c *Command) Invoke(ctx context.Context, sender Sender, input string) error {
	_, err := c.Execute(ctx, sender, input)
	return err
}

// Execute is Invoke that also reports the terminal state.
func (c *Command) Execute(ctx context.Context, sender Sender, input string) (Outcome, error) {
	if sender == nil {
		return OutcomeNone, ErrNilSender
	}

	event := &ExecuteEvent{command: c.desc, sender: sender, input: input}
	if err := c.hooks.fire(ctx, event); err != nil {
		return OutcomeHandlerFault, newExecuteError(c.desc.name, err)
	}
	if event.Canceled() {
		return OutcomeCanceled, nil
	}

	args, err := c.bindInput(sender, event.Input())
	if err != nil {
		return OutcomeParseFault, err
	}

	if err := c.call(ctx, args); err != nil {
		return OutcomeHandlerFault, newExecuteError(c.desc.name, err)
	}
	return OutcomeDone, nil
}

// call runs the handler, converting a panic into an error.
func (c *Command) call(ctx context.Context, args *Args) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError("handler", r)
		}
	}()
	return c.handler(ctx, args)
}

// Args are the values bound for one invocation, in declaration order.
type Args struct {
	sender Sender
	params []ParameterSpec
	values []any
}

// NewArgs builds Args directly. It is intended for testing handlers.
func NewArgs(sender Sender, params []ParameterSpec, values []any) *Args {
	return &Args{sender: sender, params: params, values: values}
}

// Sender returns the invoking sender.
func (a *Args) Sender() Sender { return a.sender }

// Len returns the number of bound parameters.
func (a *Args) Len() int { return len(a.values) }

// Value returns the i-th bound value.
func (a *Args) Value(i int) any { return a.values[i] }

// Values returns a copy of the bound values in declaration order.
func (a *Args) Values() []any { return slices.Clone(a.values) }

// Lookup returns the value bound to the named parameter.
func (a *Args) Lookup(name string) (any, bool) {
	for i, p := range a.params {
		if p.Name == name {
			return a.values[i], true
		}
	}
	return nil, false
}

// Get returns the named value as T, or the zero value if the parameter is
// unknown or holds another type.
func Get[T any](a *Args, name string) T {
	var zero T
	v, ok := a.Lookup(name)
	if !ok {
		return zero
	}
	t, ok := v.(T)
	if !ok {
		return zero
	}
	return t
}

// String returns the named string value.
func (a *Args) String(name string) string { return Get[string](a, name) }

// Int returns the named int value.
func (a *Args) Int(name string) int { return Get[int](a, name) }

// Bool returns the named bool value.
func (a *Args) Bool(name string) bool { return Get[bool](a, name) }

// Strings returns the named []string value.
func (a *Args) Strings(name string) []string { return Get[[]string](a, name) }

// Ints returns the named []int value.
func (a *Args) Ints(name string) []int { return Get[[]int](a, name) }

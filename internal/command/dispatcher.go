// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/holomush/cmdbind/pkg/errutil"
)

var tracer = otel.Tracer("cmdbind/command")

// ErrNilRegistry is returned by NewDispatcher when no registry is given.
var ErrNilRegistry = oops.In("command").Code("NIL_REGISTRY").Errorf("registry cannot be nil")

// Dispatcher turns command lines into invocations: it splits off the command
// name, resolves it, applies rate limiting, logs and traces the call.
type Dispatcher struct {
	registry    *Registry
	rateLimiter *RateLimiter // optional, can be nil
	prefix      string
	logger      *slog.Logger
}

// DispatcherOption configures a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithRateLimiter enables per-sender rate limiting for player senders.
func WithRateLimiter(rl *RateLimiter) DispatcherOption {
	return func(d *Dispatcher) {
		d.rateLimiter = rl
	}
}

// WithPrefix sets a prefix stripped from command names, such as "/".
func WithPrefix(prefix string) DispatcherOption {
	return func(d *Dispatcher) {
		d.prefix = prefix
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher over registry.
func NewDispatcher(registry *Registry, opts ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	d := &Dispatcher{registry: registry}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d, nil
}

// Registry returns the registry commands are resolved from.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch resolves and invokes the command named by the first token of line.
// The error, if any, is meant to be rendered to the sender with Message.
func (d *Dispatcher) Dispatch(ctx context.Context, sender Sender, line string) (err error) {
	if sender == nil {
		return ErrNilSender
	}

	parsed, err := SplitLine(line, d.prefix)
	if err != nil {
		return err
	}

	invocationID := ulid.Make().String()
	ctx, span := tracer.Start(ctx, "command.dispatch",
		trace.WithAttributes(
			attribute.String("command.name", parsed.Name),
			attribute.String("command.invocation_id", invocationID),
			attribute.String("sender.name", sender.Name()),
			attribute.Bool("sender.player", sender.IsPlayer()),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rec := newMetricsRecorder()
	defer rec.record()

	cmd, err := d.registry.Find(parsed.Name)
	if err != nil {
		return err
	}
	desc := cmd.Descriptor()
	rec.setCommand(desc.QualifiedName())
	span.SetAttributes(attribute.String("command.qualified_name", desc.QualifiedName()))

	if d.rateLimiter != nil && sender.IsPlayer() {
		allowed, cooldownMs := d.rateLimiter.Allow(sender.Name())
		if !allowed {
			span.SetAttributes(attribute.Bool("command.rate_limited", true))
			span.SetAttributes(attribute.Int64("command.cooldown_ms", cooldownMs))
			rec.setStatus(StatusRateLimited)
			return ErrRateLimited(cooldownMs)
		}
	}

	logger := d.logger.With(
		"invocation_id", invocationID,
		"sender", sender.Name(),
		"command", desc.QualifiedName(),
	)
	if desc.ShouldLog() {
		logger.InfoContext(ctx, "command received", "input", parsed.Input)
	} else {
		logger.InfoContext(ctx, "command received")
	}

	outcome, err := cmd.Execute(ctx, sender, parsed.Input)
	rec.setOutcome(outcome, err)
	span.SetAttributes(attribute.String("command.outcome", outcome.String()))

	switch outcome {
	case OutcomeDone:
		logger.InfoContext(ctx, "command executed")
	case OutcomeCanceled:
		logger.DebugContext(ctx, "command canceled by pre-execution hook")
	case OutcomeParseFault:
		logger.DebugContext(ctx, "command input rejected", "code", FaultCode(err), "error", err)
	case OutcomeHandlerFault:
		errutil.LogError(logger, "command execution failed", err)
	}
	return err
}

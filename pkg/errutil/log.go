// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package errutil provides helpers for logging and asserting coded errors.
package errutil

import (
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// Coder is implemented by typed errors that expose their own fault code,
// taking precedence over the code of any oops error they wrap.
type Coder interface {
	Code() string
}

// CodeOf returns the code of err: the outermost Coder in the chain, else the
// oops code, else "".
func CodeOf(err error) string {
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code, ok := oopsErr.Code().(string); ok {
			return code
		}
	}
	return ""
}

// LogError logs err at error level with its code, domain and context when
// it is an oops error, or just its message otherwise.
func LogError(logger *slog.Logger, msg string, err error) {
	attrs := []any{"error", err.Error()}
	if code := CodeOf(err); code != "" {
		attrs = append(attrs, "code", code)
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if domain := oopsErr.Domain(); domain != "" {
			attrs = append(attrs, "domain", domain)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
	}
	logger.Error(msg, attrs...)
}

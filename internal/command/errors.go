// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"errors"
	"fmt"

	"github.com/samber/oops"

	"github.com/holomush/cmdbind/pkg/errutil"
)

// Parse fault codes. These describe input the sender typed incorrectly.
const (
	CodeUnrecognizedShortFlag = "UNRECOGNIZED_SHORT_FLAG"
	CodeUnrecognizedLongFlag  = "UNRECOGNIZED_LONG_FLAG"
	CodeUnrecognizedOptional  = "UNRECOGNIZED_OPTIONAL"
	CodeInvalidHyphenated     = "INVALID_HYPHENATED_ARGUMENT"
	CodeMissingArgument       = "MISSING_ARGUMENT"
	CodeTooManyArguments      = "TOO_MANY_ARGUMENTS"
	CodeUnrecognizedEscape    = "UNRECOGNIZED_ESCAPE"
	CodeInvalidBackslash      = "INVALID_BACKSLASH"
	CodeIntegerOverflow       = "INTEGER_OVERFLOW"
	CodeIntegerFormat         = "INTEGER_FORMAT"
	CodeInvalidBool           = "INVALID_BOOL"
	CodeUnrecognizedArgType   = "UNRECOGNIZED_ARG_TYPE"
	CodeInvalidArgument       = "INVALID_ARGUMENT"
)

// Execution, registration and dispatch fault codes.
const (
	CodeExecuteFailed     = "EXECUTE_FAILED"
	CodeInvalidDefinition = "INVALID_DEFINITION"
	CodeDuplicateCommand  = "DUPLICATE_COMMAND"
	CodeUnknownCommand    = "UNKNOWN_COMMAND"
	CodeAmbiguousCommand  = "AMBIGUOUS_COMMAND"
	CodeEmptyInput        = "EMPTY_INPUT"
	CodeRateLimited       = "RATE_LIMITED"
	CodeNilSender         = "NIL_SENDER"
)

// ParseError reports input that could not be bound to a command's parameters.
// The wrapped error is an oops error carrying the code, context and stack.
type ParseError struct {
	code string
	err  error
}

func (e *ParseError) Error() string { return e.err.Error() }

// Unwrap returns the underlying oops error.
func (e *ParseError) Unwrap() error { return e.err }

// Code returns the parse fault code (one of the Code* parse constants).
func (e *ParseError) Code() string { return e.code }

// ExecuteError reports a fault raised by a command handler after its input
// was bound successfully, or by a pre-execution hook that panicked.
type ExecuteError struct {
	command string
	err     error
}

func (e *ExecuteError) Error() string { return e.err.Error() }

// Unwrap returns the underlying oops error, which in turn wraps the
// handler's original error.
func (e *ExecuteError) Unwrap() error { return e.err }

// Code always returns CodeExecuteFailed.
func (e *ExecuteError) Code() string { return CodeExecuteFailed }

// Command returns the qualified name of the command whose handler failed.
func (e *ExecuteError) Command() string { return e.command }

// IsParseFault reports whether err is (or wraps) a *ParseError that was not
// raised from inside a handler.
func IsParseFault(err error) bool {
	if IsExecuteFault(err) {
		return false
	}
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsExecuteFault reports whether err is (or wraps) an *ExecuteError.
func IsExecuteFault(err error) bool {
	var ee *ExecuteError
	return errors.As(err, &ee)
}

// FaultCode returns the outermost fault code of err, or "" if err carries none.
func FaultCode(err error) string {
	return errutil.CodeOf(err)
}

func parseFault(code string) oops.OopsErrorBuilder {
	return oops.In("command").Code(code)
}

func newParseError(code string, err error) error {
	return &ParseError{code: code, err: err}
}

// ErrUnrecognizedShortFlag creates a parse fault for an undeclared -x flag.
func ErrUnrecognizedShortFlag(flag rune) error {
	return newParseError(CodeUnrecognizedShortFlag, parseFault(CodeUnrecognizedShortFlag).
		With("flag", string(flag)).
		Errorf("unrecognized short flag: -%c", flag))
}

// ErrUnrecognizedLongFlag creates a parse fault for an undeclared --name flag.
func ErrUnrecognizedLongFlag(flag string) error {
	return newParseError(CodeUnrecognizedLongFlag, parseFault(CodeUnrecognizedLongFlag).
		With("flag", flag).
		Errorf("unrecognized long flag: --%s", flag))
}

// ErrUnrecognizedOptional creates a parse fault for an undeclared --name=value.
func ErrUnrecognizedOptional(name string) error {
	return newParseError(CodeUnrecognizedOptional, parseFault(CodeUnrecognizedOptional).
		With("optional", name).
		Errorf("unrecognized optional: --%s", name))
}

// ErrInvalidHyphenated creates a parse fault for a hyphen with no name.
func ErrInvalidHyphenated(token string) error {
	return newParseError(CodeInvalidHyphenated, parseFault(CodeInvalidHyphenated).
		With("token", token).
		Errorf("invalid hyphenated argument: %q", token))
}

// ErrMissingArgument creates a parse fault for a required parameter with no input.
func ErrMissingArgument(param string) error {
	return newParseError(CodeMissingArgument, parseFault(CodeMissingArgument).
		With("parameter", param).
		Errorf("missing argument: %s", param))
}

// ErrTooManyArguments creates a parse fault for input left after binding.
func ErrTooManyArguments(residue string) error {
	return newParseError(CodeTooManyArguments, parseFault(CodeTooManyArguments).
		With("residue", residue).
		Errorf("too many arguments"))
}

// ErrUnrecognizedEscape creates a parse fault for an unknown \x escape.
func ErrUnrecognizedEscape(c rune) error {
	return newParseError(CodeUnrecognizedEscape, parseFault(CodeUnrecognizedEscape).
		With("escape", string(c)).
		Errorf("unrecognized escape: \\%c", c))
}

// ErrInvalidBackslash creates a parse fault for a backslash ending the input.
func ErrInvalidBackslash() error {
	return newParseError(CodeInvalidBackslash, parseFault(CodeInvalidBackslash).
		Errorf("invalid trailing backslash"))
}

// ErrUnrecognizedArgType creates a parse fault for a type with no parser.
func ErrUnrecognizedArgType(t Type) error {
	return newParseError(CodeUnrecognizedArgType, parseFault(CodeUnrecognizedArgType).
		With("type", string(t)).
		Errorf("unrecognized argument type: %s", t))
}

// WrapParseFault converts a parser failure into a parse fault with the given
// code, preserving cause. A cause that already is a *ParseError is returned as is.
func WrapParseFault(code string, cause error, format string, args ...any) error {
	var pe *ParseError
	if errors.As(cause, &pe) {
		return cause
	}
	return newParseError(code, parseFault(code).Wrapf(cause, format, args...))
}

// newExecuteError wraps a handler or hook failure.
func newExecuteError(command string, cause error) error {
	return &ExecuteError{
		command: command,
		err: oops.In("command").
			Code(CodeExecuteFailed).
			With("command", command).
			Wrapf(cause, "command %s failed", command),
	}
}

// panicError converts a value recovered from source ("handler" or "hook")
// into an error.
func panicError(source string, v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("%s panic: %w", source, err)
	}
	return fmt.Errorf("%s panic: %v", source, v)
}

// errInvalidDefinition creates a registration fault.
func errInvalidDefinition(command, reason string, kv ...any) error {
	b := oops.In("command").Code(CodeInvalidDefinition).With("command", command)
	if len(kv) > 0 {
		b = b.With(kv...)
	}
	return b.Errorf("invalid command definition %s: %s", command, reason)
}

// ErrUnknownCommand creates an error for an unknown command.
func ErrUnknownCommand(name string) error {
	return oops.In("command").Code(CodeUnknownCommand).
		With("command", name).
		Errorf("unknown command: %s", name)
}

// ErrAmbiguousCommand creates an error for a bare name matching several
// qualified names.
func ErrAmbiguousCommand(name string, candidates []string) error {
	return oops.In("command").Code(CodeAmbiguousCommand).
		With("command", name).
		With("candidates", candidates).
		Errorf("ambiguous command %s: matches %v", name, candidates)
}

// ErrRateLimited creates an error for rate limiting.
func ErrRateLimited(cooldownMs int64) error {
	return oops.In("command").Code(CodeRateLimited).
		With("cooldown_ms", cooldownMs).
		Errorf("Too many commands. Please slow down.")
}

// ErrNilSender is returned when a command is invoked without a sender.
var ErrNilSender = oops.In("command").Code(CodeNilSender).Errorf("sender cannot be nil")

// Message renders a sender-facing message for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ee *ExecuteError
	if errors.As(err, &ee) {
		return "An error occurred while executing the command."
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return "Invalid syntax: " + pe.Error()
	}

	switch FaultCode(err) {
	case CodeUnknownCommand:
		return "Unknown command. Try 'help'."
	case CodeAmbiguousCommand:
		if oopsErr, ok := oops.AsOops(err); ok {
			if c, ok := oopsErr.Context()["candidates"].([]string); ok {
				return fmt.Sprintf("Ambiguous command. Did you mean one of %v?", c)
			}
		}
		return "Ambiguous command."
	case CodeRateLimited:
		return "Too many commands. Please slow down."
	default:
		return "Something went wrong. Try again."
	}
}

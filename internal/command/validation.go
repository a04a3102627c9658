// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"regexp"
	"strings"

	"github.com/samber/oops"
)

const (
	// MaxNameLength is the maximum length for the name part of a command.
	MaxNameLength = 20

	// MaxNamespaceLength is the maximum length for a command namespace.
	MaxNamespaceLength = 32
)

// namespacePattern: lowercase letter, then lowercase letters, digits, '-' or '_'.
var namespacePattern = regexp.MustCompile(`^[a-z][a-z0-9_\-]{0,31}$`)

// namePattern: letter, then letters, digits, or _!?@#$%^+-
var namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_!?@#$%^+\-]{0,19}$`)

// ValidateQualifiedName validates a "namespace:name" command name.
func ValidateQualifiedName(qualified string) error {
	ns, name, ok := strings.Cut(qualified, ":")
	if !ok {
		return oops.In("command").Code(CodeInvalidDefinition).
			With("command", qualified).
			Errorf("command name %q must be qualified as namespace:name", qualified)
	}

	if !namespacePattern.MatchString(ns) {
		return oops.In("command").Code(CodeInvalidDefinition).
			With("command", qualified).
			With("namespace", ns).
			Errorf("namespace must start with a lowercase letter and contain only a-z, 0-9, '-' or '_' (max %d)",
				MaxNamespaceLength)
	}

	return ValidateCommandName(name)
}

// ValidateCommandName validates the unqualified part of a command name.
func ValidateCommandName(name string) error {
	if name == "" {
		return oops.In("command").Code(CodeInvalidDefinition).
			Errorf("command name cannot be empty")
	}

	if len(name) > MaxNameLength {
		return oops.In("command").Code(CodeInvalidDefinition).
			With("length", len(name)).
			With("max", MaxNameLength).
			Errorf("command name exceeds maximum length of %d", MaxNameLength)
	}

	if !namePattern.MatchString(name) {
		return oops.In("command").Code(CodeInvalidDefinition).
			With("name", name).
			Errorf("command name must start with a letter and contain only letters, digits, or _!?@#$%%^+-")
	}

	return nil
}

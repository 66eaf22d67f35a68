// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package errors provides the error taxonomy shared by the coapopts packages.
package errors

import (
	"errors"
	"fmt"
)

// Option value errors.
var (
	// ErrInvalidFormat indicates malformed textual or hex input to the value codec.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrOverflow indicates a numeric conversion exceeds the representable width.
	ErrOverflow = errors.New("numeric overflow")

	// ErrInvalidOptionValue indicates content that violates a definition's format or length.
	ErrInvalidOptionValue = errors.New("invalid option value")

	// ErrUnknownOption indicates an alias or number that is not registered.
	ErrUnknownOption = errors.New("unknown option")

	// ErrUnknownCriticalOption indicates an unrecognized option that must be understood.
	ErrUnknownCriticalOption = errors.New("unknown critical option")

	// ErrDuplicateAlias indicates a conflicting registration.
	ErrDuplicateAlias = errors.New("duplicate option alias")

	// ErrInvalidDefinition indicates an option definition that breaks its own invariants.
	ErrInvalidDefinition = errors.New("invalid option definition")
)

// Duration errors.
var (
	// ErrInvalidSyntax indicates a duration string outside the accepted grammar.
	ErrInvalidSyntax = errors.New("invalid duration syntax")

	// ErrEmptyDuration indicates an empty or whitespace-only duration string.
	ErrEmptyDuration = errors.New("empty duration")

	// ErrNegativeValue indicates a negative duration passed to the renderer.
	ErrNegativeValue = errors.New("negative duration")

	// ErrValueTooLarge indicates a duration that does not fit in 64 bits of nanoseconds.
	ErrValueTooLarge = errors.New("duration too large")
)

// OptionError wraps an error with the option it was raised for.
type OptionError struct {
	Op     string // Operation that failed (decode, encode, register)
	Option string // Option alias or number
	Err    error  // Underlying error
}

// Error implements the error interface.
func (e *OptionError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Option, e.Err)
}

// Unwrap returns the underlying error.
func (e *OptionError) Unwrap() error {
	return e.Err
}

// New creates a new OptionError.
func New(op, option string, err error) error {
	if err == nil {
		return nil
	}
	return &OptionError{
		Op:     op,
		Option: option,
		Err:    err,
	}
}

// Wrap wraps an error with context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Kind returns a short, stable label for the taxonomy member err belongs to.
// It is used as a metrics label and in log records.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownCriticalOption):
		return "unknown_critical_option"
	case errors.Is(err, ErrUnknownOption):
		return "unknown_option"
	case errors.Is(err, ErrInvalidOptionValue):
		return "invalid_option_value"
	case errors.Is(err, ErrDuplicateAlias):
		return "duplicate_alias"
	case errors.Is(err, ErrInvalidDefinition):
		return "invalid_definition"
	case errors.Is(err, ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, ErrOverflow):
		return "overflow"
	case errors.Is(err, ErrEmptyDuration):
		return "empty_duration"
	case errors.Is(err, ErrValueTooLarge):
		return "value_too_large"
	case errors.Is(err, ErrInvalidSyntax):
		return "invalid_syntax"
	case errors.Is(err, ErrNegativeValue):
		return "negative_value"
	default:
		return "other"
	}
}

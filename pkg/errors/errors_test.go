// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestOptionError(t *testing.T) {
	err := New("decode", "If-Match", ErrInvalidOptionValue)
	if !errors.Is(err, ErrInvalidOptionValue) {
		t.Fatalf("expected errors.Is to match ErrInvalidOptionValue, got %v", err)
	}
	if got, want := err.Error(), "decode If-Match: invalid option value"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var oe *OptionError
	if !errors.As(err, &oe) {
		t.Fatal("expected errors.As to find *OptionError")
	}
	if oe.Op != "decode" || oe.Option != "If-Match" {
		t.Errorf("unexpected fields: %+v", oe)
	}

	if New("decode", "x", nil) != nil {
		t.Error("New with nil error should return nil")
	}
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap with nil error should return nil")
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrInvalidFormat, "invalid_format"},
		{ErrOverflow, "overflow"},
		{New("decode", "9", ErrUnknownCriticalOption), "unknown_critical_option"},
		{Wrap(ErrUnknownOption, "lookup"), "unknown_option"},
		{ErrDuplicateAlias, "duplicate_alias"},
		{ErrEmptyDuration, "empty_duration"},
		{fmt.Errorf("%w: %w", ErrInvalidSyntax, ErrValueTooLarge), "value_too_large"},
		{ErrInvalidSyntax, "invalid_syntax"},
		{ErrNegativeValue, "negative_value"},
		{errors.New("boom"), "other"},
	}

	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package option

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/absmach/coapopts/pkg/errors"
	"github.com/plgd-dev/go-coap/v3/message"
)

// Unbounded is the MaxBytes sentinel meaning "the format's own ceiling".
const Unbounded = -1

// MaxIntegerLen is the ceiling applied to unbounded Integer definitions.
const MaxIntegerLen = 8

// Format is the value format of an option (RFC 7252 §3.2).
type Format uint8

const (
	// FormatEmpty is a zero-length sequence of bytes.
	FormatEmpty Format = iota
	// FormatInteger is a non-negative integer in network byte order.
	FormatInteger
	// FormatString is a UTF-8 string.
	FormatString
	// FormatOpaque is an opaque sequence of bytes.
	FormatOpaque
)

// String returns the lower-case name of the format.
func (f Format) String() string {
	switch f {
	case FormatEmpty:
		return "empty"
	case FormatInteger:
		return "integer"
	case FormatString:
		return "string"
	case FormatOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// ParseFormat parses the textual form of a format. "uint" is accepted as an
// alias of "integer".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "empty":
		return FormatEmpty, nil
	case "integer", "uint", "int":
		return FormatInteger, nil
	case "string":
		return FormatString, nil
	case "opaque":
		return FormatOpaque, nil
	default:
		return 0, fmt.Errorf("%w: unknown format %q", errors.ErrInvalidDefinition, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Definition describes an option: its alias, number, value format,
// repeatability and length bounds.
type Definition struct {
	Alias       string
	Number      message.OptionID
	Format      Format
	SingleValue bool
	MinBytes    int
	MaxBytes    int
}

// Validate checks the definition's internal invariants.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Alias) == "" {
		return fmt.Errorf("%w: empty alias for option %d", errors.ErrInvalidDefinition, d.Number)
	}
	if d.Format > FormatOpaque {
		return fmt.Errorf("%w: %s has %s", errors.ErrInvalidDefinition, d.Alias, d.Format)
	}
	if d.MinBytes < 0 {
		return fmt.Errorf("%w: %s has negative minimum length", errors.ErrInvalidDefinition, d.Alias)
	}
	if d.MaxBytes != Unbounded && d.MaxBytes < d.MinBytes {
		return fmt.Errorf("%w: %s has length range %d-%d", errors.ErrInvalidDefinition, d.Alias, d.MinBytes, d.MaxBytes)
	}
	if d.Format == FormatEmpty && (d.MinBytes != 0 || (d.MaxBytes != 0 && d.MaxBytes != Unbounded)) {
		return fmt.Errorf("%w: empty option %s must have length 0", errors.ErrInvalidDefinition, d.Alias)
	}
	if d.Format == FormatInteger && d.MinBytes > MaxIntegerLen {
		return fmt.Errorf("%w: integer option %s cannot be longer than %d bytes", errors.ErrInvalidDefinition, d.Alias, MaxIntegerLen)
	}
	return nil
}

// MaxLen returns the effective maximum length. It is -1 when there is no
// ceiling.
func (d Definition) MaxLen() int {
	switch d.Format {
	case FormatEmpty:
		return 0
	case FormatInteger:
		if d.MaxBytes == Unbounded || d.MaxBytes > MaxIntegerLen {
			return MaxIntegerLen
		}
	}
	return d.MaxBytes
}

// Accepts reports whether a value of n bytes satisfies the definition.
func (d Definition) Accepts(n int) bool {
	if n < d.MinBytes {
		return false
	}
	if max := d.MaxLen(); max != Unbounded && n > max {
		return false
	}
	return true
}

// Check returns an ErrInvalidOptionValue error when n bytes do not satisfy
// the definition.
func (d Definition) Check(n int) error {
	if d.Accepts(n) {
		return nil
	}
	if d.Format == FormatEmpty {
		return fmt.Errorf("%w: %s must be empty, got %d bytes", errors.ErrInvalidOptionValue, d.Alias, n)
	}
	max := "unbounded"
	if m := d.MaxLen(); m != Unbounded {
		max = fmt.Sprint(m)
	}
	return fmt.Errorf("%w: %s length %d outside %d-%s", errors.ErrInvalidOptionValue, d.Alias, n, d.MinBytes, max)
}

// Classification returns the properties derived from the definition's number.
func (d Definition) Classification() Classification {
	return Classify(d.Number)
}

// Equal compares every field of two definitions.
func (d Definition) Equal(o Definition) bool {
	return d.Alias == o.Alias &&
		d.Format == o.Format &&
		d.Number == o.Number &&
		d.SingleValue == o.SingleValue &&
		d.MinBytes == o.MinBytes &&
		d.MaxBytes == o.MaxBytes
}

// String renders the definition in the alias:number:format:min:max[:single]
// form accepted by ParseDefinition.
func (d Definition) String() string {
	max := "*"
	if d.MaxBytes != Unbounded {
		max = fmt.Sprint(d.MaxBytes)
	}
	s := fmt.Sprintf("%s:%d:%s:%d:%s", d.Alias, d.Number, d.Format, d.MinBytes, max)
	if d.SingleValue {
		s += ":single"
	}
	return s
}

// ParseDefinition parses alias:number:format:min:max[:single]. A max of "*"
// means Unbounded.
func ParseDefinition(s string) (Definition, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 5 && len(parts) != 6 {
		return Definition{}, fmt.Errorf("%w: %q is not alias:number:format:min:max[:single]", errors.ErrInvalidDefinition, s)
	}

	var d Definition
	d.Alias = strings.TrimSpace(parts[0])

	num, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 16)
	if err != nil {
		return Definition{}, fmt.Errorf("%w: bad option number %q", errors.ErrInvalidDefinition, parts[1])
	}
	d.Number = message.OptionID(num)

	f, err := ParseFormat(parts[2])
	if err != nil {
		return Definition{}, err
	}
	d.Format = f

	if d.MinBytes, err = strconv.Atoi(strings.TrimSpace(parts[3])); err != nil {
		return Definition{}, fmt.Errorf("%w: bad minimum length %q", errors.ErrInvalidDefinition, parts[3])
	}
	if m := strings.TrimSpace(parts[4]); m == "*" {
		d.MaxBytes = Unbounded
	} else if d.MaxBytes, err = strconv.Atoi(m); err != nil {
		return Definition{}, fmt.Errorf("%w: bad maximum length %q", errors.ErrInvalidDefinition, parts[4])
	}

	if len(parts) == 6 {
		if strings.TrimSpace(parts[5]) != "single" {
			return Definition{}, fmt.Errorf("%w: unknown flag %q", errors.ErrInvalidDefinition, parts[5])
		}
		d.SingleValue = true
	}

	if err := d.Validate(); err != nil {
		return Definition{}, err
	}
	return d, nil
}

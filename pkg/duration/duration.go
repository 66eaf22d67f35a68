// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/absmach/coapopts/pkg/errors"
)

type unit struct {
	name  string
	nanos int64
	// wide is the digit allowance when the unit is used alone; 0 means the
	// unit cannot be used in the single-unit form.
	wide int
}

// Units in the only order they may appear.
var units = []unit{
	{"d", 24 * 60 * 60 * 1e9, 0},
	{"h", 60 * 60 * 1e9, 0},
	{"m", 60 * 1e9, 0},
	{"s", 1e9, 9},
	{"ms", 1e6, 12},
	{"us", 1e3, 15},
	{"ns", 1, 18},
}

// maxGroupDigits bounds each digit run in the multi-unit form.
const (
	maxGroupDigits = 5
	maxGroupValue  = 99999
)

type group struct {
	digits string
	unit   int // index into units
	pos    int
}

// ToNanos parses s and returns the number of nanoseconds it denotes.
func ToNanos(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, errors.ErrEmptyDuration
	}

	groups, err := scan(s)
	if err != nil {
		return 0, err
	}
	if err := checkGrammar(s, groups); err != nil {
		return 0, err
	}

	var total int64
	for _, g := range groups {
		n, err := strconv.ParseInt(g.digits, 10, 64)
		if err != nil {
			return 0, tooLarge(s)
		}
		part, ok := mul(n, units[g.unit].nanos)
		if !ok {
			return 0, tooLarge(s)
		}
		if total, ok = add(total, part); !ok {
			return 0, tooLarge(s)
		}
	}
	return total, nil
}

// scan splits s into digit/unit groups. Whitespace may separate groups but
// may not appear inside a group.
func scan(s string) ([]group, error) {
	var groups []group
	i := 0
	for {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i == len(s) {
			return groups, nil
		}

		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return nil, syntaxError(s, start, "expected digits")
		}
		digits := s[start:i]

		ustart := i
		for i < len(s) && isLetter(s[i]) {
			i++
		}
		if i == ustart {
			return nil, syntaxError(s, ustart, "expected unit")
		}
		idx := unitIndex(s[ustart:i])
		if idx < 0 {
			return nil, syntaxError(s, ustart, fmt.Sprintf("unknown unit %q", s[ustart:i]))
		}
		groups = append(groups, group{digits: digits, unit: idx, pos: start})
	}
}

// checkGrammar accepts either a single seconds-or-finer group with a wide
// digit allowance, or groups in strictly descending unit order with at most
// maxGroupDigits digits each.
func checkGrammar(s string, groups []group) error {
	if len(groups) == 1 {
		u := units[groups[0].unit]
		if u.wide > 0 && len(groups[0].digits) <= u.wide {
			return nil
		}
	}

	prev := -1
	for _, g := range groups {
		if g.unit <= prev {
			if g.unit == prev {
				return syntaxError(s, g.pos, fmt.Sprintf("duplicate unit %q", units[g.unit].name))
			}
			return syntaxError(s, g.pos, fmt.Sprintf("unit %q out of order", units[g.unit].name))
		}
		if len(g.digits) > maxGroupDigits {
			return syntaxError(s, g.pos, fmt.Sprintf("more than %d digits", maxGroupDigits))
		}
		prev = g.unit
	}
	return nil
}

// Format renders nanos as space separated groups from the largest unit to
// the smallest, skipping zero groups. Zero renders as "0ms".
func Format(nanos int64) (string, error) {
	if nanos < 0 {
		return "", fmt.Errorf("%w: %d", errors.ErrNegativeValue, nanos)
	}
	if nanos == 0 {
		return "0ms", nil
	}

	parts := make([]string, 0, len(units))
	for i, u := range units {
		n := nanos / u.nanos
		// Keep every group parseable; the excess carries into smaller units.
		if n > maxGroupValue && i < len(units)-1 {
			n = maxGroupValue
		}
		if n > 0 {
			parts = append(parts, strconv.FormatInt(n, 10)+u.name)
			nanos -= n * u.nanos
		}
	}
	return strings.Join(parts, " "), nil
}

// Duration is a non-negative number of nanoseconds with a canonical text form.
type Duration int64

// Parse parses s into a Duration.
func Parse(s string) (Duration, error) {
	n, err := ToNanos(s)
	return Duration(n), err
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Duration {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromStd converts a time.Duration.
func FromStd(d time.Duration) Duration {
	return Duration(d)
}

// Nanos returns the nanosecond count.
func (d Duration) Nanos() int64 {
	return int64(d)
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String returns the canonical form, or the decimal nanosecond count with an
// "ns" suffix for negative values.
func (d Duration) String() string {
	s, err := Format(int64(d))
	if err != nil {
		return strconv.FormatInt(int64(d), 10) + "ns"
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	s, err := Format(int64(d))
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func unitIndex(name string) int {
	for i, u := range units {
		if u.name == name {
			return i
		}
	}
	return -1
}

func mul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

func add(a, b int64) (int64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

func syntaxError(s string, pos int, msg string) error {
	return fmt.Errorf("%w: %q at offset %d: %s", errors.ErrInvalidSyntax, s, pos, msg)
}

func tooLarge(s string) error {
	return fmt.Errorf("%w: %w: %q", errors.ErrInvalidSyntax, errors.ErrValueTooLarge, s)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

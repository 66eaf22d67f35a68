// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package bytevalue

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/absmach/coapopts/pkg/errors"
)

// MaxNumberLen is the longest value Number can convert.
const MaxNumberLen = 8

// Value is an immutable byte sequence. The zero Value is the empty sequence.
//
// The bytes are held in a string so that == compares content and Value can be
// used as a map key.
type Value struct {
	b string
}

// Empty is the zero-length value.
var Empty = Value{}

// FromBytes returns a Value holding a copy of b, without normalization.
func FromBytes(b []byte) Value {
	return Value{b: string(b)}
}

// FromString returns the UTF-8 encoding of s.
func FromString(s string) Value {
	return Value{b: s}
}

// FromHex decodes an even-length, case-insensitive hex string.
func FromHex(s string) (Value, error) {
	if len(s)%2 != 0 {
		return Value{}, fmt.Errorf("%w: odd length hex string %q", errors.ErrInvalidFormat, s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q is not hex", errors.ErrInvalidFormat, s)
	}
	return Value{b: string(b)}, nil
}

// MustHex is like FromHex but panics on malformed input. Intended for
// constants and tests.
func MustHex(s string) Value {
	v, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FromInt returns the minimal big-endian encoding of v. Zero maps to the
// empty value; negative numbers keep all four bytes.
func FromInt(v int32) Value {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	return Value{b: string(stripLeadingZeros(buf[:]))}
}

// FromLong returns the minimal big-endian encoding of v. Zero maps to the
// empty value; negative numbers keep all eight bytes.
func FromLong(v int64) Value {
	return FromUint(uint64(v))
}

// FromUint returns the minimal big-endian encoding of v.
func FromUint(v uint64) Value {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return Value{b: string(stripLeadingZeros(buf[:]))}
}

func stripLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}

// Len returns the number of stored bytes.
func (v Value) Len() int {
	return len(v.b)
}

// IsEmpty reports whether the value has zero length.
func (v Value) IsEmpty() bool {
	return len(v.b) == 0
}

// Bytes returns a copy of the stored bytes.
func (v Value) Bytes() []byte {
	return []byte(v.b)
}

// Hex returns the lower-case hex rendering of the stored bytes.
func (v Value) Hex() string {
	return hex.EncodeToString([]byte(v.b))
}

// String interprets the bytes as UTF-8. Invalid sequences are passed through
// unchanged; callers needing strict UTF-8 must check with utf8.ValidString.
func (v Value) String() string {
	return v.b
}

// Number interprets the bytes as an unsigned big-endian integer.
func (v Value) Number() (uint64, error) {
	if len(v.b) > MaxNumberLen {
		return 0, fmt.Errorf("%w: %d bytes exceed %d", errors.ErrOverflow, len(v.b), MaxNumberLen)
	}
	var n uint64
	for i := 0; i < len(v.b); i++ {
		n = n<<8 | uint64(v.b[i])
	}
	return n, nil
}

// Equal reports whether v and o hold exactly the same bytes.
func (v Value) Equal(o Value) bool {
	return v.b == o.b
}

// Compare orders values as unsigned integers of arbitrary length. Leading
// zero bytes do not affect the result.
func (v Value) Compare(o Value) int {
	a := trimZeros(v.b)
	b := trimZeros(o.b)
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func trimZeros(s string) string {
	i := 0
	for i < len(s) && s[i] == 0 {
		i++
	}
	return s[i:]
}

// MarshalText encodes the value as hex.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.Hex()), nil
}

// UnmarshalText decodes a hex string.
func (v *Value) UnmarshalText(text []byte) error {
	d, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*v = d
	return nil
}

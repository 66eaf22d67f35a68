// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package bytevalue

// Input is a closed set of sources a Value can be built from. Only the types
// declared in this package implement it.
type Input interface {
	value() (Value, error)
}

type (
	// String is UTF-8 text.
	String string
	// Hex is an even-length hex string.
	Hex string
	// Bytes is a raw byte sequence.
	Bytes []byte
	// Int is a 32-bit signed integer.
	Int int32
	// Long is a 64-bit signed integer.
	Long int64
)

func (s String) value() (Value, error) { return FromString(string(s)), nil }
func (h Hex) value() (Value, error)    { return FromHex(string(h)) }
func (b Bytes) value() (Value, error)  { return FromBytes(b), nil }
func (i Int) value() (Value, error)    { return FromInt(int32(i)), nil }
func (l Long) value() (Value, error)   { return FromLong(int64(l)), nil }

// New builds a Value from in. Only Hex can fail.
func New(in Input) (Value, error) {
	if in == nil {
		return Empty, nil
	}
	return in.value()
}

// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package bytevalue implements the canonical byte-array value used for every
// CoAP option payload and key material crossing the package boundary.
//
// # Construction
//
// A Value is built from exactly one source:
//
//	bytevalue.FromString("temp")      // UTF-8 bytes
//	bytevalue.FromHex("afB990")       // case-insensitive, even length
//	bytevalue.FromBytes(b)            // stored verbatim
//	bytevalue.FromInt(60)             // minimal big-endian, 0 -> empty
//	bytevalue.FromLong(1 << 40)
//
// Configuration code that receives heterogeneous inputs uses the closed Input
// union (String, Hex, Bytes, Int, Long) with New.
//
// # Equality and Ordering
//
// Equality is exact equality of the stored bytes: FromHex("00") and
// FromBytes(nil) are different values. Ordering is unsigned numeric ordering,
// so the same two values compare as equal under Compare.
package bytevalue

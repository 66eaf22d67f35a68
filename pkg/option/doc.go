// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package option classifies CoAP option numbers and maintains the registry of
// option definitions used to validate and encode option values.
//
// # Classification
//
// The properties of an option are encoded in its number (RFC 7252 §5.4.6):
//
//	  0   1   2   3   4   5   6   7
//	+---+---+---+---+---+---+---+---+
//	|           | NoCacheKey| U | C |
//	+---+---+---+---+---+---+---+---+
//
// Classify derives Critical, UnsafeToForward and NoCacheKey from these bits.
// Critical options that a receiver does not recognize must cause the message
// to be rejected; unsafe options must not be forwarded by a proxy that does
// not understand them; NoCacheKey options do not take part in the cache key.
//
// # Definitions and Registry
//
// A Definition binds an alias to an option number, a value format, a
// repeatability flag and a length range. The Registry maps aliases and
// numbers to definitions. It is populated once during initialization and only
// read afterwards, so lookups take no locks.
//
//	reg := option.NewStandardRegistry()
//	err := reg.Register(option.Definition{
//		Alias:    "Tenant",
//		Number:   65000,
//		Format:   option.FormatOpaque,
//		MinBytes: 1,
//		MaxBytes: 16,
//	})
//	opt, err := reg.Encode("Tenant", bytevalue.FromString("acme"))
//
// Standard returns the definitions of the options defined by RFC 7252,
// RFC 7641, RFC 7959, RFC 7967 and RFC 9175.
package option

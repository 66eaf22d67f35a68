// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package coap implements the CoAP over UDP parser.
//
// # Overview
//
// The parser unmarshals a datagram with plgd-dev/go-coap/v3 and hands its
// options to an attrs.Translator. Header fields (type, code, message ID and
// token) are copied to the result; the payload is not inspected.
//
// # Parse
//
//  1. Unmarshal the datagram with the UDP coder
//  2. Derive the direction from the code class
//  3. Decode the options into RequestOptions or ResponseOptions
//  4. Count the message in metrics, when configured
//
// # Build
//
//  1. Encode the attribute set matching the direction
//  2. Copy the header fields from the result
//  3. Marshal with the UDP coder
//
// # Limitations
//
//   - No transport: datagrams are passed in and returned as byte slices
//   - No blockwise reassembly; Block1 and Block2 are exposed as raw values
//   - No DTLS
package coap

// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package parser defines the interface between raw CoAP datagrams and the
// typed attribute sets of package attrs.
//
// # Direction
//
// The code class decides how options are read:
//   - Request: class 0 (GET, POST, PUT, DELETE, FETCH, PATCH, iPATCH)
//   - Response: every other class (2.xx, 4.xx, 5.xx)
//
// Size1 and Size2 in particular mean different things in the two
// directions, so a parser must pick the direction before translating.
//
// # Protocol-Specific Parsers
//
//   - parser/coap: CoAP over UDP, built on plgd-dev/go-coap/v3
//
// # Example
//
//	p := coap.New(attrs.New(attrs.Config{}), nil)
//	res, err := p.Parse(ctx, datagram)
//	if err != nil {
//		return err
//	}
//	if res.Direction == parser.Request {
//		fmt.Println(res.Request.URI())
//	}
package parser

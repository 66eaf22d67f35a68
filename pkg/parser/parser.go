// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"context"
	"fmt"

	"github.com/absmach/coapopts/pkg/attrs"
	"github.com/plgd-dev/go-coap/v3/message"
	"github.com/plgd-dev/go-coap/v3/message/codes"
)

// Direction indicates whether a message is a request or a response.
type Direction int

const (
	// Request is a message carrying a method code (class 0).
	Request Direction = iota

	// Response is a message carrying a response code (class 2, 4 or 5).
	Response
)

// String returns a string representation of the direction.
func (d Direction) String() string {
	switch d {
	case Request:
		return "request"
	case Response:
		return "response"
	default:
		return "unknown"
	}
}

// DirectionOf derives the direction from the code class. The empty code
// (0.00) counts as a request.
func DirectionOf(code codes.Code) Direction {
	if code>>5 == 0 {
		return Request
	}
	return Response
}

// Result is a parsed message with its options translated. Exactly one of
// Request and Response is set, according to Direction.
type Result struct {
	Direction Direction
	Type      message.Type
	Code      codes.Code
	MessageID int32
	Token     message.Token

	Request  *attrs.RequestOptions
	Response *attrs.ResponseOptions
}

// String renders the result for debugging.
func (r *Result) String() string {
	opts := "{}"
	switch {
	case r.Direction == Request && r.Request != nil:
		opts = r.Request.String()
	case r.Direction == Response && r.Response != nil:
		opts = r.Response.String()
	}
	return fmt.Sprintf("%s %s mid=%d token=%x %s", r.Direction, r.Code, r.MessageID, []byte(r.Token), opts)
}

// Parser turns datagrams into translated results and back.
//
// Parse unmarshals one complete message. Build is its inverse: it encodes
// the attribute set matching the result's direction and marshals the
// message. Implementations must be safe for concurrent use.
type Parser interface {
	Parse(ctx context.Context, data []byte) (*Result, error)
	Build(ctx context.Context, r *Result) ([]byte, error)
}

// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package attrs

// No-Response suppression bits (RFC 7967 §2.1).
const (
	SuppressSuccess     uint32 = 1 << 1 // 2.xx
	SuppressClientError uint32 = 1 << 3 // 4.xx
	SuppressServerError uint32 = 1 << 4 // 5.xx

	SuppressAll = SuppressSuccess | SuppressClientError | SuppressServerError
)

// NoResponse lists the response classes a client wants to receive.
type NoResponse struct {
	SuccessWanted     bool
	ClientErrorWanted bool
	ServerErrorWanted bool
}

// AllResponses is the interest implied by an absent No-Response option.
var AllResponses = NoResponse{SuccessWanted: true, ClientErrorWanted: true, ServerErrorWanted: true}

// DecodeNoResponse converts a suppression mask. A class is wanted when its
// suppress bit is clear; bits outside SuppressAll are ignored.
func DecodeNoResponse(mask uint32) NoResponse {
	return NoResponse{
		SuccessWanted:     mask&SuppressSuccess == 0,
		ClientErrorWanted: mask&SuppressClientError == 0,
		ServerErrorWanted: mask&SuppressServerError == 0,
	}
}

// Mask returns the suppression mask.
func (n NoResponse) Mask() uint32 {
	var mask uint32
	if !n.SuccessWanted {
		mask |= SuppressSuccess
	}
	if !n.ClientErrorWanted {
		mask |= SuppressClientError
	}
	if !n.ServerErrorWanted {
		mask |= SuppressServerError
	}
	return mask
}

// Wants reports whether a response with the given code class (2, 4 or 5) is
// wanted. Other classes are always wanted.
func (n NoResponse) Wants(class uint8) bool {
	switch class {
	case 2:
		return n.SuccessWanted
	case 4:
		return n.ClientErrorWanted
	case 5:
		return n.ServerErrorWanted
	default:
		return true
	}
}

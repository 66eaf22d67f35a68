// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package option

import (
	"strconv"
	"strings"

	"github.com/plgd-dev/go-coap/v3/message"
)

const (
	criticalBit   = 0b1
	unsafeBit     = 0b10
	noCacheKeyMsk = 0b11110
	noCacheKeyVal = 0b11100
)

// Classification holds the properties derived from an option number.
type Classification struct {
	Critical        bool
	UnsafeToForward bool
	NoCacheKey      bool
}

// Classify derives the classification of an option number.
func Classify(id message.OptionID) Classification {
	unsafe := IsUnsafe(id)
	return Classification{
		Critical:        IsCritical(id),
		UnsafeToForward: unsafe,
		NoCacheKey:      !unsafe && uint16(id)&noCacheKeyMsk == noCacheKeyVal,
	}
}

// IsCritical reports whether an unrecognized option must abort processing.
func IsCritical(id message.OptionID) bool {
	return uint16(id)&criticalBit != 0
}

// IsUnsafe reports whether a proxy that does not understand the option must
// not forward it.
func IsUnsafe(id message.OptionID) bool {
	return uint16(id)&unsafeBit != 0
}

// IsNoCacheKey reports whether the option is excluded from the cache key.
// Only meaningful for safe-to-forward options.
func IsNoCacheKey(id message.OptionID) bool {
	return Classify(id).NoCacheKey
}

// String renders the set flags as "C", "U" and "N", e.g. "CU".
func (c Classification) String() string {
	var sb strings.Builder
	if c.Critical {
		sb.WriteByte('C')
	}
	if c.UnsafeToForward {
		sb.WriteByte('U')
	}
	if c.NoCacheKey {
		sb.WriteByte('N')
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// Name returns the standard name of an option number, or its decimal form.
func Name(id message.OptionID) string {
	if def, ok := StandardDefinition(id); ok {
		return def.Alias
	}
	return strconv.FormatUint(uint64(id), 10)
}

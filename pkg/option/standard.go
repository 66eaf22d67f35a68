// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package option

import "github.com/plgd-dev/go-coap/v3/message"

// Option numbers not declared by go-coap.
const (
	Echo       message.OptionID = 252
	RequestTag message.OptionID = 292
)

/*
	+-----+---+---+---+---+----------------+--------+--------+
	| No. | C | U | N | R | Name           | Format | Length |
	+-----+---+---+---+---+----------------+--------+--------+
	|   1 | x |   |   | x | If-Match       | opaque | 0-8    |
	|   3 | x | x | - |   | Uri-Host       | string | 1-255  |
	|   4 |   |   |   | x | ETag           | opaque | 1-8    |
	|   5 | x |   |   |   | If-None-Match  | empty  | 0      |
	|   6 |   | x | - |   | Observe        | uint   | 0-3    |
	|   7 | x | x | - |   | Uri-Port       | uint   | 0-2    |
	|   8 |   |   |   | x | Location-Path  | string | 0-255  |
	|  11 | x | x | - | x | Uri-Path       | string | 0-255  |
	|  12 |   |   |   |   | Content-Format | uint   | 0-2    |
	|  14 |   | x | - |   | Max-Age        | uint   | 0-4    |
	|  15 | x | x | - | x | Uri-Query      | string | 0-255  |
	|  17 | x |   |   |   | Accept         | uint   | 0-2    |
	|  20 |   |   |   | x | Location-Query | string | 0-255  |
	|  23 | x | x | - |   | Block2         | uint   | 0-3    |
	|  27 | x | x | - |   | Block1         | uint   | 0-3    |
	|  28 |   |   | x |   | Size2          | uint   | 0-4    |
	|  35 | x | x | - |   | Proxy-Uri      | string | 1-1034 |
	|  39 | x | x | - |   | Proxy-Scheme   | string | 1-255  |
	|  60 |   |   | x |   | Size1          | uint   | 0-4    |
	| 252 |   |   |   |   | Echo           | opaque | 1-40   |
	| 258 |   | x | - |   | No-Response    | uint   | 0-1    |
	| 292 |   |   |   | x | Request-Tag    | opaque | 0-8    |
	+-----+---+---+---+---+----------------+--------+--------+
	C=Critical, U=Unsafe, N=NoCacheKey, R=Repeatable
*/
var standard = []Definition{
	{Alias: "If-Match", Number: message.IfMatch, Format: FormatOpaque, MinBytes: 0, MaxBytes: 8},
	{Alias: "Uri-Host", Number: message.URIHost, Format: FormatString, SingleValue: true, MinBytes: 1, MaxBytes: 255},
	{Alias: "ETag", Number: message.ETag, Format: FormatOpaque, MinBytes: 1, MaxBytes: 8},
	{Alias: "If-None-Match", Number: message.IfNoneMatch, Format: FormatEmpty, SingleValue: true, MinBytes: 0, MaxBytes: 0},
	{Alias: "Observe", Number: message.Observe, Format: FormatInteger, SingleValue: true, MinBytes: 0, MaxBytes: 3},
	{Alias: "Uri-Port", Number: message.URIPort, Format: FormatInteger, SingleValue: true, MinBytes: 0, MaxBytes: 2},
	{Alias: "Location-Path", Number: message.LocationPath, Format: FormatString, MinBytes: 0, MaxBytes: 255},
	{Alias: "Uri-Path", Number: message.URIPath, Format: FormatString, MinBytes: 0, MaxBytes: 255},
	{Alias: "Content-Format", Number: message.ContentFormat, Format: FormatInteger, SingleValue: true, MinBytes: 0, MaxBytes: 2},
	{Alias: "Max-Age", Number: message.MaxAge, Format: FormatInteger, SingleValue: true, MinBytes: 0, MaxBytes: 4},
	{Alias: "Uri-Query", Number: message.URIQuery, Format: FormatString, MinBytes: 0, MaxBytes: 255},
	{Alias: "Accept", Number: message.Accept, Format: FormatInteger, SingleValue: true, MinBytes: 0, MaxBytes: 2},
	{Alias: "Location-Query", Number: message.LocationQuery, Format: FormatString, MinBytes: 0, MaxBytes: 255},
	{Alias: "Block2", Number: message.Block2, Format: FormatInteger, SingleValue: true, MinBytes: 0, MaxBytes: 3},
	{Alias: "Block1", Number: message.Block1, Format: FormatInteger, SingleValue: true, MinBytes: 0, MaxBytes: 3},
	{Alias: "Size2", Number: message.Size2, Format: FormatInteger, SingleValue: true, MinBytes: 0, MaxBytes: 4},
	{Alias: "Proxy-Uri", Number: message.ProxyURI, Format: FormatString, SingleValue: true, MinBytes: 1, MaxBytes: 1034},
	{Alias: "Proxy-Scheme", Number: message.ProxyScheme, Format: FormatString, SingleValue: true, MinBytes: 1, MaxBytes: 255},
	{Alias: "Size1", Number: message.Size1, Format: FormatInteger, SingleValue: true, MinBytes: 0, MaxBytes: 4},
	{Alias: "Echo", Number: Echo, Format: FormatOpaque, SingleValue: true, MinBytes: 1, MaxBytes: 40},
	{Alias: "No-Response", Number: message.NoResponse, Format: FormatInteger, SingleValue: true, MinBytes: 0, MaxBytes: 1},
	{Alias: "Request-Tag", Number: RequestTag, Format: FormatOpaque, MinBytes: 0, MaxBytes: 8},
}

var standardByNumber = func() map[message.OptionID]Definition {
	m := make(map[message.OptionID]Definition, len(standard))
	for _, d := range standard {
		m[d.Number] = d
	}
	return m
}()

// Standard returns a copy of the standard option table.
func Standard() []Definition {
	out := make([]Definition, len(standard))
	copy(out, standard)
	return out
}

// StandardDefinition returns the standard definition of id.
func StandardDefinition(id message.OptionID) (Definition, bool) {
	d, ok := standardByNumber[id]
	return d, ok
}

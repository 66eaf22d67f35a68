// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/absmach/coapopts/pkg/bytevalue"
	"github.com/plgd-dev/go-coap/v3/message"
)

// DefaultMaxAge is the Max-Age implied when a response carries none.
const DefaultMaxAge uint32 = 60

// OtherOption is an option that has no dedicated attribute. Alias is empty
// for unrecognized elective options.
type OtherOption struct {
	Alias  string
	Number message.OptionID
	Value  bytevalue.Value
}

// Others is an ordered multimap of alias to values.
type Others []OtherOption

// Get returns every value stored under alias, in order.
func (o Others) Get(alias string) []bytevalue.Value {
	var vals []bytevalue.Value
	for _, opt := range o {
		if opt.Alias == alias {
			vals = append(vals, opt.Value)
		}
	}
	return vals
}

// Number returns every value stored for the option number, in order.
func (o Others) Number(id message.OptionID) []bytevalue.Value {
	var vals []bytevalue.Value
	for _, opt := range o {
		if opt.Number == id {
			vals = append(vals, opt.Value)
		}
	}
	return vals
}

// Uint32 returns a pointer to v, for populating optional fields.
func Uint32(v uint32) *uint32 {
	return &v
}

// RequestOptions is the structured attribute set of a request.
type RequestOptions struct {
	// IfMatch holds the non-empty If-Match entity tags, in wire order.
	IfMatch []bytevalue.Value
	// IfExists is set by a zero-length If-Match.
	IfExists    bool
	IfNoneMatch bool
	ETags       []bytevalue.Value

	URIHost  string
	URIPort  *uint32
	URIPath  []string
	URIQuery Query

	ContentFormat *uint32
	Accept        *uint32

	ProxyURI    string
	ProxyScheme string

	// RequestSize is Size1: the size estimate of the request body.
	RequestSize *uint32
	// RequireResponseSize is set by Size2 = 0.
	RequireResponseSize bool

	// NoResponse is nil when the option is absent.
	NoResponse *NoResponse

	Observe *uint32
	Block1  *uint32
	Block2  *uint32

	Other Others
}

// Interest returns the response classes the client wants.
func (r *RequestOptions) Interest() NoResponse {
	if r.NoResponse == nil {
		return AllResponses
	}
	return *r.NoResponse
}

// Path joins the Uri-Path segments with '/', with a leading '/'.
func (r *RequestOptions) Path() string {
	return "/" + strings.Join(r.URIPath, "/")
}

// URI renders the request target. Proxy-Uri wins when present; without a
// Uri-Host the result is a relative reference starting at the path.
func (r *RequestOptions) URI() string {
	if r.ProxyURI != "" {
		return r.ProxyURI
	}

	var sb strings.Builder
	if r.URIHost != "" {
		scheme := r.ProxyScheme
		if scheme == "" {
			scheme = "coap"
		}
		sb.WriteString(scheme)
		sb.WriteString("://")
		sb.WriteString(r.URIHost)
		if r.URIPort != nil {
			fmt.Fprintf(&sb, ":%d", *r.URIPort)
		}
	}
	for _, seg := range r.URIPath {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(seg))
	}
	if len(r.URIPath) == 0 {
		sb.WriteByte('/')
	}
	if len(r.URIQuery) > 0 {
		tokens := make([]string, len(r.URIQuery))
		for i, p := range r.URIQuery {
			tokens[i] = url.QueryEscape(p.Key)
			if p.Value != nil {
				tokens[i] += "=" + url.QueryEscape(*p.Value)
			}
		}
		sb.WriteByte('?')
		sb.WriteString(strings.Join(tokens, "&"))
	}
	return sb.String()
}

// ResponseOptions is the structured attribute set of a response.
type ResponseOptions struct {
	// ETag is the first ETag of the response, nil when absent.
	ETag *bytevalue.Value

	LocationPath  []string
	LocationQuery Query

	ContentFormat *uint32
	MaxAge        *uint32

	// ResponseSize is Size2: the size of the representation.
	ResponseSize *uint32
	// AcceptableRequestSize is Size1: the largest request body the server
	// accepts.
	AcceptableRequestSize *uint32

	Observe *uint32
	Block1  *uint32
	Block2  *uint32

	Other Others
}

// MaxAgeOrDefault returns Max-Age, or DefaultMaxAge when absent.
func (r *ResponseOptions) MaxAgeOrDefault() uint32 {
	if r.MaxAge == nil {
		return DefaultMaxAge
	}
	return *r.MaxAge
}

// Location joins Location-Path and Location-Query. The boolean is false when
// neither is present.
func (r *ResponseOptions) Location() (string, bool) {
	if len(r.LocationPath) == 0 && len(r.LocationQuery) == 0 {
		return "", false
	}
	loc := "/" + strings.Join(r.LocationPath, "/")
	if q, ok := r.LocationQuery.Encode(); ok {
		loc += "?" + q
	}
	return loc, true
}

// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/absmach/coapopts/pkg/bytevalue"
)

type fieldWriter struct {
	sb strings.Builder
	n  int
}

func (w *fieldWriter) field(name, value string) {
	if w.n > 0 {
		w.sb.WriteString(", ")
	}
	w.n++
	w.sb.WriteString(name)
	if value != "" {
		w.sb.WriteByte('=')
		w.sb.WriteString(value)
	}
}

func (w *fieldWriter) flag(name string, set bool) {
	if set {
		w.field(name, "")
	}
}

func (w *fieldWriter) str(name, v string) {
	if v != "" {
		w.field(name, strconv.Quote(v))
	}
}

func (w *fieldWriter) num(name string, v *uint32) {
	if v != nil {
		w.field(name, strconv.FormatUint(uint64(*v), 10))
	}
}

func (w *fieldWriter) strs(name string, v []string) {
	if len(v) == 0 {
		return
	}
	q := make([]string, len(v))
	for i, s := range v {
		q[i] = strconv.Quote(s)
	}
	w.field(name, "["+strings.Join(q, " ")+"]")
}

func (w *fieldWriter) values(name string, v []bytevalue.Value) {
	if len(v) == 0 {
		return
	}
	h := make([]string, len(v))
	for i, b := range v {
		h[i] = "0x" + b.Hex()
	}
	w.field(name, "["+strings.Join(h, " ")+"]")
}

func (w *fieldWriter) query(name string, q Query) {
	if s, ok := q.Encode(); ok {
		w.field(name, strconv.Quote(s))
	}
}

func (w *fieldWriter) others(o Others) {
	for _, opt := range o {
		name := opt.Alias
		if name == "" {
			name = fmt.Sprintf("Option(%d)", uint16(opt.Number))
		}
		w.field(name, "0x"+opt.Value.Hex())
	}
}

// String renders the non-empty fields for debugging. Byte values are shown
// in hex, strings quoted.
func (r *RequestOptions) String() string {
	var w fieldWriter
	w.values("If-Match", r.IfMatch)
	w.flag("If-Match=*", r.IfExists)
	w.flag("If-None-Match", r.IfNoneMatch)
	w.values("ETag", r.ETags)
	w.str("Uri-Host", r.URIHost)
	w.num("Uri-Port", r.URIPort)
	w.strs("Uri-Path", r.URIPath)
	w.query("Uri-Query", r.URIQuery)
	w.num("Content-Format", r.ContentFormat)
	w.num("Accept", r.Accept)
	w.str("Proxy-Uri", r.ProxyURI)
	w.str("Proxy-Scheme", r.ProxyScheme)
	w.num("Size1", r.RequestSize)
	w.flag("Size2=0", r.RequireResponseSize)
	if r.NoResponse != nil {
		w.field("No-Response", strconv.FormatUint(uint64(r.NoResponse.Mask()), 10))
	}
	w.num("Observe", r.Observe)
	w.num("Block1", r.Block1)
	w.num("Block2", r.Block2)
	w.others(r.Other)
	return "RequestOptions{" + w.sb.String() + "}"
}

// String renders the non-empty fields for debugging. Byte values are shown
// in hex, strings quoted.
func (r *ResponseOptions) String() string {
	var w fieldWriter
	if r.ETag != nil {
		w.field("ETag", "0x"+r.ETag.Hex())
	}
	w.strs("Location-Path", r.LocationPath)
	w.query("Location-Query", r.LocationQuery)
	w.num("Content-Format", r.ContentFormat)
	w.num("Max-Age", r.MaxAge)
	w.num("Size2", r.ResponseSize)
	w.num("Size1", r.AcceptableRequestSize)
	w.num("Observe", r.Observe)
	w.num("Block1", r.Block1)
	w.num("Block2", r.Block2)
	w.others(r.Other)
	return "ResponseOptions{" + w.sb.String() + "}"
}

// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"reflect"
	"sort"
	"testing"

	"github.com/absmach/coapopts/pkg/bytevalue"
	"github.com/plgd-dev/go-coap/v3/message"
)

// fakeCollection records options in insertion order.
type fakeCollection struct {
	opts []message.Option
}

func newFake(opts ...message.Option) *fakeCollection {
	return &fakeCollection{opts: opts}
}

func (f *fakeCollection) Has(id message.OptionID) bool {
	for _, o := range f.opts {
		if o.ID == id {
			return true
		}
	}
	return false
}

func (f *fakeCollection) Values(id message.OptionID) [][]byte {
	var vals [][]byte
	for _, o := range f.opts {
		if o.ID == id {
			vals = append(vals, o.Value)
		}
	}
	return vals
}

func (f *fakeCollection) Numbers() []message.OptionID {
	seen := map[message.OptionID]bool{}
	var ids []message.OptionID
	for _, o := range f.opts {
		if !seen[o.ID] {
			seen[o.ID] = true
			ids = append(ids, o.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fakeCollection) Add(id message.OptionID, value []byte) {
	f.opts = append(f.opts, message.Option{ID: id, Value: value})
}

func (f *fakeCollection) ids() []message.OptionID {
	ids := make([]message.OptionID, len(f.opts))
	for i, o := range f.opts {
		ids[i] = o.ID
	}
	return ids
}

func opt(id message.OptionID, value ...byte) message.Option {
	if value == nil {
		value = []byte{}
	}
	return message.Option{ID: id, Value: value}
}

func sopt(id message.OptionID, s string) message.Option {
	return message.Option{ID: id, Value: []byte(s)}
}

func TestWire(t *testing.T) {
	w := NewWire(message.Options{
		sopt(message.URIPath, "a"),
		opt(message.ContentFormat, 0x32),
		sopt(message.URIPath, "b"),
	})

	if !w.Has(message.URIPath) {
		t.Error("Has(Uri-Path) = false")
	}
	if w.Has(message.Accept) {
		t.Error("Has(Accept) = true")
	}
	if got := w.Values(message.URIPath); !reflect.DeepEqual(got, [][]byte{[]byte("a"), []byte("b")}) {
		t.Errorf("Values(Uri-Path) = %q", got)
	}
	if got, want := w.Numbers(), []message.OptionID{message.URIPath, message.ContentFormat}; !reflect.DeepEqual(got, want) {
		t.Errorf("Numbers() = %v, want %v", got, want)
	}

	w.Add(message.Accept, []byte{0x3c})
	if got := w.Values(message.Accept); len(got) != 1 || got[0][0] != 0x3c {
		t.Errorf("Values(Accept) after Add = %v", got)
	}

	var zero Wire
	if len(zero.Numbers()) != 0 {
		t.Error("zero Wire is not empty")
	}
}

func TestQuery(t *testing.T) {
	q := ParseQuery([]string{"a=1", "b", "c=", "d=e=f", "a=2"})
	want := Query{Param("a", "1"), Flag("b"), Param("c", ""), Param("d", "e=f"), Param("a", "2")}
	if !q.Equal(want) {
		t.Fatalf("ParseQuery() = %v, want %v", q, want)
	}
	if got := q.Tokens(); !reflect.DeepEqual(got, []string{"a=1", "b", "c=", "d=e=f", "a=2"}) {
		t.Errorf("Tokens() = %q", got)
	}
	if s, ok := q.Encode(); !ok || s != "a=1&b&c=&d=e=f&a=2" {
		t.Errorf("Encode() = %q, %v", s, ok)
	}

	if v, ok := q.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	if v, ok := q.Get("b"); !ok || v != "" {
		t.Errorf("Get(b) = %q, %v", v, ok)
	}
	if _, ok := q.Get("z"); ok {
		t.Error("Get(z) found a parameter")
	}

	if q.Equal(Query{Param("a", "1")}) {
		t.Error("queries of different length are equal")
	}
	if (Query{Flag("c")}).Equal(Query{Param("c", "")}) {
		t.Error("flag equals parameter with empty value")
	}

	if got := ParseQueryString(""); got != nil {
		t.Errorf("ParseQueryString(\"\") = %v", got)
	}
	if _, ok := Query(nil).Encode(); ok {
		t.Error("empty query encodes")
	}
	if got := ParseQueryString("x=1&y"); !got.Equal(Query{Param("x", "1"), Flag("y")}) {
		t.Errorf("ParseQueryString() = %v", got)
	}
}

func TestNoResponse(t *testing.T) {
	cases := []struct {
		mask uint32
		want NoResponse
	}{
		{0, AllResponses},
		{SuppressSuccess, NoResponse{ClientErrorWanted: true, ServerErrorWanted: true}},
		{SuppressClientError | SuppressServerError, NoResponse{SuccessWanted: true}},
		{SuppressAll, NoResponse{}},
		// Bits outside the defined ones carry no meaning.
		{7, NoResponse{ClientErrorWanted: true, ServerErrorWanted: true}},
		{0xff, NoResponse{}},
	}
	for _, c := range cases {
		if got := DecodeNoResponse(c.mask); got != c.want {
			t.Errorf("DecodeNoResponse(%d) = %+v, want %+v", c.mask, got, c.want)
		}
	}

	for mask := uint32(0); mask <= 0xff; mask++ {
		nr := DecodeNoResponse(mask)
		if got := DecodeNoResponse(nr.Mask()); got != nr {
			t.Fatalf("mask %d does not round trip: %+v", mask, got)
		}
		if nr.Mask()&^SuppressAll != 0 {
			t.Fatalf("Mask() of %d has undefined bits", mask)
		}
	}

	nr := NoResponse{SuccessWanted: true}
	for class, want := range map[uint8]bool{2: true, 4: false, 5: false, 3: true} {
		if got := nr.Wants(class); got != want {
			t.Errorf("Wants(%d) = %v, want %v", class, got, want)
		}
	}
}

func TestURI(t *testing.T) {
	cases := []struct {
		name string
		opts RequestOptions
		want string
	}{
		{"empty", RequestOptions{}, "/"},
		{
			name: "absolute",
			opts: RequestOptions{
				URIHost:  "example.com",
				URIPort:  Uint32(5683),
				URIPath:  []string{"sensors", "temp 1"},
				URIQuery: Query{Param("unit", "c")},
			},
			want: "coap://example.com:5683/sensors/temp%201?unit=c",
		},
		{"scheme", RequestOptions{URIHost: "h", ProxyScheme: "coaps"}, "coaps://h/"},
		{"relative", RequestOptions{URIPath: []string{"a"}, URIQuery: Query{Flag("obs")}}, "/a?obs"},
		{"proxy uri", RequestOptions{ProxyURI: "coap://p/x", URIHost: "ignored"}, "coap://p/x"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.opts.URI(); got != c.want {
				t.Errorf("URI() = %q, want %q", got, c.want)
			}
		})
	}

	r := RequestOptions{URIPath: []string{"a", "b"}}
	if got := r.Path(); got != "/a/b" {
		t.Errorf("Path() = %q", got)
	}
	if got := r.Interest(); got != AllResponses {
		t.Errorf("Interest() = %+v without No-Response", got)
	}
}

func TestResponseHelpers(t *testing.T) {
	var r ResponseOptions
	if got := r.MaxAgeOrDefault(); got != DefaultMaxAge {
		t.Errorf("MaxAgeOrDefault() = %d", got)
	}
	if _, ok := r.Location(); ok {
		t.Error("Location() reported a location for an empty response")
	}

	r.MaxAge = Uint32(0)
	r.LocationPath = []string{"items", "7"}
	r.LocationQuery = Query{Param("v", "2")}
	if got := r.MaxAgeOrDefault(); got != 0 {
		t.Errorf("MaxAgeOrDefault() = %d, want 0", got)
	}
	if loc, ok := r.Location(); !ok || loc != "/items/7?v=2" {
		t.Errorf("Location() = %q, %v", loc, ok)
	}
}

func TestOthers(t *testing.T) {
	o := Others{
		{Alias: "Echo", Number: 252, Value: bytevalue.FromString("x")},
		{Number: 65000, Value: bytevalue.MustHex("01")},
		{Alias: "Echo", Number: 252, Value: bytevalue.FromString("y")},
	}
	if got := o.Get("Echo"); len(got) != 2 || got[1].String() != "y" {
		t.Errorf("Get(Echo) = %v", got)
	}
	if got := o.Number(65000); len(got) != 1 || got[0].Hex() != "01" {
		t.Errorf("Number(65000) = %v", got)
	}
	if got := o.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v", got)
	}
}

func TestString(t *testing.T) {
	req := RequestOptions{
		IfMatch:  []bytevalue.Value{bytevalue.MustHex("0a0b")},
		IfExists: true,
		URIPath:  []string{"a", "b"},
		URIQuery: Query{Param("x", "1")},
		Accept:   Uint32(50),
		Other:    Others{{Number: 65000, Value: bytevalue.MustHex("ff")}},
	}
	want := `RequestOptions{If-Match=[0x0a0b], If-Match=*, Uri-Path=["a" "b"], Uri-Query="x=1", Accept=50, Option(65000)=0xff}`
	if got := req.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}

	etag := bytevalue.MustHex("01")
	resp := ResponseOptions{ETag: &etag, MaxAge: Uint32(30)}
	if got, want := resp.String(), "ResponseOptions{ETag=0x01, Max-Age=30}"; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}

	if got := (&RequestOptions{}).String(); got != "RequestOptions{}" {
		t.Errorf("empty String() = %s", got)
	}
}

// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/absmach/coapopts/pkg/bytevalue"
	cerrors "github.com/absmach/coapopts/pkg/errors"
	"github.com/absmach/coapopts/pkg/metrics"
	"github.com/absmach/coapopts/pkg/option"
	"github.com/plgd-dev/go-coap/v3/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestTranslator(t *testing.T) (*Translator, *metrics.Metrics) {
	t.Helper()
	m := metrics.New("test", prometheus.NewRegistry())
	tr := New(Config{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: m,
	})
	return tr, m
}

func fullRequest() *RequestOptions {
	return &RequestOptions{
		IfMatch:             []bytevalue.Value{bytevalue.MustHex("0a0b")},
		IfExists:            true,
		IfNoneMatch:         true,
		ETags:               []bytevalue.Value{bytevalue.MustHex("01")},
		URIHost:             "example.com",
		URIPort:             Uint32(5683),
		URIPath:             []string{"a", "b"},
		URIQuery:            Query{Param("x", "1"), Flag("flag")},
		ContentFormat:       Uint32(50),
		Accept:              Uint32(60),
		RequestSize:         Uint32(1024),
		RequireResponseSize: true,
		NoResponse:          &NoResponse{},
		Observe:             Uint32(0),
		Block2:              Uint32(6),
	}
}

func TestDecodeRequest(t *testing.T) {
	cases := []struct {
		desc string
		opts []message.Option
		want *RequestOptions
	}{
		{
			desc: "no options",
			want: &RequestOptions{},
		},
		{
			desc: "every request option",
			opts: []message.Option{
				opt(message.NoResponse, 0x1a),
				opt(message.IfMatch, 0x0a, 0x0b),
				opt(message.IfMatch),
				sopt(message.URIHost, "example.com"),
				opt(message.ETag, 0x01),
				opt(message.IfNoneMatch),
				opt(message.Observe),
				opt(message.URIPort, 0x16, 0x33),
				sopt(message.URIPath, "a"),
				sopt(message.URIPath, "b"),
				opt(message.ContentFormat, 0x32),
				sopt(message.URIQuery, "x=1"),
				sopt(message.URIQuery, "flag"),
				opt(message.Accept, 0x3c),
				opt(message.Block2, 0x06),
				opt(message.Size2),
				opt(message.Size1, 0x04, 0x00),
			},
			want: fullRequest(),
		},
		{
			desc: "wildcard only",
			opts: []message.Option{opt(message.IfMatch)},
			want: &RequestOptions{IfExists: true},
		},
		{
			desc: "non-zero Size2 ignored",
			opts: []message.Option{opt(message.Size2, 0x10)},
			want: &RequestOptions{},
		},
		{
			desc: "repeated elective keeps first",
			opts: []message.Option{opt(message.ContentFormat, 0x32), opt(message.ContentFormat, 0x00)},
			want: &RequestOptions{ContentFormat: Uint32(50)},
		},
		{
			desc: "standard options without a field",
			opts: []message.Option{sopt(message.LocationPath, "x"), sopt(option.Echo, "nonce")},
			want: &RequestOptions{Other: Others{
				{Alias: "Location-Path", Number: message.LocationPath, Value: bytevalue.FromString("x")},
				{Alias: "Echo", Number: option.Echo, Value: bytevalue.FromString("nonce")},
			}},
		},
		{
			desc: "unknown elective kept raw",
			opts: []message.Option{opt(65000, 0xca, 0xfe)},
			want: &RequestOptions{Other: Others{{Number: 65000, Value: bytevalue.MustHex("cafe")}}},
		},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			tr, _ := newTestTranslator(t)
			got, err := tr.DecodeRequest(newFake(c.opts...))
			if err != nil {
				t.Fatalf("DecodeRequest() error = %v", err)
			}
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("DecodeRequest() =\n%s\nwant\n%s", got, c.want)
			}
		})
	}
}

func TestDecodeRequestErrors(t *testing.T) {
	cases := []struct {
		desc   string
		opts   []message.Option
		err    error
		option string
	}{
		{"unknown critical", []message.Option{sopt(65001, "x")}, cerrors.ErrUnknownCriticalOption, "65001"},
		{"long If-Match", []message.Option{opt(message.IfMatch, 1, 2, 3, 4, 5, 6, 7, 8, 9)}, cerrors.ErrInvalidOptionValue, "If-Match"},
		{"long Uri-Port", []message.Option{opt(message.URIPort, 1, 2, 3)}, cerrors.ErrInvalidOptionValue, "Uri-Port"},
		{"empty ETag", []message.Option{opt(message.ETag)}, cerrors.ErrInvalidOptionValue, "ETag"},
		{"empty Uri-Host", []message.Option{opt(message.URIHost)}, cerrors.ErrInvalidOptionValue, "Uri-Host"},
		{"non-empty If-None-Match", []message.Option{opt(message.IfNoneMatch, 1)}, cerrors.ErrInvalidOptionValue, "If-None-Match"},
		{"repeated critical", []message.Option{sopt(message.URIHost, "a"), sopt(message.URIHost, "b")}, cerrors.ErrInvalidOptionValue, "Uri-Host"},
		{
			desc:   "first failure wins",
			opts:   []message.Option{sopt(65001, "x"), opt(message.URIPort, 1, 2, 3)},
			err:    cerrors.ErrInvalidOptionValue,
			option: "Uri-Port",
		},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			tr, m := newTestTranslator(t)
			got, err := tr.DecodeRequest(newFake(c.opts...))
			if got != nil {
				t.Errorf("DecodeRequest() = %s, want nil", got)
			}
			if !errors.Is(err, c.err) {
				t.Fatalf("DecodeRequest() error = %v, want %v", err, c.err)
			}
			var oe *cerrors.OptionError
			if !errors.As(err, &oe) {
				t.Fatalf("error %v is not an OptionError", err)
			}
			if oe.Op != "decode" || oe.Option != c.option {
				t.Errorf("OptionError = %s %s, want decode %s", oe.Op, oe.Option, c.option)
			}
			if got := testutil.ToFloat64(m.TranslationErrors.WithLabelValues(dirRequest, cerrors.Kind(c.err))); got != 1 {
				t.Errorf("translation_errors_total = %v, want 1", got)
			}
		})
	}
}

func TestDecodeResponse(t *testing.T) {
	tr, _ := newTestTranslator(t)
	got, err := tr.DecodeResponse(newFake(
		opt(message.ETag, 0x01),
		opt(message.ETag, 0x02),
		sopt(message.LocationPath, "items"),
		sopt(message.LocationPath, "7"),
		sopt(message.LocationQuery, "v=2"),
		opt(message.ContentFormat, 0x32),
		opt(message.Size2, 0x04, 0x00),
		opt(message.Size1, 0x01, 0x00),
		opt(message.Observe, 0x05),
		opt(message.Block2, 0x0e),
		sopt(message.URIPath, "ignored"),
	))
	if err != nil {
		t.Fatalf("DecodeResponse() error = %v", err)
	}

	etag := bytevalue.MustHex("01")
	want := &ResponseOptions{
		ETag:                  &etag,
		LocationPath:          []string{"items", "7"},
		LocationQuery:         Query{Param("v", "2")},
		ContentFormat:         Uint32(50),
		ResponseSize:          Uint32(1024),
		AcceptableRequestSize: Uint32(256),
		Observe:               Uint32(5),
		Block2:                Uint32(14),
		Other:                 Others{{Alias: "Uri-Path", Number: message.URIPath, Value: bytevalue.FromString("ignored")}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeResponse() =\n%s\nwant\n%s", got, want)
	}
	if got.MaxAgeOrDefault() != DefaultMaxAge {
		t.Errorf("MaxAgeOrDefault() = %d", got.MaxAgeOrDefault())
	}
	if loc, _ := got.Location(); loc != "/items/7?v=2" {
		t.Errorf("Location() = %q", loc)
	}
}

func TestEncodeRequest(t *testing.T) {
	tr, m := newTestTranslator(t)
	c := newFake()
	if err := tr.EncodeRequest(fullRequest(), c); err != nil {
		t.Fatalf("EncodeRequest() error = %v", err)
	}

	ids := c.ids()
	if !sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] < ids[j] }) {
		t.Errorf("options not in ascending order: %v", ids)
	}
	if got := c.Values(message.IfMatch); len(got) != 2 || len(got[0]) != 0 {
		t.Errorf("If-Match values = %v, want wildcard first", got)
	}
	if got := c.Values(message.Size2); len(got) != 1 || len(got[0]) != 0 {
		t.Errorf("Size2 = %v, want single zero-length value", got)
	}
	if got := c.Values(message.NoResponse); len(got) != 1 || got[0][0] != 0x1a {
		t.Errorf("No-Response = %v, want 0x1a", got)
	}
	if got := c.Values(message.URIPort); !reflect.DeepEqual(got, [][]byte{{0x16, 0x33}}) {
		t.Errorf("Uri-Port = %v", got)
	}

	back, err := tr.DecodeRequest(c)
	if err != nil {
		t.Fatalf("DecodeRequest() error = %v", err)
	}
	if !reflect.DeepEqual(back, fullRequest()) {
		t.Errorf("round trip =\n%s\nwant\n%s", back, fullRequest())
	}
	if got := testutil.ToFloat64(m.OptionsEncoded.WithLabelValues(dirRequest)); got != float64(len(c.opts)) {
		t.Errorf("options_encoded_total = %v, want %d", got, len(c.opts))
	}
}

func TestIfMatchWildcard(t *testing.T) {
	tags := []bytevalue.Value{bytevalue.MustHex("01"), bytevalue.MustHex("0203")}
	for _, exists := range []bool{false, true} {
		for n := 0; n <= len(tags); n++ {
			tr, _ := newTestTranslator(t)
			in := &RequestOptions{IfExists: exists}
			if n > 0 {
				in.IfMatch = tags[:n]
			}

			c := newFake()
			if err := tr.EncodeRequest(in, c); err != nil {
				t.Fatalf("EncodeRequest(%s) error = %v", in, err)
			}
			out, err := tr.DecodeRequest(c)
			if err != nil {
				t.Fatalf("DecodeRequest() error = %v", err)
			}
			if out.IfExists != exists || !reflect.DeepEqual(out.IfMatch, in.IfMatch) {
				t.Errorf("round trip of %s = %s", in, out)
			}
		}
	}

	tr, _ := newTestTranslator(t)
	out, err := tr.DecodeRequest(newFake(opt(message.IfMatch, 0x0a, 0x0b), opt(message.IfMatch), opt(message.IfMatch, 0x0c)))
	if err != nil {
		t.Fatalf("DecodeRequest() error = %v", err)
	}
	want := []bytevalue.Value{bytevalue.MustHex("0a0b"), bytevalue.MustHex("0c")}
	if !out.IfExists || !reflect.DeepEqual(out.IfMatch, want) {
		t.Errorf("DecodeRequest(0a0b, *, 0c) = %s", out)
	}

	c := newFake()
	if err := tr.EncodeRequest(out, c); err != nil {
		t.Fatalf("EncodeRequest() error = %v", err)
	}
	if got := c.Values(message.IfMatch); !reflect.DeepEqual(got, [][]byte{{}, {0x0a, 0x0b}, {0x0c}}) {
		t.Errorf("If-Match values = %v, want wildcard then tags in order", got)
	}
}

func TestSizeDuality(t *testing.T) {
	tr, _ := newTestTranslator(t)

	req := newFake()
	if err := tr.EncodeRequest(&RequestOptions{RequestSize: Uint32(2048), RequireResponseSize: true}, req); err != nil {
		t.Fatal(err)
	}
	if got := req.Values(message.Size1); !reflect.DeepEqual(got, [][]byte{{0x08, 0x00}}) {
		t.Errorf("request Size1 = %v", got)
	}
	if got := req.Values(message.Size2); !reflect.DeepEqual(got, [][]byte{{}}) {
		t.Errorf("request Size2 = %v", got)
	}

	resp := newFake()
	if err := tr.EncodeResponse(&ResponseOptions{ResponseSize: Uint32(1024), AcceptableRequestSize: Uint32(512)}, resp); err != nil {
		t.Fatal(err)
	}
	if got := resp.Values(message.Size2); !reflect.DeepEqual(got, [][]byte{{0x04, 0x00}}) {
		t.Errorf("response Size2 = %v", got)
	}
	if got := resp.Values(message.Size1); !reflect.DeepEqual(got, [][]byte{{0x02, 0x00}}) {
		t.Errorf("response Size1 = %v", got)
	}
}

func TestEncodeResponse(t *testing.T) {
	tr, _ := newTestTranslator(t)
	etag := bytevalue.MustHex("a1b2")
	in := &ResponseOptions{
		ETag:          &etag,
		LocationPath:  []string{"items", "7"},
		LocationQuery: Query{Flag("new")},
		ContentFormat: Uint32(0),
		MaxAge:        Uint32(3600),
		Block1:        Uint32(0x1e),
		Other:         Others{{Alias: "Echo", Number: option.Echo, Value: bytevalue.FromString("n")}},
	}

	c := newFake()
	if err := tr.EncodeResponse(in, c); err != nil {
		t.Fatalf("EncodeResponse() error = %v", err)
	}
	ids := c.ids()
	if !sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] < ids[j] }) {
		t.Errorf("options not in ascending order: %v", ids)
	}
	out, err := tr.DecodeResponse(c)
	if err != nil {
		t.Fatalf("DecodeResponse() error = %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip =\n%s\nwant\n%s", out, in)
	}
}

func TestEncodeErrors(t *testing.T) {
	cases := []struct {
		desc string
		in   *RequestOptions
		err  error
	}{
		{"empty ETag", &RequestOptions{ETags: []bytevalue.Value{bytevalue.Empty}}, cerrors.ErrInvalidOptionValue},
		{"empty If-Match entry", &RequestOptions{IfMatch: []bytevalue.Value{bytevalue.Empty}}, cerrors.ErrInvalidOptionValue},
		{"long If-Match", &RequestOptions{IfMatch: []bytevalue.Value{bytevalue.MustHex("010203040506070809")}}, cerrors.ErrInvalidOptionValue},
		{"long Uri-Host", &RequestOptions{URIHost: strings.Repeat("h", 256)}, cerrors.ErrInvalidOptionValue},
		{"long Uri-Port", &RequestOptions{URIPort: Uint32(70000)}, cerrors.ErrInvalidOptionValue},
		{"unknown alias", &RequestOptions{Other: Others{{Alias: "Nope", Number: 65000}}}, cerrors.ErrUnknownOption},
		{"raw unknown critical", &RequestOptions{Other: Others{{Number: 65001, Value: bytevalue.FromString("x")}}}, cerrors.ErrUnknownCriticalOption},
		{"raw dedicated number", &RequestOptions{Other: Others{{Number: message.URIPath, Value: bytevalue.FromString("a")}}}, cerrors.ErrInvalidOptionValue},
		{"aliased dedicated number", &RequestOptions{Other: Others{{Alias: "Uri-Host", Value: bytevalue.FromString("h")}}}, cerrors.ErrInvalidOptionValue},
		{"raw empty Echo", &RequestOptions{Other: Others{{Number: option.Echo}}}, cerrors.ErrInvalidOptionValue},
		{"repeated Echo", &RequestOptions{Other: Others{
			{Alias: "Echo", Value: bytevalue.FromString("a")},
			{Alias: "Echo", Value: bytevalue.FromString("b")},
		}}, cerrors.ErrInvalidOptionValue},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			tr, _ := newTestTranslator(t)
			coll := newFake()
			err := tr.EncodeRequest(c.in, coll)
			if !errors.Is(err, c.err) {
				t.Fatalf("EncodeRequest() error = %v, want %v", err, c.err)
			}
			if len(coll.opts) != 0 {
				t.Errorf("collection modified on error: %v", coll.ids())
			}
		})
	}
}

func TestEncodeResponseErrors(t *testing.T) {
	cases := []struct {
		desc string
		in   *ResponseOptions
		err  error
	}{
		{"raw empty ETag", &ResponseOptions{Other: Others{{Number: message.ETag}}}, cerrors.ErrInvalidOptionValue},
		{"raw unknown critical", &ResponseOptions{Other: Others{{Number: 65001, Value: bytevalue.FromString("x")}}}, cerrors.ErrUnknownCriticalOption},
		{"raw Max-Age", &ResponseOptions{Other: Others{{Number: message.MaxAge, Value: bytevalue.FromInt(60)}}}, cerrors.ErrInvalidOptionValue},
		{"long Uri-Host", &ResponseOptions{Other: Others{{Number: message.URIHost, Value: bytevalue.FromString(strings.Repeat("h", 256))}}}, cerrors.ErrInvalidOptionValue},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			tr, _ := newTestTranslator(t)
			coll := newFake()
			err := tr.EncodeResponse(c.in, coll)
			if !errors.Is(err, c.err) {
				t.Fatalf("EncodeResponse() error = %v, want %v", err, c.err)
			}
			if len(coll.opts) != 0 {
				t.Errorf("collection modified on error: %v", coll.ids())
			}
		})
	}
}

// Every Other entry accepted by an encoder decodes back without error.
func TestEncodeOthersSymmetry(t *testing.T) {
	tr, _ := newTestTranslator(t)
	in := &ResponseOptions{Other: Others{
		{Number: message.URIHost, Value: bytevalue.FromString("h")},
		{Number: option.RequestTag},
		{Number: 65000, Value: bytevalue.FromString("x")},
	}}
	c := newFake()
	if err := tr.EncodeResponse(in, c); err != nil {
		t.Fatalf("EncodeResponse() error = %v", err)
	}
	out, err := tr.DecodeResponse(c)
	if err != nil {
		t.Fatalf("DecodeResponse() error = %v", err)
	}
	want := Others{
		{Alias: "Uri-Host", Number: message.URIHost, Value: bytevalue.FromString("h")},
		{Alias: "Request-Tag", Number: option.RequestTag, Value: bytevalue.Empty},
		{Number: 65000, Value: bytevalue.FromString("x")},
	}
	if !reflect.DeepEqual(out.Other, want) {
		t.Errorf("Other = %v, want %v", out.Other, want)
	}
}

func TestRegisteredOptions(t *testing.T) {
	reg := option.NewStandardRegistry()
	err := reg.Register(option.Definition{
		Alias:    "Tenant",
		Number:   65000,
		Format:   option.FormatString,
		MinBytes: 1,
		MaxBytes: 16,
	})
	if err != nil {
		t.Fatal(err)
	}
	tr := New(Config{Registry: reg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if tr.Registry() != reg {
		t.Error("Registry() does not return the configured registry")
	}

	in := &RequestOptions{
		URIPath: []string{"t"},
		Other:   Others{{Alias: "Tenant", Number: 65000, Value: bytevalue.FromString("acme")}},
	}
	c := newFake()
	if err := tr.EncodeRequest(in, c); err != nil {
		t.Fatalf("EncodeRequest() error = %v", err)
	}
	out, err := tr.DecodeRequest(c)
	if err != nil {
		t.Fatalf("DecodeRequest() error = %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip = %s, want %s", out, in)
	}
	if got := out.Other.Get("Tenant"); len(got) != 1 || got[0].String() != "acme" {
		t.Errorf("Other.Get(Tenant) = %v", got)
	}

	_, err = tr.DecodeRequest(newFake(sopt(65000, strings.Repeat("x", 17))))
	if !errors.Is(err, cerrors.ErrInvalidOptionValue) {
		t.Errorf("oversized Tenant error = %v", err)
	}
	err = tr.EncodeRequest(&RequestOptions{Other: Others{{Alias: "Tenant", Value: bytevalue.Empty}}}, newFake())
	if !errors.Is(err, cerrors.ErrInvalidOptionValue) {
		t.Errorf("empty Tenant error = %v", err)
	}
}

func TestUnknownElectiveMetrics(t *testing.T) {
	tr, m := newTestTranslator(t)
	if _, err := tr.DecodeRequest(newFake(opt(65000, 1), opt(65000, 2), sopt(message.URIPath, "a"))); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(m.UnknownElective); got != 1 {
		t.Errorf("unknown_elective_options_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.OptionsDecoded.WithLabelValues(dirRequest)); got != 3 {
		t.Errorf("options_decoded_total = %v, want 3", got)
	}
}

func TestNilConfig(t *testing.T) {
	tr := New(Config{})
	if tr.Registry() != option.DefaultRegistry() {
		t.Error("nil registry does not default to DefaultRegistry()")
	}
	if _, err := tr.DecodeRequest(NewWire(nil)); err != nil {
		t.Errorf("DecodeRequest() on empty wire: %v", err)
	}
}

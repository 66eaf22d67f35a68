// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/absmach/coapopts/pkg/bytevalue"
	"github.com/absmach/coapopts/pkg/errors"
	"github.com/absmach/coapopts/pkg/metrics"
	"github.com/absmach/coapopts/pkg/option"
	"github.com/plgd-dev/go-coap/v3/message"
)

const (
	dirRequest  = "request"
	dirResponse = "response"
)

// Config holds the translator dependencies.
type Config struct {
	// Registry resolves application-defined options. Defaults to
	// option.DefaultRegistry().
	Registry *option.Registry

	// Logger for translation events. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *metrics.Metrics
}

// Translator converts between raw option collections and attribute sets.
// It holds no mutable state and is safe for concurrent use.
type Translator struct {
	registry *option.Registry
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New creates a translator.
func New(cfg Config) *Translator {
	if cfg.Registry == nil {
		cfg.Registry = option.DefaultRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Translator{
		registry: cfg.Registry,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}
}

// Registry returns the registry used for application-defined options.
func (t *Translator) Registry() *option.Registry {
	return t.registry
}

// DecodeRequest builds the request attribute set from c. Options are visited
// in ascending number order and the first failure is returned.
func (t *Translator) DecodeRequest(c Collection) (*RequestOptions, error) {
	var (
		ro RequestOptions
		n  int
	)
	err := visit(c, func(id message.OptionID, vals [][]byte) error {
		n += len(vals)
		return t.decodeRequestOption(&ro, id, vals)
	})
	t.observeDecode(dirRequest, n, err)
	if err != nil {
		return nil, err
	}
	return &ro, nil
}

// DecodeResponse builds the response attribute set from c.
func (t *Translator) DecodeResponse(c Collection) (*ResponseOptions, error) {
	var (
		ro ResponseOptions
		n  int
	)
	err := visit(c, func(id message.OptionID, vals [][]byte) error {
		n += len(vals)
		return t.decodeResponseOption(&ro, id, vals)
	})
	t.observeDecode(dirResponse, n, err)
	if err != nil {
		return nil, err
	}
	return &ro, nil
}

func visit(c Collection, fn func(message.OptionID, [][]byte) error) error {
	for _, id := range c.Numbers() {
		if err := fn(id, c.Values(id)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Translator) decodeRequestOption(ro *RequestOptions, id message.OptionID, raw [][]byte) error {
	if !isRequestOption(id) {
		others, err := t.decodeOther(id, raw)
		ro.Other = append(ro.Other, others...)
		return err
	}

	vals, err := coreValues(id, raw)
	if err != nil {
		return err
	}

	switch id {
	case message.IfMatch:
		for _, v := range vals {
			if len(v) == 0 {
				ro.IfExists = true
				continue
			}
			ro.IfMatch = append(ro.IfMatch, bytevalue.FromBytes(v))
		}
	case message.URIHost:
		ro.URIHost = string(vals[0])
	case message.ETag:
		for _, v := range vals {
			ro.ETags = append(ro.ETags, bytevalue.FromBytes(v))
		}
	case message.IfNoneMatch:
		ro.IfNoneMatch = true
	case message.Observe:
		ro.Observe = decodeUint(vals[0])
	case message.URIPort:
		ro.URIPort = decodeUint(vals[0])
	case message.URIPath:
		ro.URIPath = toStrings(vals)
	case message.ContentFormat:
		ro.ContentFormat = decodeUint(vals[0])
	case message.URIQuery:
		ro.URIQuery = ParseQuery(toStrings(vals))
	case message.Accept:
		ro.Accept = decodeUint(vals[0])
	case message.Block2:
		ro.Block2 = decodeUint(vals[0])
	case message.Block1:
		ro.Block1 = decodeUint(vals[0])
	case message.Size2:
		if size := *decodeUint(vals[0]); size != 0 {
			t.logger.Debug("ignoring non-zero Size2 in request", slog.Uint64("size2", uint64(size)))
			break
		}
		ro.RequireResponseSize = true
	case message.ProxyURI:
		ro.ProxyURI = string(vals[0])
	case message.ProxyScheme:
		ro.ProxyScheme = string(vals[0])
	case message.Size1:
		ro.RequestSize = decodeUint(vals[0])
	case message.NoResponse:
		nr := DecodeNoResponse(*decodeUint(vals[0]))
		ro.NoResponse = &nr
	}
	return nil
}

func (t *Translator) decodeResponseOption(ro *ResponseOptions, id message.OptionID, raw [][]byte) error {
	if !isResponseOption(id) {
		others, err := t.decodeOther(id, raw)
		ro.Other = append(ro.Other, others...)
		return err
	}

	vals, err := coreValues(id, raw)
	if err != nil {
		return err
	}

	switch id {
	case message.ETag:
		etag := bytevalue.FromBytes(vals[0])
		ro.ETag = &etag
		if len(vals) > 1 {
			t.logger.Debug("keeping first ETag of response", slog.Int("count", len(vals)))
		}
	case message.Observe:
		ro.Observe = decodeUint(vals[0])
	case message.LocationPath:
		ro.LocationPath = toStrings(vals)
	case message.ContentFormat:
		ro.ContentFormat = decodeUint(vals[0])
	case message.MaxAge:
		ro.MaxAge = decodeUint(vals[0])
	case message.LocationQuery:
		ro.LocationQuery = ParseQuery(toStrings(vals))
	case message.Block2:
		ro.Block2 = decodeUint(vals[0])
	case message.Block1:
		ro.Block1 = decodeUint(vals[0])
	case message.Size2:
		ro.ResponseSize = decodeUint(vals[0])
	case message.Size1:
		ro.AcceptableRequestSize = decodeUint(vals[0])
	}
	return nil
}

// decodeOther resolves an option without a dedicated attribute through the
// registry, then the standard table. Unknown critical options fail; unknown
// elective options are kept raw.
func (t *Translator) decodeOther(id message.OptionID, raw [][]byte) (Others, error) {
	if def, ok := t.registry.LookupNumber(id); ok {
		vals, err := checkRepeats(def, raw)
		if err != nil {
			return nil, err
		}
		out := make(Others, 0, len(vals))
		for _, v := range vals {
			val, err := t.registry.Decode(def.Alias, message.Option{ID: id, Value: v})
			if err != nil {
				return nil, err
			}
			out = append(out, OtherOption{Alias: def.Alias, Number: id, Value: val})
		}
		return out, nil
	}

	if def, ok := option.StandardDefinition(id); ok {
		vals, err := coreValues(id, raw)
		if err != nil {
			return nil, err
		}
		out := make(Others, 0, len(vals))
		for _, v := range vals {
			out = append(out, OtherOption{Alias: def.Alias, Number: id, Value: bytevalue.FromBytes(v)})
		}
		return out, nil
	}

	if option.IsCritical(id) {
		return nil, errors.New("decode", strconv.FormatUint(uint64(id), 10), errors.ErrUnknownCriticalOption)
	}

	t.logger.Debug("retaining unknown elective option",
		slog.Int("number", int(id)),
		slog.Int("occurrences", len(raw)))
	t.metrics.ObserveUnknownElective()

	out := make(Others, 0, len(raw))
	for _, v := range raw {
		out = append(out, OtherOption{Number: id, Value: bytevalue.FromBytes(v)})
	}
	return out, nil
}

// EncodeRequest writes ro to c in ascending option number order.
func (t *Translator) EncodeRequest(ro *RequestOptions, c Collection) error {
	var e encoder

	if ro.IfExists {
		e.add(message.IfMatch, nil)
	}
	for _, v := range ro.IfMatch {
		if v.IsEmpty() {
			e.fail(message.IfMatch, fmt.Errorf("%w: empty entity tag in If-Match list", errors.ErrInvalidOptionValue))
			continue
		}
		e.add(message.IfMatch, v.Bytes())
	}
	e.addString(message.URIHost, ro.URIHost)
	for _, v := range ro.ETags {
		e.add(message.ETag, v.Bytes())
	}
	if ro.IfNoneMatch {
		e.add(message.IfNoneMatch, nil)
	}
	e.addUint(message.Observe, ro.Observe)
	e.addUint(message.URIPort, ro.URIPort)
	for _, seg := range ro.URIPath {
		e.add(message.URIPath, []byte(seg))
	}
	e.addUint(message.ContentFormat, ro.ContentFormat)
	for _, tok := range ro.URIQuery.Tokens() {
		e.add(message.URIQuery, []byte(tok))
	}
	e.addUint(message.Accept, ro.Accept)
	e.addUint(message.Block2, ro.Block2)
	e.addUint(message.Block1, ro.Block1)
	if ro.RequireResponseSize {
		e.addUint(message.Size2, Uint32(0))
	}
	e.addString(message.ProxyURI, ro.ProxyURI)
	e.addString(message.ProxyScheme, ro.ProxyScheme)
	e.addUint(message.Size1, ro.RequestSize)
	if ro.NoResponse != nil {
		e.addUint(message.NoResponse, Uint32(ro.NoResponse.Mask()))
	}
	t.encodeOthers(&e, ro.Other, isRequestOption)

	err := e.flush(c)
	t.observeEncode(dirRequest, len(e.opts), err)
	return err
}

// EncodeResponse writes ro to c in ascending option number order.
func (t *Translator) EncodeResponse(ro *ResponseOptions, c Collection) error {
	var e encoder

	if ro.ETag != nil {
		e.add(message.ETag, ro.ETag.Bytes())
	}
	e.addUint(message.Observe, ro.Observe)
	for _, seg := range ro.LocationPath {
		e.add(message.LocationPath, []byte(seg))
	}
	e.addUint(message.ContentFormat, ro.ContentFormat)
	e.addUint(message.MaxAge, ro.MaxAge)
	for _, tok := range ro.LocationQuery.Tokens() {
		e.add(message.LocationQuery, []byte(tok))
	}
	e.addUint(message.Block2, ro.Block2)
	e.addUint(message.Block1, ro.Block1)
	e.addUint(message.Size2, ro.ResponseSize)
	e.addUint(message.Size1, ro.AcceptableRequestSize)
	t.encodeOthers(&e, ro.Other, isResponseOption)

	err := e.flush(c)
	t.observeEncode(dirResponse, len(e.opts), err)
	return err
}

// encodeOthers validates others the way decodeOther resolves them. Numbers
// with a dedicated attribute in the direction are rejected.
func (t *Translator) encodeOthers(e *encoder, others Others, dedicated func(message.OptionID) bool) {
	seen := make(map[message.OptionID]bool)
	for _, o := range others {
		def, known, err := t.lookupOther(o)
		if err != nil {
			e.setErr(err)
			continue
		}
		id := o.Number
		if known {
			id = def.Number
		}
		if dedicated(id) {
			e.fail(id, fmt.Errorf("%w: option has a dedicated attribute", errors.ErrInvalidOptionValue))
			continue
		}

		if !known {
			if option.IsCritical(id) {
				e.setErr(errors.New("encode", strconv.FormatUint(uint64(id), 10), errors.ErrUnknownCriticalOption))
				continue
			}
			e.opts = append(e.opts, message.Option{ID: id, Value: o.Value.Bytes()})
			continue
		}

		if def.SingleValue && seen[id] {
			e.setErr(errors.New("encode", def.Alias,
				fmt.Errorf("%w: repeated non-repeatable option", errors.ErrInvalidOptionValue)))
			continue
		}
		seen[id] = true
		if err := def.Check(o.Value.Len()); err != nil {
			e.setErr(errors.New("encode", def.Alias, err))
			continue
		}
		e.opts = append(e.opts, message.Option{ID: id, Value: o.Value.Bytes()})
	}
}

// lookupOther finds the definition of o by alias, or by number when the alias
// is empty, in the registry and then the standard table.
func (t *Translator) lookupOther(o OtherOption) (option.Definition, bool, error) {
	if o.Alias == "" {
		if def, ok := t.registry.LookupNumber(o.Number); ok {
			return def, true, nil
		}
		def, ok := option.StandardDefinition(o.Number)
		return def, ok, nil
	}
	if def, ok := t.registry.Lookup(o.Alias); ok {
		return def, true, nil
	}
	if def, ok := option.StandardDefinition(o.Number); ok && def.Alias == o.Alias {
		return def, true, nil
	}
	return option.Definition{}, false, errors.New("encode", o.Alias, errors.ErrUnknownOption)
}

func (t *Translator) observeDecode(dir string, n int, err error) {
	if err != nil {
		t.logger.Debug("option decoding failed",
			slog.String("direction", dir),
			slog.String("error", err.Error()))
	}
	t.metrics.ObserveDecode(dir, n, errors.Kind(err))
}

func (t *Translator) observeEncode(dir string, n int, err error) {
	if err != nil {
		t.logger.Debug("option encoding failed",
			slog.String("direction", dir),
			slog.String("error", err.Error()))
	}
	t.metrics.ObserveEncode(dir, n, errors.Kind(err))
}

// encoder collects validated options and keeps the first error.
type encoder struct {
	opts []message.Option
	err  error
}

func (e *encoder) setErr(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) fail(id message.OptionID, err error) {
	e.setErr(errors.New("encode", option.Name(id), err))
}

func (e *encoder) add(id message.OptionID, value []byte) {
	if def, ok := option.StandardDefinition(id); ok {
		if err := def.Check(len(value)); err != nil {
			e.fail(id, err)
			return
		}
	}
	if value == nil {
		value = []byte{}
	}
	e.opts = append(e.opts, message.Option{ID: id, Value: value})
}

func (e *encoder) addString(id message.OptionID, s string) {
	if s != "" {
		e.add(id, []byte(s))
	}
}

func (e *encoder) addUint(id message.OptionID, v *uint32) {
	if v == nil {
		return
	}
	var buf [4]byte
	n, err := message.EncodeUint32(buf[:], *v)
	if err != nil {
		e.fail(id, fmt.Errorf("%w: %w", errors.ErrInvalidOptionValue, err))
		return
	}
	e.add(id, buf[:n])
}

// flush writes the collected options to c, ordered by number with the
// relative order of equal numbers preserved.
func (e *encoder) flush(c Collection) error {
	if e.err != nil {
		return e.err
	}
	sort.SliceStable(e.opts, func(i, j int) bool { return e.opts[i].ID < e.opts[j].ID })
	for _, o := range e.opts {
		c.Add(o.ID, o.Value)
	}
	return nil
}

func isRequestOption(id message.OptionID) bool {
	switch id {
	case message.IfMatch, message.URIHost, message.ETag, message.IfNoneMatch,
		message.Observe, message.URIPort, message.URIPath, message.ContentFormat,
		message.URIQuery, message.Accept, message.Block2, message.Block1,
		message.Size2, message.ProxyURI, message.ProxyScheme, message.Size1,
		message.NoResponse:
		return true
	}
	return false
}

func isResponseOption(id message.OptionID) bool {
	switch id {
	case message.ETag, message.Observe, message.LocationPath, message.ContentFormat,
		message.MaxAge, message.LocationQuery, message.Block2, message.Block1,
		message.Size2, message.Size1:
		return true
	}
	return false
}

// coreValues validates the values of a standard option against its
// definition.
func coreValues(id message.OptionID, raw [][]byte) ([][]byte, error) {
	def, ok := option.StandardDefinition(id)
	if !ok {
		return raw, nil
	}
	for _, v := range raw {
		if err := def.Check(len(v)); err != nil {
			return nil, errors.New("decode", def.Alias, err)
		}
	}
	return checkRepeats(def, raw)
}

// checkRepeats applies RFC 7252 §5.4.5: occurrences of a non-repeatable
// option beyond the first are dropped when elective and rejected when
// critical.
func checkRepeats(def option.Definition, raw [][]byte) ([][]byte, error) {
	if !def.SingleValue || len(raw) <= 1 {
		return raw, nil
	}
	if option.IsCritical(def.Number) {
		return nil, errors.New("decode", def.Alias,
			fmt.Errorf("%w: %d occurrences of a non-repeatable option", errors.ErrInvalidOptionValue, len(raw)))
	}
	return raw[:1], nil
}

func decodeUint(b []byte) *uint32 {
	v, _, _ := message.DecodeUint32(b)
	return &v
}

func toStrings(vals [][]byte) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

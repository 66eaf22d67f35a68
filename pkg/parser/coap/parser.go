// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package coap

import (
	"context"
	"fmt"
	"io"

	"github.com/absmach/coapopts/pkg/attrs"
	"github.com/absmach/coapopts/pkg/metrics"
	"github.com/absmach/coapopts/pkg/parser"
	"github.com/plgd-dev/go-coap/v3/message"
	"github.com/plgd-dev/go-coap/v3/message/pool"
	"github.com/plgd-dev/go-coap/v3/udp/coder"
)

// Parser implements the parser.Parser interface for CoAP over UDP.
type Parser struct {
	translator *attrs.Translator
	metrics    *metrics.Metrics
}

var _ parser.Parser = (*Parser)(nil)

// New creates a parser. A nil translator is replaced by one with the
// default configuration; m may be nil.
func New(tr *attrs.Translator, m *metrics.Metrics) *Parser {
	if tr == nil {
		tr = attrs.New(attrs.Config{Metrics: m})
	}
	return &Parser{translator: tr, metrics: m}
}

// Parse unmarshals one CoAP message and translates its options.
func (p *Parser) Parse(ctx context.Context, data []byte) (*parser.Result, error) {
	msg := pool.NewMessage(ctx)
	defer msg.Reset()

	if _, err := msg.UnmarshalWithDecoder(coder.DefaultCoder, data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal CoAP message: %w", err)
	}

	res := &parser.Result{
		Direction: parser.DirectionOf(msg.Code()),
		Type:      msg.Type(),
		Code:      msg.Code(),
		MessageID: msg.MessageID(),
		Token:     append(message.Token(nil), msg.Token()...),
	}

	raw, err := rawOptions(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal CoAP options: %w", err)
	}
	opts := attrs.NewWire(raw)
	switch res.Direction {
	case parser.Request:
		res.Request, err = p.translator.DecodeRequest(opts)
	case parser.Response:
		res.Response, err = p.translator.DecodeResponse(opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to translate CoAP %s options: %w", res.Direction, err)
	}

	p.metrics.ObserveMessage(res.Direction.String(), res.Code.String())
	return res, nil
}

// verbatim has no option definitions, so no option is dropped for an illegal
// length. The translator checks lengths.
var verbatim = map[message.OptionID]message.OptionDef{}

// rawOptions reads the options of a datagram whose header and token were
// already validated.
func rawOptions(data []byte) (message.Options, error) {
	rest := data[4+int(data[0]&0x0f):]
	opts := make(message.Options, 0, len(rest))
	if _, err := opts.Unmarshal(rest, verbatim); err != nil {
		return nil, err
	}
	return opts, nil
}

// ParseFrom reads r to the end and parses the content as one datagram.
func (p *Parser) ParseFrom(ctx context.Context, r io.Reader) (*parser.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CoAP message: %w", err)
	}
	return p.Parse(ctx, data)
}

// Build encodes the attribute set selected by r.Direction and marshals the
// message. A missing attribute set produces a message without options.
func (p *Parser) Build(ctx context.Context, r *parser.Result) ([]byte, error) {
	var opts attrs.Wire
	switch {
	case r.Direction == parser.Request && r.Request != nil:
		if err := p.translator.EncodeRequest(r.Request, &opts); err != nil {
			return nil, fmt.Errorf("failed to encode CoAP request options: %w", err)
		}
	case r.Direction == parser.Response && r.Response != nil:
		if err := p.translator.EncodeResponse(r.Response, &opts); err != nil {
			return nil, fmt.Errorf("failed to encode CoAP response options: %w", err)
		}
	}

	msg := pool.NewMessage(ctx)
	defer msg.Reset()

	msg.SetType(r.Type)
	msg.SetCode(r.Code)
	msg.SetMessageID(r.MessageID)
	msg.SetToken(r.Token)
	for _, o := range opts.Options {
		msg.AddOptionBytes(o.ID, o.Value)
	}

	data, err := msg.MarshalWithEncoder(coder.DefaultCoder)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal CoAP message: %w", err)
	}
	return data, nil
}

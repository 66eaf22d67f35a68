// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/absmach/coapopts/pkg/attrs"
	"github.com/absmach/coapopts/pkg/bytevalue"
	"github.com/absmach/coapopts/pkg/config"
	"github.com/absmach/coapopts/pkg/duration"
	"github.com/absmach/coapopts/pkg/option"
	"github.com/absmach/coapopts/pkg/parser"
	"github.com/absmach/coapopts/pkg/parser/coap"
	"github.com/plgd-dev/go-coap/v3/message"
	"github.com/plgd-dev/go-coap/v3/message/codes"
	"golang.org/x/sync/errgroup"
)

var errUsage = errors.New("invalid usage")

type app struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *option.Registry
	parser   *coap.Parser
	in       io.Reader
	out      io.Writer
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "decode":
		if len(args) == 0 {
			return errUsage
		}
		return a.decode(ctx, args)
	case "stream":
		return a.stream(ctx)
	case "duration":
		if len(args) == 0 {
			return errUsage
		}
		return a.duration(args)
	case "classify":
		if len(args) == 0 {
			return errUsage
		}
		return a.classify(args)
	case "options":
		return a.options()
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// decode parses every argument concurrently and prints the results in
// argument order.
func (a *app) decode(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout.Std())
	defer cancel()

	lines := make([]string, len(args))
	failed := make([]bool, len(args))

	var g errgroup.Group
	g.SetLimit(a.cfg.Workers)
	for i, arg := range args {
		i, arg := i, arg
		g.Go(func() error {
			res, err := a.parseHex(ctx, arg)
			if err != nil {
				lines[i], failed[i] = "error: "+err.Error(), true
				return nil
			}
			lines[i] = res.String()
			return nil
		})
	}
	_ = g.Wait()

	var nfailed int
	for i, line := range lines {
		fmt.Fprintf(a.out, "#%d %s\n", i, line)
		if failed[i] {
			nfailed++
		}
	}
	if nfailed > 0 {
		return fmt.Errorf("%d of %d datagrams failed to decode", nfailed, len(args))
	}
	return nil
}

// stream decodes hex datagrams read line by line until EOF or cancellation.
// Failures are logged and do not stop the stream.
func (a *app) stream(ctx context.Context) error {
	sc := bufio.NewScanner(a.in)
	var n int
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		n++
		res, err := a.parseHex(ctx, line)
		if err != nil {
			a.logger.Warn("Failed to decode datagram",
				slog.Int("line", n),
				slog.String("error", err.Error()))
			continue
		}
		fmt.Fprintln(a.out, res.String())
	}
	return sc.Err()
}

func (a *app) parseHex(ctx context.Context, s string) (*parser.Result, error) {
	v, err := bytevalue.FromHex(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return a.parser.Parse(ctx, v.Bytes())
}

func (a *app) duration(args []string) error {
	for _, arg := range args {
		d, err := duration.Parse(arg)
		if err != nil {
			return fmt.Errorf("duration %q: %w", arg, err)
		}
		fmt.Fprintf(a.out, "%q\t%d\t%s\n", arg, d.Nanos(), d)
	}
	return nil
}

func (a *app) classify(args []string) error {
	for _, arg := range args {
		n, err := strconv.ParseUint(arg, 10, 16)
		if err != nil {
			return fmt.Errorf("%w: option number %q", errUsage, arg)
		}
		id := message.OptionID(n)
		fmt.Fprintf(a.out, "%d\t%s\t%s\n", n, a.name(id), option.Classify(id))
	}
	return nil
}

func (a *app) name(id message.OptionID) string {
	if d, ok := a.registry.LookupNumber(id); ok {
		return d.Alias
	}
	return option.Name(id)
}

func (a *app) options() error {
	for _, d := range a.registry.Definitions() {
		fmt.Fprintf(a.out, "%s\t%s\n", d, d.Classification())
	}
	return nil
}

// checkRegistry fails when a standard option is missing from the registry.
func (a *app) checkRegistry(context.Context) error {
	for _, d := range option.Standard() {
		if _, ok := a.registry.LookupNumber(d.Number); !ok {
			return fmt.Errorf("standard option %s is not registered", d.Alias)
		}
	}
	return nil
}

// checkTranslator builds a discovery request and parses it back.
func (a *app) checkTranslator(ctx context.Context) error {
	want := &parser.Result{
		Direction: parser.Request,
		Type:      message.NonConfirmable,
		Code:      codes.GET,
		Request:   &attrs.RequestOptions{URIPath: []string{".well-known", "core"}},
	}
	data, err := a.parser.Build(ctx, want)
	if err != nil {
		return err
	}
	got, err := a.parser.Parse(ctx, data)
	if err != nil {
		return err
	}
	if got.Request == nil || got.Request.Path() != "/.well-known/core" {
		return fmt.Errorf("round trip produced %s", got)
	}
	return nil
}

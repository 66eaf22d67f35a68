// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package option

import (
	"fmt"
	"sort"
	"sync"

	"github.com/absmach/coapopts/pkg/bytevalue"
	"github.com/absmach/coapopts/pkg/errors"
	"github.com/plgd-dev/go-coap/v3/message"
)

// Registry maps option aliases and numbers to definitions.
//
// Register is meant for the initialization phase only. Once registration is
// complete the registry may be shared by any number of goroutines; lookups do
// not lock.
type Registry struct {
	byAlias  map[string]Definition
	byNumber map[message.OptionID]Definition
}

// NewRegistry creates a registry holding defs.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		byAlias:  make(map[string]Definition, len(defs)),
		byNumber: make(map[message.OptionID]Definition, len(defs)),
	}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewStandardRegistry creates a registry pre-loaded with Standard().
func NewStandardRegistry() *Registry {
	r, err := NewRegistry(Standard()...)
	if err != nil {
		// The standard table is static and conflict free.
		panic(err)
	}
	return r
}

var defaultRegistry = sync.OnceValue(NewStandardRegistry)

// DefaultRegistry returns a shared registry holding the standard options. It
// is built on first use and must not be registered into.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Register adds d. Registering a definition equal to an existing one is a
// no-op; any other clash on alias or number fails with ErrDuplicateAlias.
func (r *Registry) Register(d Definition) error {
	if err := d.Validate(); err != nil {
		return errors.New("register", d.Alias, err)
	}
	if prev, ok := r.byAlias[d.Alias]; ok {
		if prev.Equal(d) {
			return nil
		}
		return errors.New("register", d.Alias, fmt.Errorf("%w: already defined as %s", errors.ErrDuplicateAlias, prev))
	}
	if prev, ok := r.byNumber[d.Number]; ok {
		return errors.New("register", d.Alias, fmt.Errorf("%w: number %d is bound to %s", errors.ErrDuplicateAlias, d.Number, prev.Alias))
	}
	r.byAlias[d.Alias] = d
	r.byNumber[d.Number] = d
	return nil
}

// Lookup returns the definition registered under alias.
func (r *Registry) Lookup(alias string) (Definition, bool) {
	d, ok := r.byAlias[alias]
	return d, ok
}

// LookupNumber returns the definition registered for id.
func (r *Registry) LookupNumber(id message.OptionID) (Definition, bool) {
	d, ok := r.byNumber[id]
	return d, ok
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.byAlias)
}

// Definitions returns all definitions ordered by option number.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.byNumber))
	for _, d := range r.byNumber {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Number < defs[j].Number })
	return defs
}

// Encode validates v against the definition registered under alias and
// returns the wire option.
func (r *Registry) Encode(alias string, v bytevalue.Value) (message.Option, error) {
	d, ok := r.byAlias[alias]
	if !ok {
		return message.Option{}, errors.New("encode", alias, errors.ErrUnknownOption)
	}
	if err := d.Check(v.Len()); err != nil {
		return message.Option{}, errors.New("encode", alias, err)
	}
	return message.Option{ID: d.Number, Value: v.Bytes()}, nil
}

// Decode returns the value of opt. It fails with ErrUnknownOption when no
// definition is registered for the option's number, or when alias is not
// empty and names a different definition.
func (r *Registry) Decode(alias string, opt message.Option) (bytevalue.Value, error) {
	d, ok := r.byNumber[opt.ID]
	if !ok {
		return bytevalue.Empty, errors.New("decode", fmt.Sprint(uint16(opt.ID)), errors.ErrUnknownOption)
	}
	if alias != "" && alias != d.Alias {
		return bytevalue.Empty, errors.New("decode", alias, fmt.Errorf("%w: option %d is %s", errors.ErrUnknownOption, opt.ID, d.Alias))
	}
	if err := d.Check(len(opt.Value)); err != nil {
		return bytevalue.Empty, errors.New("decode", d.Alias, err)
	}
	return bytevalue.FromBytes(opt.Value), nil
}

// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"sort"

	"github.com/plgd-dev/go-coap/v3/message"
)

// Collection is the raw option view supplied by the transport layer.
type Collection interface {
	// Has reports whether at least one option with the number is present.
	Has(id message.OptionID) bool

	// Values returns the values of every occurrence of the option, in wire
	// order.
	Values(id message.OptionID) [][]byte

	// Numbers returns the distinct option numbers present, ascending.
	Numbers() []message.OptionID

	// Add appends an occurrence of the option.
	Add(id message.OptionID, value []byte)
}

// Wire adapts go-coap options to Collection. The zero value is empty and
// ready to use.
type Wire struct {
	Options message.Options
}

var _ Collection = (*Wire)(nil)

// NewWire wraps opts.
func NewWire(opts message.Options) *Wire {
	return &Wire{Options: opts}
}

// Has implements Collection.
func (w *Wire) Has(id message.OptionID) bool {
	for _, o := range w.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Values implements Collection.
func (w *Wire) Values(id message.OptionID) [][]byte {
	var vals [][]byte
	for _, o := range w.Options {
		if o.ID == id {
			vals = append(vals, o.Value)
		}
	}
	return vals
}

// Numbers implements Collection.
func (w *Wire) Numbers() []message.OptionID {
	seen := make(map[message.OptionID]struct{}, len(w.Options))
	ids := make([]message.OptionID, 0, len(w.Options))
	for _, o := range w.Options {
		if _, ok := seen[o.ID]; ok {
			continue
		}
		seen[o.ID] = struct{}{}
		ids = append(ids, o.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Add implements Collection.
func (w *Wire) Add(id message.OptionID, value []byte) {
	w.Options = w.Options.Add(message.Option{ID: id, Value: value})
}

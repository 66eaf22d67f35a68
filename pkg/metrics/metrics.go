// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package metrics provides Prometheus instrumentation for option translation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters updated by the attribute translator and the
// CoAP message parser.
type Metrics struct {
	// Translation metrics
	OptionsDecoded    *prometheus.CounterVec
	OptionsEncoded    *prometheus.CounterVec
	TranslationErrors *prometheus.CounterVec

	// Unknown elective options kept as raw entries
	UnknownElective prometheus.Counter

	// Message metrics
	CoAPMessages *prometheus.CounterVec
}

// New creates the metrics and registers them with reg. A nil reg creates
// unregistered collectors, which is convenient in tests.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "coapopts"
	}
	factory := promauto.With(reg)

	return &Metrics{
		OptionsDecoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "options_decoded_total",
				Help:      "Total number of option values decoded into attribute sets",
			},
			[]string{"direction"},
		),
		OptionsEncoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "options_encoded_total",
				Help:      "Total number of option values encoded from attribute sets",
			},
			[]string{"direction"},
		),
		TranslationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "translation_errors_total",
				Help:      "Total number of failed option translations",
			},
			[]string{"direction", "kind"},
		),
		UnknownElective: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unknown_elective_options_total",
				Help:      "Total number of unrecognized elective options retained as raw values",
			},
		),
		CoAPMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "coap_messages_total",
				Help:      "Total number of CoAP messages parsed",
			},
			[]string{"direction", "code"},
		),
	}
}

// ObserveDecode records the outcome of a decode call. A nil receiver is a
// no-op.
func (m *Metrics) ObserveDecode(direction string, options int, kind string) {
	if m == nil {
		return
	}
	if kind != "" {
		m.TranslationErrors.WithLabelValues(direction, kind).Inc()
		return
	}
	m.OptionsDecoded.WithLabelValues(direction).Add(float64(options))
}

// ObserveEncode records the outcome of an encode call. A nil receiver is a
// no-op.
func (m *Metrics) ObserveEncode(direction string, options int, kind string) {
	if m == nil {
		return
	}
	if kind != "" {
		m.TranslationErrors.WithLabelValues(direction, kind).Inc()
		return
	}
	m.OptionsEncoded.WithLabelValues(direction).Add(float64(options))
}

// ObserveUnknownElective counts a retained unknown elective option.
func (m *Metrics) ObserveUnknownElective() {
	if m == nil {
		return
	}
	m.UnknownElective.Inc()
}

// ObserveMessage counts a parsed CoAP message.
func (m *Metrics) ObserveMessage(direction, code string) {
	if m == nil {
		return
	}
	m.CoAPMessages.WithLabelValues(direction, code).Inc()
}

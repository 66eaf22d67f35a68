// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package duration parses and renders compact multi-unit duration strings.
//
// # Grammar
//
// A duration is either
//
//   - one or more groups of up to 5 digits followed by a unit, with units in
//     strictly descending order d, h, m, s, ms, us, ns and none repeated,
//     e.g. "1d 2h", "90m", "1s500ms"; or
//   - a single group in s, ms, us or ns with up to 9, 12, 15 or 18 digits
//     respectively, e.g. "123456789ms".
//
// Whitespace may separate groups but may not appear between a digit run and
// its unit. Empty input fails with ErrEmptyDuration, everything else outside
// the grammar with ErrInvalidSyntax. Arithmetic is overflow-checked; an
// overflow is reported as ErrInvalidSyntax wrapping ErrValueTooLarge.
//
// # Rendering
//
// Format walks the units from largest to smallest and joins the non-zero
// groups with single spaces. Zero renders as "0ms".
//
//	duration.Format(90 * 60 * 1e9) // "1h 30m"
package duration

// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package attrs

import "strings"

// QueryParam is one Uri-Query or Location-Query token. Value is nil when the
// token has no '='.
type QueryParam struct {
	Key   string
	Value *string
}

// Param builds a key=value parameter.
func Param(key, value string) QueryParam {
	return QueryParam{Key: key, Value: &value}
}

// Flag builds a parameter without a value.
func Flag(key string) QueryParam {
	return QueryParam{Key: key}
}

// Token renders the parameter as it appears in a single option.
func (p QueryParam) Token() string {
	if p.Value == nil {
		return p.Key
	}
	return p.Key + "=" + *p.Value
}

// Query is an ordered list of parameters. Duplicate keys are kept.
type Query []QueryParam

// ParseQuery splits each token on its first '='.
func ParseQuery(tokens []string) Query {
	if len(tokens) == 0 {
		return nil
	}
	q := make(Query, 0, len(tokens))
	for _, tok := range tokens {
		q = append(q, parseToken(tok))
	}
	return q
}

// ParseQueryString splits s on '&' and parses the tokens. An empty string
// yields an empty query.
func ParseQueryString(s string) Query {
	if s == "" {
		return nil
	}
	return ParseQuery(strings.Split(s, "&"))
}

func parseToken(tok string) QueryParam {
	key, value, found := strings.Cut(tok, "=")
	if !found {
		return QueryParam{Key: tok}
	}
	return QueryParam{Key: key, Value: &value}
}

// Tokens renders one string per parameter, in order.
func (q Query) Tokens() []string {
	if len(q) == 0 {
		return nil
	}
	out := make([]string, len(q))
	for i, p := range q {
		out[i] = p.Token()
	}
	return out
}

// Encode joins the tokens with '&'. The boolean is false for an empty query,
// which has no query component at all.
func (q Query) Encode() (string, bool) {
	if len(q) == 0 {
		return "", false
	}
	return strings.Join(q.Tokens(), "&"), true
}

// Get returns the value of the first parameter named key. A parameter without
// '=' reports an empty value.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			if p.Value == nil {
				return "", true
			}
			return *p.Value, true
		}
	}
	return "", false
}

// Equal compares keys, values and value presence in order.
func (q Query) Equal(o Query) bool {
	if len(q) != len(o) {
		return false
	}
	for i := range q {
		a, b := q[i], o[i]
		if a.Key != b.Key || (a.Value == nil) != (b.Value == nil) {
			return false
		}
		if a.Value != nil && *a.Value != *b.Value {
			return false
		}
	}
	return true
}

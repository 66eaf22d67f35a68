// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package health runs named self checks and serves their outcome over HTTP.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/absmach/coapopts/pkg/duration"
)

// Status represents the health status.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// DefaultTTL is how long a check result is reused.
const DefaultTTL = 10 * time.Second

// Result is the outcome of one check.
type Result struct {
	Name    string            `json:"name"`
	Status  Status            `json:"status"`
	Error   string            `json:"error,omitempty"`
	Checked time.Time         `json:"checked"`
	Took    duration.Duration `json:"took"`
}

// CheckFunc performs a check. A nil error means healthy.
type CheckFunc func(ctx context.Context) error

// Checker runs registered checks and caches their results for a TTL.
type Checker struct {
	mu     sync.Mutex
	checks map[string]CheckFunc
	cache  map[string]Result
	ttl    time.Duration
	now    func() time.Time
}

// NewChecker creates a checker. A zero ttl means DefaultTTL.
func NewChecker(ttl time.Duration) *Checker {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Checker{
		checks: make(map[string]CheckFunc),
		cache:  make(map[string]Result),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Register adds or replaces a check.
func (c *Checker) Register(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
	delete(c.cache, name)
}

// Run returns the overall status and the per-check results ordered by name.
// The status is unhealthy when every check fails and degraded when some do.
func (c *Checker) Run(ctx context.Context) (Status, []Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]Result, 0, len(names))
	var failed int
	for _, name := range names {
		res, ok := c.cache[name]
		if !ok || c.now().Sub(res.Checked) >= c.ttl {
			res = c.run(ctx, name, c.checks[name])
			c.cache[name] = res
		}
		if res.Status != StatusHealthy {
			failed++
		}
		results = append(results, res)
	}

	switch {
	case failed == 0:
		return StatusHealthy, results
	case failed == len(results):
		return StatusUnhealthy, results
	default:
		return StatusDegraded, results
	}
}

func (c *Checker) run(ctx context.Context, name string, check CheckFunc) Result {
	start := c.now()
	err := check(ctx)
	res := Result{
		Name:    name,
		Status:  StatusHealthy,
		Checked: c.now(),
	}
	if took := res.Checked.Sub(start); took > 0 {
		res.Took = duration.FromStd(took)
	}
	if err != nil {
		res.Status = StatusUnhealthy
		res.Error = err.Error()
	}
	return res
}

// Handler serves the check results as JSON. Unhealthy answers 503; degraded
// still answers 200.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status, results := c.Run(ctx)

		w.Header().Set("Content-Type", "application/json")
		if status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(struct {
			Status Status   `json:"status"`
			Checks []Result `json:"checks"`
		}{status, results})
	}
}

// LivenessHandler answers every request with 200.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
	}
}

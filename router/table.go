package router

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNoSuchRule reports a removal whose target rule was never added.
var ErrNoSuchRule = errors.New("no such rule")

// Table is a thread-safe store of routing rules, a multi-valued map
// from endpoint to the rules registered for it.  One mutex guards the
// whole table; there is no per-endpoint locking.  The atomic operations
// (AddRule, RemoveRule, RemoveAllRules, OkToSend) take the lock
// internally.  Multi-step traversal goes through a Cursor, which holds
// the lock for exactly its own lifetime.
type Table struct {
	mu    sync.Mutex
	rules map[EndpointID][]Rule
	log   *zap.Logger
}

// Option configures a Table.
type Option func(*Table)

// WithLogger attaches a structured logger for rule churn.
func WithLogger(log *zap.Logger) Option {
	return func(t *Table) { t.log = log }
}

// New creates an empty rule table.
func New(opts ...Option) *Table {
	t := &Table{
		rules: make(map[EndpointID][]Rule),
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// AddRule registers a rule for an endpoint.  Duplicate rules are
// allowed; each removal takes out one entry.
func (t *Table) AddRule(endpoint EndpointID, rule Rule) {
	t.mu.Lock()
	t.rules[endpoint] = append(t.rules[endpoint], rule)
	t.mu.Unlock()
	t.log.Debug("rule added",
		zap.String("endpoint", string(endpoint)),
		zap.String("rule", rule.String()))
}

// RemoveRule removes one entry matching rule from an endpoint.
// Returns ErrNoSuchRule when no matching entry exists.
func (t *Table) RemoveRule(endpoint EndpointID, rule Rule) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := t.rules[endpoint]
	for i, have := range list {
		if have == rule {
			list = append(list[:i], list[i+1:]...)
			if len(list) == 0 {
				delete(t.rules, endpoint)
			} else {
				t.rules[endpoint] = list
			}
			t.log.Debug("rule removed",
				zap.String("endpoint", string(endpoint)),
				zap.String("rule", rule.String()))
			return nil
		}
	}
	return errors.Wrapf(ErrNoSuchRule, "endpoint %q", endpoint)
}

// RemoveAllRules removes every rule for an endpoint, returning the
// number removed.  Called on endpoint teardown.
func (t *Table) RemoveAllRules(endpoint EndpointID) int {
	t.mu.Lock()
	n := len(t.rules[endpoint])
	delete(t.rules, endpoint)
	t.mu.Unlock()
	if n > 0 {
		t.log.Debug("rules cleared",
			zap.String("endpoint", string(endpoint)),
			zap.Int("count", n))
	}
	return n
}

// OkToSend reports whether msg may be delivered to endpoint: true when
// any of the endpoint's rules matches, false when none do or none are
// registered (default deny).  This is the atomic query form; it takes
// the lock itself.
func (t *Table) OkToSend(msg Message, endpoint EndpointID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, rule := range t.rules[endpoint] {
		if rule.Match(msg) {
			return true
		}
	}
	return false
}

// Cursor provides multi-step traversal under one lock acquisition.
// The table's lock is held from Acquire until Release, so readings
// across several calls are mutually consistent.  A cursor must be
// released; holding one across a call back into the table's atomic
// operations deadlocks.
type Cursor struct {
	t        *Table
	released bool
}

// Acquire locks the table and returns a cursor for multi-step
// traversal.  Callers needing only a single query should use OkToSend.
func (t *Table) Acquire() *Cursor {
	t.mu.Lock()
	return &Cursor{t: t}
}

// Release unlocks the table.  The cursor is dead afterwards; further
// calls panic on the zeroed table reference rather than racing.
func (c *Cursor) Release() {
	if c.released {
		return
	}
	c.released = true
	t := c.t
	c.t = nil
	t.mu.Unlock()
}

// Endpoints returns the endpoints with registered rules in ascending
// order.
func (c *Cursor) Endpoints() []EndpointID {
	eps := make([]EndpointID, 0, len(c.t.rules))
	for ep := range c.t.rules {
		eps = append(eps, ep)
	}
	sort.Slice(eps, func(i, j int) bool { return eps[i] < eps[j] })
	return eps
}

// RulesFor returns the rules registered for an endpoint.  The slice is
// the table's own storage and is valid only until Release.
func (c *Cursor) RulesFor(endpoint EndpointID) []Rule {
	return c.t.rules[endpoint]
}

// NextEndpoint returns the smallest endpoint greater than after, for
// resumable traversal across endpoints.
func (c *Cursor) NextEndpoint(after EndpointID) (EndpointID, bool) {
	var next EndpointID
	found := false
	for ep := range c.t.rules {
		if ep > after && (!found || ep < next) {
			next = ep
			found = true
		}
	}
	return next, found
}

// OkToSend is the cursor form of Table.OkToSend, for callers already
// holding the lock as part of a larger traversal.
func (c *Cursor) OkToSend(msg Message, endpoint EndpointID) bool {
	for _, rule := range c.t.rules[endpoint] {
		if rule.Match(msg) {
			return true
		}
	}
	return false
}

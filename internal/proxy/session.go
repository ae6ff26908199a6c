package proxy

import (
	"math"
	"sync/atomic"
)

// SessionCounter hands out connection identifiers for log correlation.
//
// Identifiers start at 1, increase by one per call and wrap from max back
// to 1. Zero is never returned. Next is safe for concurrent use.
type SessionCounter struct {
	n   atomic.Uint64
	max uint64
}

// NewSessionCounter returns a counter that wraps after limit. A limit of 0
// means math.MaxUint64.
func NewSessionCounter(limit uint64) *SessionCounter {
	if limit == 0 {
		limit = math.MaxUint64
	}
	return &SessionCounter{max: limit}
}

// Next returns the next identifier.
func (c *SessionCounter) Next() uint64 {
	for {
		cur := c.n.Load()
		next := cur + 1
		if cur >= c.max {
			next = 1
		}
		if c.n.CompareAndSwap(cur, next) {
			return next
		}
	}
}

// internal/netcheck/cached.go
package netcheck

import "time"

// Cached answers from the last check of src until ttl has passed.
// It is not safe for concurrent use.
type Cached struct {
	src Connectivity
	ttl time.Duration
	now func() time.Time

	checked time.Time
	value   bool
	valid   bool
}

// NewCached wraps src. A ttl <= 0 checks on every call.
func NewCached(src Connectivity, ttl time.Duration) *Cached {
	return &Cached{src: src, ttl: ttl, now: time.Now}
}

func (c *Cached) Connected() bool {
	now := c.now()
	if c.valid && c.ttl > 0 && now.Sub(c.checked) < c.ttl {
		return c.value
	}
	c.value = c.src.Connected()
	c.checked = now
	c.valid = true
	return c.value
}

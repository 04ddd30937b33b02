package ws

import (
	"sync"
	"time"
)

// Registry is the process-wide map from authenticated user ID to its single
// active connection, plus an index of every tracked socket (authenticated or
// not) for the idle sweep. Entries hold no persistent state; a restart drops
// everything and clients re-authenticate.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]*Conn
	byID   map[string]*Conn
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]*Conn),
		byID:   make(map[string]*Conn),
	}
}

// Track records a freshly accepted, not yet authenticated socket.
func (r *Registry) Track(c *Conn) {
	r.mu.Lock()
	r.byID[c.ID] = c
	r.mu.Unlock()
}

// Register binds userID to c, replacing any prior entry. The displaced
// connection (nil if none) is returned so the caller can notify and close it
// outside the lock.
func (r *Registry) Register(userID string, c *Conn) *Conn {
	r.mu.Lock()
	old := r.byUser[userID]
	if old == c {
		r.mu.Unlock()
		return nil
	}
	c.setUserID(userID)
	r.byUser[userID] = c
	r.byID[c.ID] = c
	r.mu.Unlock()
	return old
}

// Unregister removes c from both indexes. Idempotent; must be called exactly
// once per connection close but tolerates more. The user entry is only
// removed when it still points at c, so a stale close after a duplicate-login
// replacement cannot evict the replacement.
func (r *Registry) Unregister(c *Conn) {
	if c == nil {
		return
	}
	r.mu.Lock()
	delete(r.byID, c.ID)
	if uid := c.UserID(); uid != "" {
		if cur, ok := r.byUser[uid]; ok && cur == c {
			delete(r.byUser, uid)
		}
	}
	r.mu.Unlock()
}

// Lookup never blocks on I/O.
func (r *Registry) Lookup(userID string) (*Conn, bool) {
	r.mu.RLock()
	c, ok := r.byUser[userID]
	r.mu.RUnlock()
	return c, ok
}

// IsOpen reports whether the connection's channel is currently writable.
func (r *Registry) IsOpen(c *Conn) bool {
	return c != nil && c.IsOpen()
}

// Authenticated snapshots every registered connection; writes happen outside
// the lock.
func (r *Registry) Authenticated() []*Conn {
	r.mu.RLock()
	out := make([]*Conn, 0, len(r.byUser))
	for _, c := range r.byUser {
		out = append(out, c)
	}
	r.mu.RUnlock()
	return out
}

// Len reports the number of authenticated users, for logging and tests.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}

// sweepIdle collects and removes connections silent for longer than ttl.
// Closing the sockets is left to the caller, outside the lock.
func (r *Registry) sweepIdle(now time.Time, ttl time.Duration) []*Conn {
	var expired []*Conn
	r.mu.Lock()
	for id, c := range r.byID {
		if now.Sub(c.lastSeenAt()) <= ttl {
			continue
		}
		delete(r.byID, id)
		if uid := c.UserID(); uid != "" {
			if cur, ok := r.byUser[uid]; ok && cur == c {
				delete(r.byUser, uid)
			}
		}
		expired = append(expired, c)
	}
	r.mu.Unlock()
	return expired
}

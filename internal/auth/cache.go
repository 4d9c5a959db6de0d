package auth

import (
	"sync"
	"time"
)

type entry struct {
	token string
	ts    time.Time
}

type cachedUser struct {
	user User
	ts   time.Time
}

// sessionCache keeps a fixed-size set of recently looked-up sessions so the
// identity provider is not hit on every authenticated request.
type sessionCache struct {
	mu       sync.Mutex
	users    map[string]cachedUser
	order    []entry
	capacity int
	ttl      time.Duration
}

func newSessionCache(capacity int, ttl time.Duration) *sessionCache {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionCache{
		users:    make(map[string]cachedUser, capacity),
		order:    make([]entry, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
	}
}

func (c *sessionCache) get(token string) (User, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.users[token]; ok {
		if now.Sub(cached.ts) <= c.ttl {
			return cached.user, true
		}
	}
	return User{}, false
}

func (c *sessionCache) put(token string, user User) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.users[token] = cachedUser{user: user, ts: now}
	c.order = append(c.order, entry{token: token, ts: now})
	c.compact(now)
}

func (c *sessionCache) drop(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, token)
}

func (c *sessionCache) compact(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.order) > 0 && (len(c.users) > c.capacity || c.order[0].ts.Before(cutoff)) {
		oldest := c.order[0]
		c.order = c.order[1:]

		if cached, ok := c.users[oldest.token]; ok {
			if cached.ts == oldest.ts {
				delete(c.users, oldest.token)
			}
		}
	}
}

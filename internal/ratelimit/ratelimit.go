// Package ratelimit throttles manual dashboard refreshes per client so a
// busy page cannot hammer the spreadsheet API.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Clients idle this long are forgotten on the next sweep.
const idleAfter = 10 * time.Minute

type client struct {
	limiter *rate.Limiter
	seen    time.Time
}

// Limiter keeps one token bucket per client key.
type Limiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

// New allows perMinute refreshes per client with bursts of up to burst.
// A burst below one is raised to one.
func New(perMinute int, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		now:     time.Now,
		clients: map[string]*client{},
	}
}

// Take spends one token for key. When none is left it returns false and how
// long until the next token is available, rounded to the millisecond.
func (l *Limiter) Take(key string) (bool, time.Duration) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)
	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.seen = now

	r := c.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, idleAfter
	}
	wait := r.DelayFrom(now)
	if wait <= 0 {
		return true, 0
	}
	r.CancelAt(now)
	return false, wait.Round(time.Millisecond)
}

func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleAfter {
		return
	}
	l.lastSweep = now
	for key, c := range l.clients {
		if now.Sub(c.seen) >= idleAfter {
			delete(l.clients, key)
		}
	}
}

func (l *Limiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const sweepEvery = 1024

// MemoryLimiter is a token bucket per key. Buckets refill continuously, so
// a burst of Requests is followed by one request every Window/Requests.
type MemoryLimiter struct {
	policy Policy
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	calls   uint64
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter(policy Policy) *MemoryLimiter {
	return &MemoryLimiter{
		policy:  policy,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (m *MemoryLimiter) Policy() Policy {
	return m.policy
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := m.now()
	k := keyFor(m.policy, key)

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[k]
	if !ok {
		every := rate.Every(m.policy.Window / time.Duration(m.policy.Requests))
		b = &bucket{limiter: rate.NewLimiter(every, m.policy.Requests)}
		m.buckets[k] = b
	}
	b.lastSeen = now

	m.calls++
	if m.calls%sweepEvery == 0 {
		m.sweep(now)
	}

	decision := Decision{Limit: m.policy.Requests}

	if b.limiter.AllowN(now, 1) {
		decision.Allowed = true
		decision.Remaining = int(b.limiter.TokensAt(now))
		return decision, nil
	}

	reservation := b.limiter.ReserveN(now, 1)
	decision.RetryAfter = reservation.DelayFrom(now)
	reservation.CancelAt(now)

	return decision, nil
}

// sweep drops buckets idle for two windows; by then they are full again.
func (m *MemoryLimiter) sweep(now time.Time) {
	cutoff := now.Add(-2 * m.policy.Window)
	for k, b := range m.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(m.buckets, k)
		}
	}
}

// Package ratelimit counts requests per client against named policies.
//
// Each policy owns its own key namespace, so a client that exhausts the
// admin login budget still has its full budget on the RSVP endpoints.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// Policy allows Requests per Window for each key.
type Policy struct {
	Name     string
	Requests int
	Window   time.Duration
}

func (p Policy) Validate() error {
	if p.Name == "" {
		return errors.New("ratelimit: policy name is required")
	}
	if p.Requests <= 0 || p.Window <= 0 {
		return errors.New("ratelimit: policy " + p.Name + " needs a positive request count and window")
	}
	return nil
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// RetryAfter is zero when Allowed.
	RetryAfter time.Duration
}

type Limiter interface {
	Policy() Policy
	Allow(ctx context.Context, key string) (Decision, error)
}

// New returns a Redis-backed limiter when client is non-nil and an in-process
// one otherwise.
func New(policy Policy, client *redis.Client) Limiter {
	if client != nil {
		return NewRedisLimiter(client, policy)
	}
	return NewMemoryLimiter(policy)
}

func keyFor(policy Policy, key string) string {
	if key == "" {
		key = "unknown"
	}
	return "rl:" + policy.Name + ":" + key
}

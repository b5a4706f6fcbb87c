package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLimiter is a fixed-window counter shared by every server instance.
// The window starts with the first request for a key.
type RedisLimiter struct {
	client *redis.Client
	policy Policy
}

func NewRedisLimiter(client *redis.Client, policy Policy) *RedisLimiter {
	return &RedisLimiter{client: client, policy: policy}
}

func (r *RedisLimiter) Policy() Policy {
	return r.policy
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := keyFor(r.policy, key)

	var (
		count *redis.IntCmd
		ttl   *redis.DurationCmd
	)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: redis %s: %w", r.policy.Name, err)
	}

	remainingTTL := ttl.Val()
	// A key without expiry was just created, or lost its PEXPIRE to a crash.
	if remainingTTL < 0 {
		if err := r.client.PExpire(ctx, k, r.policy.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("ratelimit: redis %s expire: %w", r.policy.Name, err)
		}
		remainingTTL = r.policy.Window
	}

	used := int(count.Val())
	decision := Decision{
		Limit:     r.policy.Requests,
		Allowed:   used <= r.policy.Requests,
		Remaining: r.policy.Requests - used,
	}
	if decision.Remaining < 0 {
		decision.Remaining = 0
	}
	if !decision.Allowed {
		decision.RetryAfter = roundUp(remainingTTL)
	}

	return decision, nil
}

func roundUp(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Second
	}
	return (d + time.Second - 1).Truncate(time.Second)
}

package config

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/purim-rsvp/internal/log"
	pkgredis "github.com/akeren/purim-rsvp/pkg/redis"
	"github.com/akeren/purim-rsvp/pkg/retry"
	"github.com/akeren/purim-rsvp/pkg/utils"
)

var ErrCacheNotConfigured = errors.New("cache host is not configured")

type Cache interface {
	// Get returns ("", nil) when a key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Set uses ttl=0 for no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

type CacheConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Prefix   string
}

func NewCacheConfig() *CacheConfig {
	return &CacheConfig{
		Host:     utils.GetEnvTrimmed("REDIS_HOST"),
		Port:     utils.GetEnvTrimmedOrDefault("REDIS_PORT", "6379"),
		Password: sanitizeEnv(GetValueFromEnvironmentVariable("REDIS_PASSWORD", "")),
		DB:       utils.GetEnvInt("REDIS_DB", 0),
		Prefix:   utils.GetEnvTrimmedOrDefault("REDIS_KEY_PREFIX", "purim-rsvp"),
	}
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.Host != ""
}

// NewCache connects to Redis, retrying while the server is still starting.
func (cc *CacheConfig) NewCache(ctx context.Context, logger *log.Logger) (Cache, error) {
	if !cc.IsConfigured() {
		return nil, ErrCacheNotConfigured
	}

	client, err := pkgredis.NewClient(&pkgredis.Config{
		Host:     cc.Host,
		Port:     cc.Port,
		Password: cc.Password,
		DB:       cc.DB,
	})
	if err != nil {
		return nil, err
	}

	policy := retry.Startup()
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warn("Redis not ready, retrying", "attempt", attempt, "delay", delay.String(), "error", err)
	}

	if err := retry.Do(ctx, policy, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("Cache (Redis) connected successfully", "host", cc.Host, "db", cc.DB)
	return pkgredis.NewRedisCache(client, cc.Prefix), nil
}

// NewCacheOrNil runs without Redis when it is unset or unreachable; stats are
// then computed on every request and rate limits stay per-process.
func (cc *CacheConfig) NewCacheOrNil(ctx context.Context, logger *log.Logger) Cache {
	if !cc.IsConfigured() {
		logger.Info("Cache (Redis) is not configured; proceeding without external cache")
		return nil
	}

	cache, err := cc.NewCache(ctx, logger)
	if err != nil {
		logger.Error("Failed to connect to Cache (Redis); proceeding without it", "error", err)
		return nil
	}

	return cache
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}

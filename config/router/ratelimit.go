package router

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/akeren/purim-rsvp/pkg/ratelimit"
	"github.com/gin-gonic/gin"
)

type route struct {
	controller *RESTController
	limiter    ratelimit.Limiter
}

func routeKey(method, path string) string {
	return method + " " + path
}

// Limiter returns the shared limiter for policy, creating it on first use.
// Redis backs it when the router has a reachable Redis client. Reusing a
// policy name with different numbers is a programming error.
func (routerService *RouterService) Limiter(policy ratelimit.Policy) ratelimit.Limiter {
	if err := policy.Validate(); err != nil {
		panic(err.Error())
	}

	if existing, ok := routerService.limiters[policy.Name]; ok {
		if existing.Policy() != policy {
			panic(fmt.Sprintf("rate limit policy %q is already registered with different limits", policy.Name))
		}
		return existing
	}

	limiter := ratelimit.New(policy, routerService.redisClient)
	routerService.limiters[policy.Name] = limiter

	routerService.logger.Info("Rate limit policy registered",
		"policy", policy.Name,
		"requests", policy.Requests,
		"window", policy.Window.String(),
	)
	return limiter
}

func (routerService *RouterService) limiterFor(c *gin.Context) ratelimit.Limiter {
	if r, ok := routerService.routes[routeKey(c.Request.Method, c.FullPath())]; ok && r.limiter != nil {
		return r.limiter
	}
	return routerService.defaultLimiter
}

func (routerService *RouterService) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		limiter := routerService.limiterFor(c)
		policy := limiter.Policy()
		clientIP := c.ClientIP()

		decision, err := limiter.Allow(c.Request.Context(), clientIP)
		if err != nil {
			// A broken limiter backend must not take the event site down with it.
			routerService.logger.Error("Rate limiter error", "policy", policy.Name, "client_ip", clientIP, "error", err)
			setRateLimitHeaders(c, policy, policy.Requests)
			c.Next()
			return
		}

		setRateLimitHeaders(c, policy, decision.Remaining)

		if !decision.Allowed {
			retryAfter := retryAfterSeconds(decision.RetryAfter)
			routerService.metrics.rateLimited(policy.Name)
			routerService.logger.Warn("Rate limit exceeded", "policy", policy.Name, "client_ip", clientIP, "retry_after", retryAfter)

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, TooManyRequestsResult(RateLimitResponse{
				Policy:            policy.Name,
				Limit:             policy.Requests,
				Window:            policy.Window.String(),
				RetryAfterSeconds: retryAfter,
			}).ToJSON())
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, policy ratelimit.Policy, remaining int) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(policy.Requests))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Window", policy.Window.String())
}

func retryAfterSeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}

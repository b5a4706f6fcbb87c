package config

import (
	"github.com/akeren/purim-rsvp/config/router"
	"github.com/akeren/purim-rsvp/pkg/ratelimit"
	"github.com/akeren/purim-rsvp/pkg/utils"
)

// NewRouterConfig reads the HTTP layer settings. HSTS defaults on in
// production and can be forced either way with HSTS_ENABLED.
func NewRouterConfig(app *AppConfig, tracing *TracingConfig) *router.RouterConfig {
	appEnv := GetAppEnv()

	cfg := &router.RouterConfig{
		Port:           utils.GetEnvTrimmedOrDefault("APP_PORT", router.DefaultPort),
		GinMode:        utils.GetEnvTrimmed("GIN_MODE"),
		RequestTimeout: app.RequestTimeout,
		DefaultPolicy: ratelimit.Policy{
			Name:     "default",
			Requests: app.RateLimitRequests,
			Window:   app.RateLimitWindow,
		},
		TrustedProxies: parseTrustedProxies(utils.GetEnvTrimmed("TRUSTED_PROXIES")),
		AllowedOrigins: utils.GetEnvList("CORS_ALLOWED_ORIGIN"),
		MaxBodyBytes:   utils.GetEnvInt64("MAX_REQUEST_BODY_BYTES", router.DefaultMaxBodyBytes),
		HSTS: router.HSTSConfig{
			Enabled:           utils.GetEnvBool("HSTS_ENABLED", appEnv == "production" || appEnv == "prod"),
			MaxAge:            utils.GetEnvInt64("HSTS_MAX_AGE", 31536000),
			IncludeSubdomains: utils.GetEnvBool("HSTS_INCLUDE_SUBDOMAINS", true),
		},
		MetricsEnabled: utils.GetEnvBool("METRICS_ENABLED", true),
	}

	if tracing != nil && tracing.Enabled {
		cfg.TracingServiceName = tracing.ServiceName
	}

	return cfg
}

// parseTrustedProxies maps "" to nil (use the socket address) and "*" to
// every address, for local setups behind a dev proxy.
func parseTrustedProxies(raw string) []string {
	if raw == "*" {
		return []string{"0.0.0.0/0", "::/0"}
	}

	return utils.SplitList(raw)
}

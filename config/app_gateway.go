package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/internal/otpgateway"
	"github.com/akeren/purim-rsvp/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	GatewayProviderInforu = "inforu"
	GatewayProviderStatic = "static"
)

var ErrStaticGatewayNotAllowed = errors.New("the static OTP gateway is only allowed in development environments")

type GatewayConfig struct {
	Provider   string
	BaseURL    string
	Username   string
	Token      string
	StaticCode string
	Timeout    time.Duration

	// Consecutive transport failures before SMS calls are short-circuited.
	BreakerThreshold int
	BreakerOpenFor   time.Duration
}

func NewGatewayConfig() *GatewayConfig {
	return &GatewayConfig{
		Provider:         strings.ToLower(sanitizeEnv(GetValueFromEnvironmentVariable("OTP_GATEWAY", GatewayProviderInforu))),
		BaseURL:          sanitizeEnv(GetValueFromEnvironmentVariable("INFORU_BASE_URL", otpgateway.DefaultInforuBaseURL)),
		Username:         sanitizeEnv(GetValueFromEnvironmentVariable("INFORU_USERNAME", "")),
		Token:            sanitizeEnv(GetValueFromEnvironmentVariable("INFORU_TOKEN", "")),
		StaticCode:       sanitizeEnv(GetValueFromEnvironmentVariable("OTP_STATIC_CODE", "123456")),
		Timeout:          utils.GetEnvDuration("INFORU_TIMEOUT", 10*time.Second),
		BreakerThreshold: utils.GetEnvInt("OTP_BREAKER_THRESHOLD", 5),
		BreakerOpenFor:   utils.GetEnvDuration("OTP_BREAKER_OPEN_FOR", 30*time.Second),
	}
}

// NewGateway builds the configured OTP gateway. Metrics are registered on reg
// when it is non-nil.
func (gc *GatewayConfig) NewGateway(logger *log.Logger, reg prometheus.Registerer) (otpgateway.Gateway, error) {
	switch gc.Provider {
	case GatewayProviderStatic:
		if !IsDevelopmentEnv(GetAppEnv()) {
			logger.Error("Static OTP gateway requested outside development", "app_env", GetAppEnv())
			return nil, ErrStaticGatewayNotAllowed
		}
		logger.Warn("Using static OTP gateway; no SMS will be sent")
		return otpgateway.NewStaticGateway(gc.StaticCode, logger), nil

	case GatewayProviderInforu, "":
		missing := []string{}
		if gc.Username == "" {
			missing = append(missing, "INFORU_USERNAME")
		}
		if gc.Token == "" {
			missing = append(missing, "INFORU_TOKEN")
		}
		if len(missing) > 0 {
			logger.Error("Missing OTP gateway credentials", "missing_vars", strings.Join(missing, ", "))
			return nil, fmt.Errorf("missing OTP gateway env vars: %s", strings.Join(missing, ", "))
		}

		logger.Info("Using InforU OTP gateway", "base_url", gc.BaseURL, "breaker_threshold", gc.BreakerThreshold)

		return otpgateway.NewInforuGateway(otpgateway.InforuConfig{
			BaseURL:          gc.BaseURL,
			Username:         gc.Username,
			Token:            gc.Token,
			Timeout:          gc.Timeout,
			BreakerThreshold: gc.BreakerThreshold,
			BreakerOpenFor:   gc.BreakerOpenFor,
			Metrics:          otpgateway.NewMetrics(reg),
		}, logger), nil

	default:
		return nil, fmt.Errorf("unknown OTP_GATEWAY %q (allowed: %s, %s)", gc.Provider, GatewayProviderInforu, GatewayProviderStatic)
	}
}

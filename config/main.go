package config

import (
	"context"
	"time"

	"github.com/akeren/purim-rsvp/config/router"
	"github.com/akeren/purim-rsvp/domain/admin"
	"github.com/akeren/purim-rsvp/domain/rsvp"
	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/internal/models"
	"github.com/akeren/purim-rsvp/internal/otpgateway"
	"github.com/akeren/purim-rsvp/pkg/utils"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	Gateway         otpgateway.Gateway
	Event           *EventConfig
	Admin           admin.AuthConfig
	Access          *rsvp.AccessTokens
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		RateLimitRequests: utils.GetEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   utils.GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		RequestTimeout:    utils.GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
	}
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	tracingCfg := NewTracingConfig()
	tracingShutdown, err := SetupTracing(logger, tracingCfg)
	if err != nil {
		return nil, err
	}

	eventCfg, err := NewEventConfig()
	if err != nil {
		logger.Error("Invalid event configuration", "error", err)
		return nil, err
	}

	db, err := NewDatabase(logger, nil)
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			return nil, err
		}
	}

	appConfig := NewAppConfig()
	cache := NewCacheConfig().NewCacheOrNil(context.Background(), logger)

	routerService := router.CreateRouterService(logger, cache, NewRouterConfig(appConfig, tracingCfg))

	gateway, err := NewGatewayConfig().NewGateway(logger, routerService.MetricsRegisterer())
	if err != nil {
		return nil, err
	}

	access, err := NewAccessTokens(logger, NewAccessConfig(), GetAppEnv())
	if err != nil {
		return nil, err
	}

	adminCfg := NewAdminAuthConfig()
	if !adminCfg.Enabled() {
		logger.Warn("Admin credentials are not configured; admin endpoints are disabled")
	}

	logger.Info("Application configuration loaded successfully",
		"registration_closes_at", eventCfg.ClosesAt,
		"bypass_enabled", eventCfg.BypassEnabled,
	)

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Config:          appConfig,
		Gateway:         gateway,
		Event:           eventCfg,
		Admin:           adminCfg,
		Access:          access,
		TracingShutdown: tracingShutdown,
	}, nil
}

package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/pkg/ratelimit"
	"github.com/akeren/purim-rsvp/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	DefaultTimeoutDuration = 30 * time.Second
	DefaultMaxBodyBytes    = int64(1 << 20)
	DefaultPort            = "8080"
)

type Cache interface {
	Ping(ctx context.Context) error
}

type RedisClientProvider interface {
	GetClient() *redis.Client
}

// RouterConfig is filled from the environment by the config package.
type RouterConfig struct {
	Port           string
	GinMode        string
	RequestTimeout time.Duration
	DefaultPolicy  ratelimit.Policy

	// TrustedProxies nil means ClientIP() is the socket address.
	TrustedProxies []string
	// AllowedOrigins may hold "*". Empty denies cross-origin requests.
	AllowedOrigins []string
	MaxBodyBytes   int64
	HSTS           HSTSConfig

	MetricsEnabled bool
	// TracingServiceName enables otelgin spans when set.
	TracingServiceName string
}

type HSTSConfig struct {
	Enabled           bool
	MaxAge            int64
	IncludeSubdomains bool
}

type RouterService struct {
	engine          *gin.Engine
	server          *http.Server
	logger          *log.Logger
	config          RouterConfig
	redisClient     *redis.Client
	metricsRegistry *prometheus.Registry
	metrics         *metrics

	defaultLimiter ratelimit.Limiter
	limiters       map[string]ratelimit.Limiter
	routes         map[string]*route
}

func CreateRouterService(logger *log.Logger, cache Cache, routerConfig *RouterConfig) *RouterService {
	cfg := withDefaults(routerConfig)

	if cfg.GinMode != "" {
		logger.Info("Setting Gin mode", "mode", cfg.GinMode)
		gin.SetMode(cfg.GinMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.RegisterCustomValidators(v); err != nil {
			logger.Error("Failed to register custom validators", "error", err)
		}
	}

	if cfg.TracingServiceName != "" {
		ginRouter.Use(otelgin.Middleware(cfg.TracingServiceName))
		logger.Info("Tracing middleware enabled", "service", cfg.TracingServiceName)
	}

	// Gin trusts every proxy unless told otherwise.
	if err := ginRouter.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error("Invalid TRUSTED_PROXIES; disabling trusted proxies", "error", err)
		_ = ginRouter.SetTrustedProxies(nil)
	} else if cfg.TrustedProxies == nil {
		logger.Info("Trusted proxies disabled (TRUSTED_PROXIES not set)")
	}

	rs := &RouterService{
		engine:   ginRouter,
		logger:   logger,
		config:   cfg,
		limiters: make(map[string]ratelimit.Limiter),
		routes:   make(map[string]*route),
	}
	rs.redisClient = rs.limiterRedis(cache)
	rs.defaultLimiter = rs.Limiter(cfg.DefaultPolicy)

	rs.mountMetrics()

	ginRouter.Use(rs.securityHeadersMiddleware())
	ginRouter.Use(rs.maxBodySizeMiddleware())
	ginRouter.Use(rs.corsMiddleware())
	ginRouter.Use(rs.rateLimitMiddleware())
	ginRouter.Use(rs.timeoutMiddleware())

	ginRouter.Use(rs.correlationIDMiddleware())
	ginRouter.Use(rs.loggerInjectionMiddleware())
	ginRouter.Use(rs.requestLoggingMiddleware())

	ginRouter.HandleMethodNotAllowed = true
	ginRouter.RedirectTrailingSlash = true

	ginRouter.NoRoute(func(c *gin.Context) {
		logger.WithCorrelationID(c.Request.Context()).Warn("Route not found", "path", c.Request.URL.Path)
		c.JSON(http.StatusNotFound, ErrorResult(http.StatusNotFound, "Route not found", nil).ToJSON())
	})

	ginRouter.NoMethod(func(c *gin.Context) {
		logger.WithCorrelationID(c.Request.Context()).Warn("Method not allowed", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.JSON(http.StatusMethodNotAllowed, ErrorResult(http.StatusMethodNotAllowed, "Method not allowed", nil).ToJSON())
	})

	// Handlers run on the serving goroutine, so the deadline is enforced here
	// rather than by the timeout middleware.
	rs.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           ginRouter,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Router service initialized", "port", cfg.Port)
	return rs
}

func withDefaults(in *RouterConfig) RouterConfig {
	var cfg RouterConfig
	if in != nil {
		cfg = *in
	}

	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultTimeoutDuration
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.DefaultPolicy.Validate() != nil {
		cfg.DefaultPolicy = ratelimit.Policy{Name: "default", Requests: 100, Window: time.Minute}
	}
	if cfg.HSTS.MaxAge <= 0 {
		cfg.HSTS.MaxAge = 31536000
	}

	return cfg
}

// limiterRedis returns the cache's client when it answers a ping.
func (routerService *RouterService) limiterRedis(cache Cache) *redis.Client {
	if cache == nil {
		routerService.logger.Info("Rate limiting uses in-memory buckets")
		return nil
	}

	provider, ok := cache.(RedisClientProvider)
	if !ok {
		return nil
	}

	client := provider.GetClient()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		routerService.logger.Warn("Redis unreachable for rate limiting, falling back to in-memory", "error", err)
		return nil
	}

	routerService.logger.Info("Rate limiting uses Redis")
	return client
}

func (routerService *RouterService) GetEngine() *gin.Engine {
	return routerService.engine
}

func (routerService *RouterService) GetLogger(c *RequestContext) *log.Logger {
	return routerService.logger.WithCorrelationID(c.Request.Context())
}

func (routerService *RouterService) Cleanup() {
	routerService.logger.Info("Router service cleanup completed", "rate_limit_policies", len(routerService.limiters))
}

func (routerService *RouterService) MountController(controller *RESTController) {
	routerService.logger.Info("Mounting controller",
		"name", controller.name,
		"path", controller.mountPoint,
		"version", controller.version,
	)

	controller.prepare(routerService, controller)

	routerService.logger.Info("Controller mounted",
		"name", controller.name,
		"handlers", controller.handlerCount,
	)
}

func (routerService *RouterService) RunHTTPServer() error {
	routerService.logger.Info("Starting HTTP server", "addr", routerService.server.Addr)

	if err := routerService.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		routerService.logger.Error("Failed to start HTTP server", "error", err)
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

func (routerService *RouterService) Shutdown(ctx context.Context) error {
	routerService.logger.Info("Shutting down HTTP server gracefully...")
	return routerService.server.Shutdown(ctx)
}

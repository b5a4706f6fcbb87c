package monitoring

import (
	"context"
	"time"

	"github.com/akeren/purim-rsvp/config/router"
	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/pkg/ratelimit"
	"gorm.io/gorm"
)

var monitoringPolicy = ratelimit.Policy{Name: "monitoring", Requests: 10, Window: time.Minute}

type Cache interface {
	Ping(ctx context.Context) error
}

// GatewayHealth is implemented by OTP gateways that can report on their provider.
type GatewayHealth interface {
	Healthy() bool
}

type HealthStatus struct {
	Database   int `json:"database"`    // 1 = healthy, 0 = unhealthy
	Cache      int `json:"cache"`       // 1 = healthy, 0 = unhealthy/not configured
	OTPGateway int `json:"otp_gateway"` // 1 = healthy, 0 = circuit open/not configured
	Uptime     int `json:"uptime"`      // uptime in seconds
}

type MonitoringController struct {
	db        *gorm.DB
	logger    *log.Logger
	cache     Cache
	gateway   GatewayHealth
	startTime time.Time
}

func NewMonitoringController(db *gorm.DB, logger *log.Logger, cache Cache, gateway GatewayHealth) *router.RESTController {
	ctrl := &MonitoringController{
		db:        db,
		logger:    logger,
		cache:     cache,
		gateway:   gateway,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			monitoringRateLimiter := routerService.Limiter(monitoringPolicy)

			routerService.AddGetHandler(controller, monitoringRateLimiter, "", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.monitor(c)
			})

			routerService.AddGetHandler(controller, monitoringRateLimiter, "health", func(c *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(routerService, c)
			})
		},
	)
}

func (ctrl *MonitoringController) healthCheck(
	routerService *router.RouterService,
	c *router.RequestContext,
) *router.ServiceResult {
	logger := routerService.GetLogger(c)
	logger.Debug("Health check endpoint called")
	healthStatus := ctrl.performHealthChecks(c.Request.Context(), logger)

	return &router.ServiceResult{
		StatusCode: 200,
		Data:       healthStatus,
		Message:    "purim-rsvp health check completed",
	}
}

func (ctrl *MonitoringController) monitor(
	c *router.RequestContext,
) *router.ServiceResult {
	return &router.ServiceResult{
		StatusCode: 200,
		Data:       "Monitoring endpoint is operational.",
		Message:    "Monitoring successful",
	}
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	checkDatabaseConnectivity(ctx, ctrl, &status, logger)
	checkCacheConnectivity(ctx, ctrl, &status, logger)
	checkGateway(ctrl, &status, logger)

	return status
}

func checkCacheConnectivity(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.cache == nil {
		logger.Debug("Cache not configured, cache health check skipped")
		return
	}

	if ctrl.cache.Ping(ctx) == nil {
		status.Cache = 1
		return
	}
	logger.Error("Cache health check failed")
}

func checkDatabaseConnectivity(ctx context.Context, ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.checkDatabase(ctx) {
		status.Database = 1
		return
	}
	logger.Error("Database health check failed")
}

func checkGateway(ctrl *MonitoringController, status *HealthStatus, logger *log.Logger) {
	if ctrl.gateway == nil {
		logger.Warn("OTP gateway not configured")
		return
	}

	if ctrl.gateway.Healthy() {
		status.OTPGateway = 1
		return
	}
	logger.Warn("OTP gateway circuit is open")
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) bool {
	if ctrl.db == nil {
		return false
	}

	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return false
	}

	return sqlDB.PingContext(ctx) == nil
}

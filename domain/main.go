package domain

import (
	"github.com/akeren/purim-rsvp/config"
	"github.com/akeren/purim-rsvp/domain/admin"
	"github.com/akeren/purim-rsvp/domain/monitoring"
	"github.com/akeren/purim-rsvp/domain/rsvp"
	"github.com/akeren/purim-rsvp/domain/verification"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	var cache monitoring.Cache
	if appConfig.Cache != nil {
		cache = appConfig.Cache
	}
	var gatewayHealth monitoring.GatewayHealth
	if health, ok := appConfig.Gateway.(monitoring.GatewayHealth); ok {
		gatewayHealth = health
	}
	appConfig.RouterService.MountController(monitoring.NewMonitoringController(appConfig.DB, appConfig.Logger, cache, gatewayHealth))

	appConfig.RouterService.MountController(rsvp.NewBranchController())

	settings := rsvp.Settings{}
	if appConfig.Event != nil {
		settings = appConfig.Event.RSVPSettings()
	}
	appConfig.RouterService.MountController(rsvp.NewRSVPController(appConfig.DB, appConfig.Logger, settings, appConfig.Access))
	appConfig.RouterService.MountController(verification.NewVerificationController(appConfig.DB, appConfig.Logger, appConfig.Gateway, appConfig.Access))

	if appConfig.Admin.Enabled() {
		var adminCache admin.Cache
		if appConfig.Cache != nil {
			adminCache = appConfig.Cache
		}
		appConfig.RouterService.MountController(admin.NewAdminController(appConfig.DB, appConfig.Logger, adminCache, appConfig.Admin))
	}
}

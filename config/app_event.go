package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/akeren/purim-rsvp/domain/admin"
	"github.com/akeren/purim-rsvp/domain/rsvp"
	"github.com/akeren/purim-rsvp/pkg/utils"
)

// EventConfig holds the registration window and verification switches.
type EventConfig struct {
	ClosesAt      *time.Time
	BypassEnabled bool
}

func NewEventConfig() (*EventConfig, error) {
	cfg := &EventConfig{BypassEnabled: true}

	if raw := sanitizeEnv(GetValueFromEnvironmentVariable("RSVP_CLOSES_AT", "")); raw != "" {
		closesAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid RSVP_CLOSES_AT %q: %w", raw, err)
		}
		closesAt = closesAt.UTC()
		cfg.ClosesAt = &closesAt
	}

	if raw := sanitizeEnv(GetValueFromEnvironmentVariable("BYPASS_VERIFICATION_ENABLED", "")); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BYPASS_VERIFICATION_ENABLED %q: %w", raw, err)
		}
		cfg.BypassEnabled = enabled
	}

	return cfg, nil
}

func (ec *EventConfig) RSVPSettings() rsvp.Settings {
	return rsvp.Settings{
		ClosesAt:      ec.ClosesAt,
		BypassEnabled: ec.BypassEnabled,
	}
}

func NewAdminAuthConfig() admin.AuthConfig {
	return admin.AuthConfig{
		Email:        sanitizeEnv(GetValueFromEnvironmentVariable("ADMIN_EMAIL", "")),
		PasswordHash: sanitizeEnv(GetValueFromEnvironmentVariable("ADMIN_PASSWORD_HASH", "")),
		Secret:       sanitizeEnv(GetValueFromEnvironmentVariable("ADMIN_JWT_SECRET", "")),
		// Zero keeps the admin package default.
		TokenTTL: utils.GetEnvDuration("ADMIN_TOKEN_TTL", 0),
	}
}

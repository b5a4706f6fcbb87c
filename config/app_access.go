package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/akeren/purim-rsvp/domain/rsvp"
	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/pkg/utils"
)

func NewAccessConfig() rsvp.AccessConfig {
	return rsvp.AccessConfig{
		Secret:     sanitizeEnv(GetValueFromEnvironmentVariable("RSVP_ACCESS_SECRET", "")),
		TTL:        utils.GetEnvDuration("RSVP_ACCESS_TTL", 0),
		PendingTTL: utils.GetEnvDuration("RSVP_PENDING_ACCESS_TTL", 0),
	}
}

// NewAccessTokens builds the record token signer. Outside development a
// missing secret is fatal; in development a random one is generated, so
// tokens do not survive a restart.
func NewAccessTokens(logger *log.Logger, cfg rsvp.AccessConfig, appEnv string) (*rsvp.AccessTokens, error) {
	if cfg.Secret == "" {
		if !IsDevelopmentEnv(appEnv) {
			return nil, fmt.Errorf("RSVP_ACCESS_SECRET is required when APP_ENV=%s", appEnv)
		}

		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate record access secret: %w", err)
		}
		cfg.Secret = hex.EncodeToString(secret)
		logger.Warn("RSVP_ACCESS_SECRET not set; using a random secret for this process")
	}

	return rsvp.NewAccessTokens(cfg)
}

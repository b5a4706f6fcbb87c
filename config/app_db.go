package config

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/pkg/retry"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	defaultSQLitePath = "purim-rsvp.db"
)

type DBConfig struct {
	Driver          string // postgres (default) or sqlite
	SQLitePath      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string // Default: "require" for prod safety
}

func NewDatabase(logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &DBConfig{
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Minute,
			SSLMode:         "require",
		}
	}

	dialector, err := dialectorFromEnv(logger, cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Failed to get database instance", "error", err)
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	policy := retry.Startup()
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warn("Database not ready, retrying", "attempt", attempt, "delay", delay.String(), "error", err)
	}

	if err := retry.Do(context.Background(), policy, sqlDB.PingContext); err != nil {
		logger.Error("Database ping failed", "error", err)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully")
	return gdb, nil
}

// ResolveDBDriver returns cfg.Driver, falling back to DB_DRIVER and then postgres.
func ResolveDBDriver(cfg *DBConfig) string {
	if cfg != nil && cfg.Driver != "" {
		return strings.ToLower(cfg.Driver)
	}
	if driver := strings.ToLower(sanitizeEnv(GetValueFromEnvironmentVariable("DB_DRIVER", ""))); driver != "" {
		return driver
	}
	return DBDriverPostgres
}

func dialectorFromEnv(logger *log.Logger, cfg *DBConfig) (gorm.Dialector, error) {
	driver := ResolveDBDriver(cfg)

	switch driver {
	case DBDriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = sanitizeEnv(GetValueFromEnvironmentVariable("SQLITE_PATH", defaultSQLitePath))
		}
		logger.Info("Using SQLite database", "path", path)
		return sqlite.Open(path), nil

	case DBDriverPostgres:
		dsn, err := postgresDSN(logger, cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q (allowed: %s, %s)", driver, DBDriverPostgres, DBDriverSQLite)
	}
}

// postgresDSN prefers APP_DATABASE_URL and otherwise assembles a DSN from
// the POSTGRES_* variables.
func postgresDSN(logger *log.Logger, cfg *DBConfig) (string, error) {
	if url := sanitizeEnv(GetValueFromEnvironmentVariable("APP_DATABASE_URL", "")); url != "" {
		logger.Info("Using APP_DATABASE_URL for database connection")
		return url, nil
	}

	host, portStr, user, pass, dbName, ssl := getDatabaseEnvParams()
	if ssl == "" {
		ssl = cfg.SSLMode
	}

	var missing []string
	for name, value := range map[string]string{
		"POSTGRES_HOST":    host,
		"POSTGRES_PORT":    portStr,
		"POSTGRES_USER":    user,
		"POSTGRES_DB_NAME": dbName,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		logger.Error("Missing required database environment variables", "missing_vars", strings.Join(missing, ", "))
		return "", fmt.Errorf("missing required database env vars: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		logger.Error("Invalid POSTGRES_PORT", "error", err)
		return "", fmt.Errorf("invalid POSTGRES_PORT %q: %w", portStr, err)
	}

	logger.Info("Connecting to database",
		"host", host,
		"port", port,
		"user", user,
		"dbname", dbName,
		"sslmode", ssl,
	)

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, dbName, ssl,
	), nil
}

func getDatabaseEnvParams() (host, port, user, pass, dbName, ssl string) {
	host = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_HOST", ""))
	port = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_PORT", ""))
	user = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_USER", ""))
	pass = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_PASSWORD", ""))
	dbName = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_DB_NAME", ""))
	ssl = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_SSLMODE", ""))

	return host, port, user, pass, dbName, ssl
}

func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)

	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	return s
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		logger.Error("Cannot migrate: db is empty")
		return fmt.Errorf("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database migration completed successfully")

	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	} else {
		logger.Info("Database closed successfully")
	}
}

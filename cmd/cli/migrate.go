package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/akeren/purim-rsvp/config"
	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/pkg/migrations"
	"github.com/akeren/purim-rsvp/pkg/utils"
)

const migrateTimeout = 5 * time.Minute

// migrationsConfig maps the configured DB driver onto a migrate dialect and
// its directory under migrations/.
func migrationsConfig(logger *log.Logger) migrations.Config {
	dialect := migrations.DialectPostgres
	if config.ResolveDBDriver(nil) == config.DBDriverSQLite {
		dialect = migrations.DialectSQLite
	}

	return migrations.Config{
		Dir:     utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", filepath.Join("migrations", dialect)),
		Dialect: dialect,
		Logger:  logger,
	}
}

func openSQLDB(logger *log.Logger) (*sql.DB, error) {
	db, err := config.NewDatabase(logger, &config.DBConfig{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB, nil
}

func runMigrate(logger *log.Logger) error {
	sqlDB, err := openSQLDB(logger)
	if err != nil {
		return err
	}
	// The sqlite3 driver closes the handle itself; a second Close is harmless.
	defer func() { _ = sqlDB.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	if err := migrations.Up(ctx, sqlDB, migrationsConfig(logger)); err != nil {
		return err
	}

	logger.Info("Database migrations completed")
	return nil
}

func runMigrateStatus(logger *log.Logger, w io.Writer) error {
	sqlDB, err := openSQLDB(logger)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	cfg := migrationsConfig(logger)
	state, err := migrations.Status(ctx, sqlDB, cfg)
	if err != nil {
		return err
	}

	return printMigrationState(w, cfg, state)
}

func printMigrationState(w io.Writer, cfg migrations.Config, state migrations.State) error {
	if !state.Applied {
		_, err := fmt.Fprintf(w, "%s (%s): no migrations applied\n", cfg.Dir, cfg.Dialect)
		return err
	}

	_, err := fmt.Fprintf(w, "%s (%s): version %d, dirty %t\n", cfg.Dir, cfg.Dialect, state.Version, state.Dirty)
	return err
}

package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Dialects understood by the migration runner.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

type migrator interface {
	Up() error
	Version() (version uint, dirty bool, err error)
	Close() (sourceErr error, databaseErr error)
}

var driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
	if cfg.Dialect == DialectSQLite {
		return sqlite3.WithInstance(db, &sqlite3.Config{MigrationsTable: cfg.MigrationsTable})
	}
	return postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.MigrationsTable})
}

var migratorFactory = func(sourceURL, dialect string, driver database.Driver) (migrator, error) {
	return migrate.NewWithDatabaseInstance(sourceURL, dialect, driver)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Config struct {
	Dir             string
	MigrationsTable string
	// Dialect is DialectPostgres (default) or DialectSQLite.
	Dialect string
	Logger  Logger
}

// State is the schema version recorded in the migrations table.
type State struct {
	Version uint
	Dirty   bool
	// Applied is false when no migration has run yet.
	Applied bool
}

func Up(ctx context.Context, db *sql.DB, cfg Config) error {
	m, cfg, absDir, err := open(ctx, db, cfg)
	if err != nil {
		return err
	}
	closeMigrator := closer(m, cfg.Logger)
	defer closeMigrator()

	if cfg.Logger != nil {
		cfg.Logger.Info("Running SQL migrations", "dir", absDir, "table", cfg.MigrationsTable, "dialect", cfg.Dialect)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Up()
	}()

	select {
	case <-ctx.Done():
		// migrate has no context support; closing interrupts it.
		closeMigrator()
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, migrate.ErrNoChange) {
			if cfg.Logger != nil {
				cfg.Logger.Info("No migrations to apply")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrations: up: %w", err)
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("Migrations applied successfully")
	}
	return nil
}

// Status reads the current schema version without applying anything.
func Status(ctx context.Context, db *sql.DB, cfg Config) (State, error) {
	m, cfg, _, err := open(ctx, db, cfg)
	if err != nil {
		return State{}, err
	}
	defer closer(m, cfg.Logger)()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("migrations: version: %w", err)
	}

	return State{Version: version, Dirty: dirty, Applied: true}, nil
}

func open(ctx context.Context, db *sql.DB, cfg Config) (migrator, Config, string, error) {
	if db == nil {
		return nil, cfg, "", fmt.Errorf("migrations: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, cfg, "", err
	}

	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = "migrations"
	}
	if strings.TrimSpace(cfg.MigrationsTable) == "" {
		cfg.MigrationsTable = "schema_migrations"
	}
	switch cfg.Dialect {
	case "":
		cfg.Dialect = DialectPostgres
	case DialectPostgres, DialectSQLite:
	default:
		return nil, cfg, "", fmt.Errorf("migrations: unsupported dialect %q", cfg.Dialect)
	}

	absDir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, cfg, "", fmt.Errorf("migrations: resolve dir: %w", err)
	}

	// ToSlash keeps the file:// URL valid on Windows.
	sourceURL := (&url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absDir),
	}).String()

	driver, err := driverFactory(db, cfg)
	if err != nil {
		return nil, cfg, "", fmt.Errorf("migrations: %s driver: %w", cfg.Dialect, err)
	}

	m, err := migratorFactory(sourceURL, cfg.Dialect, driver)
	if err != nil {
		return nil, cfg, "", fmt.Errorf("migrations: init: %w", err)
	}

	return m, cfg, absDir, nil
}

func closer(m migrator, logger Logger) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			srcErr, dbErr := m.Close()
			if logger == nil {
				return
			}
			if srcErr != nil {
				logger.Warn("Migrations source close error", "error", srcErr)
			}
			if dbErr != nil {
				logger.Warn("Migrations db close error", "error", dbErr)
			}
		})
	}
}

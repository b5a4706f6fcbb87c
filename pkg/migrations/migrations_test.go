package migrations

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (l *testLogger) Info(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *testLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *testLogger) Error(string, ...any) {}

type fakeMigrator struct {
	upErr      error
	version    uint
	dirty      bool
	versionErr error
	closed     atomic.Bool
}

func (m *fakeMigrator) Up() error { return m.upErr }

func (m *fakeMigrator) Version() (uint, bool, error) {
	return m.version, m.dirty, m.versionErr
}

func (m *fakeMigrator) Close() (error, error) {
	m.closed.Store(true)
	return nil, nil
}

type blockingMigrator struct {
	fakeMigrator
	release   chan struct{}
	closeOnce sync.Once
}

func (m *blockingMigrator) Up() error {
	<-m.release
	return nil
}

func (m *blockingMigrator) Close() (error, error) {
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		close(m.release)
	})
	return nil, nil
}

type factoryCall struct {
	sourceURL string
	dialect   string
	table     string
}

// stubFactories swaps the driver and migrator constructors for the test.
func stubFactories(t *testing.T, m migrator, initErr error) *factoryCall {
	t.Helper()

	origDriverFactory := driverFactory
	origMigratorFactory := migratorFactory
	t.Cleanup(func() {
		driverFactory = origDriverFactory
		migratorFactory = origMigratorFactory
	})

	call := &factoryCall{}
	driverFactory = func(_ *sql.DB, cfg Config) (database.Driver, error) {
		call.table = cfg.MigrationsTable
		return nil, nil
	}
	migratorFactory = func(sourceURL, dialect string, _ database.Driver) (migrator, error) {
		call.sourceURL = sourceURL
		call.dialect = dialect
		if initErr != nil {
			return nil, initErr
		}
		return m, nil
	}
	return call
}

func TestUp_NilDB(t *testing.T) {
	assert.Error(t, Up(context.Background(), nil, Config{}))
}

func TestUp_CancelledContextSkipsMigrator(t *testing.T) {
	call := stubFactories(t, &fakeMigrator{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Up(ctx, &sql.DB{}, Config{Dir: t.TempDir()})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, call.dialect)
}

func TestUp_DeadlineClosesMigrator(t *testing.T) {
	block := &blockingMigrator{release: make(chan struct{})}
	stubFactories(t, block, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := Up(ctx, &sql.DB{}, Config{Dir: t.TempDir()})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, block.closed.Load())
}

func TestUp_NoChangeIsNotAnError(t *testing.T) {
	m := &fakeMigrator{upErr: migrate.ErrNoChange}
	stubFactories(t, m, nil)
	logger := &testLogger{}

	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Logger: logger}))

	assert.Contains(t, logger.infos, "No migrations to apply")
	assert.True(t, m.closed.Load())
}

func TestUp_Success(t *testing.T) {
	stubFactories(t, &fakeMigrator{}, nil)
	logger := &testLogger{}

	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Logger: logger}))

	assert.Contains(t, logger.infos, "Migrations applied successfully")
}

func TestUp_WrapsFailure(t *testing.T) {
	stubFactories(t, &fakeMigrator{upErr: errors.New("syntax error at line 3")}, nil)

	err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})

	assert.ErrorContains(t, err, "migrations: up")
}

func TestUp_Defaults(t *testing.T) {
	tmp := t.TempDir()
	call := stubFactories(t, &fakeMigrator{upErr: migrate.ErrNoChange}, nil)

	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: tmp}))

	abs, _ := filepath.Abs(tmp)
	expected := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	assert.Equal(t, expected, call.sourceURL)
	assert.Equal(t, DialectPostgres, call.dialect)
	assert.Equal(t, "schema_migrations", call.table)
}

func TestUp_PathWithSpaces(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my migrations dir")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	call := stubFactories(t, &fakeMigrator{upErr: migrate.ErrNoChange}, nil)

	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: dir, Dialect: DialectSQLite}))

	parsed, err := url.Parse(call.sourceURL)
	require.NoError(t, err)
	abs, _ := filepath.Abs(dir)
	assert.Equal(t, "file", parsed.Scheme)
	assert.Equal(t, filepath.ToSlash(abs), parsed.Path)
	assert.Equal(t, DialectSQLite, call.dialect)
}

func TestUp_InitError(t *testing.T) {
	stubFactories(t, nil, errors.New("boom"))

	err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})

	assert.ErrorContains(t, err, "migrations: init")
}

func TestUp_UnsupportedDialect(t *testing.T) {
	stubFactories(t, &fakeMigrator{}, nil)

	err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Dialect: "mysql"})

	assert.ErrorContains(t, err, "unsupported dialect")
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name     string
		migrator *fakeMigrator
		want     State
		wantErr  bool
	}{
		{"nothing applied", &fakeMigrator{versionErr: migrate.ErrNilVersion}, State{}, false},
		{"applied", &fakeMigrator{version: 2}, State{Version: 2, Applied: true}, false},
		{"dirty", &fakeMigrator{version: 3, dirty: true}, State{Version: 3, Dirty: true, Applied: true}, false},
		{"failure", &fakeMigrator{versionErr: errors.New("no table")}, State{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubFactories(t, tt.migrator, nil)

			state, err := Status(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, state)
			assert.True(t, tt.migrator.closed.Load())
		})
	}
}

func openSQLite(t *testing.T, path string) (*gorm.DB, *sql.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db, sqlDB
}

// The sqlite3 migrate driver closes the connection it was given, so every
// call gets its own handle.
func TestUp_SQLiteEndToEnd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_create_guests.up.sql"),
		[]byte("CREATE TABLE guests (id TEXT PRIMARY KEY, phone TEXT NOT NULL UNIQUE);"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_create_guests.down.sql"),
		[]byte("DROP TABLE guests;"), 0o644))

	path := filepath.Join(t.TempDir(), "migrate.db")
	cfg := Config{Dir: dir, Dialect: DialectSQLite}
	ctx := context.Background()

	_, sqlDB := openSQLite(t, path)
	before, err := Status(ctx, sqlDB, cfg)
	require.NoError(t, err)
	assert.False(t, before.Applied)

	_, sqlDB = openSQLite(t, path)
	require.NoError(t, Up(ctx, sqlDB, cfg))

	_, sqlDB = openSQLite(t, path)
	after, err := Status(ctx, sqlDB, cfg)
	require.NoError(t, err)
	assert.Equal(t, State{Version: 1, Applied: true}, after)

	db, _ := openSQLite(t, path)
	assert.True(t, db.Migrator().HasTable("guests"))
}

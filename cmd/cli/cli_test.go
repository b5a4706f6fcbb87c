package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akeren/purim-rsvp/domain/rsvp"
	"github.com/akeren/purim-rsvp/internal/models"
	"github.com/akeren/purim-rsvp/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()

	original := readPassword
	t.Cleanup(func() { readPassword = original })

	readPassword = func(int) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no more input")
		}
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	}
}

func TestRunHashPassword(t *testing.T) {
	stubPasswords(t, "purim-2026", "purim-2026")

	var out bytes.Buffer
	require.NoError(t, runHashPassword(&out))

	var hash string
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "ADMIN_PASSWORD_HASH=") {
			hash = strings.TrimPrefix(line, "ADMIN_PASSWORD_HASH=")
		}
	}
	require.NotEmpty(t, hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("purim-2026")))
}

func TestRunHashPassword_Mismatch(t *testing.T) {
	stubPasswords(t, "purim-2026", "purim-2027")

	err := runHashPassword(&bytes.Buffer{})
	assert.ErrorIs(t, err, errPasswordMismatch)
}

func TestHashPassword_RejectsBlank(t *testing.T) {
	_, err := hashPassword([]byte("   "))
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := rsvp.NewMockRSVPRepository(ctrl)

	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	records := []*models.RSVP{{
		ID:                "r1",
		FirstName:         "אסתר",
		LastName:          "המלכה",
		FullName:          "אסתר המלכה",
		Phone:             "0501234567",
		Branch:            "beer-sheva-yeelim",
		BranchDisplayName: "יעלים (ב״ש)",
		SubmittedAt:       now,
		LastModifiedAt:    now,
	}}
	repo.EXPECT().ListRSVPs(gomock.Any(), rsvp.ListFilter{}).Return(records, nil).Times(2)

	var stdout bytes.Buffer
	require.NoError(t, exportCSV(context.Background(), repo, "", &stdout))
	assert.True(t, strings.HasPrefix(stdout.String(), "\ufeff"))
	assert.Contains(t, stdout.String(), "אסתר המלכה")

	path := filepath.Join(t.TempDir(), "rsvps.csv")
	require.NoError(t, exportCSV(context.Background(), repo, path, &bytes.Buffer{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, stdout.String(), string(data))
}

func TestExportCSV_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := rsvp.NewMockRSVPRepository(ctrl)
	repo.EXPECT().ListRSVPs(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	var stdout bytes.Buffer
	assert.Error(t, exportCSV(context.Background(), repo, "", &stdout))
	assert.Zero(t, stdout.Len())
}

func TestMigrationsConfig(t *testing.T) {
	t.Run("postgres default", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "")
		t.Setenv("MIGRATIONS_DIR", "")

		cfg := migrationsConfig(nil)
		assert.Equal(t, migrations.DialectPostgres, cfg.Dialect)
		assert.Equal(t, filepath.Join("migrations", "postgres"), cfg.Dir)
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("MIGRATIONS_DIR", "")

		cfg := migrationsConfig(nil)
		assert.Equal(t, migrations.DialectSQLite, cfg.Dialect)
		assert.Equal(t, filepath.Join("migrations", "sqlite3"), cfg.Dir)
	})

	t.Run("explicit dir", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("MIGRATIONS_DIR", "/srv/migrations")

		assert.Equal(t, "/srv/migrations", migrationsConfig(nil).Dir)
	})
}

func TestPrintMigrationState(t *testing.T) {
	cfg := migrations.Config{Dir: "migrations/postgres", Dialect: migrations.DialectPostgres}

	var out bytes.Buffer
	require.NoError(t, printMigrationState(&out, cfg, migrations.State{}))
	assert.Contains(t, out.String(), "no migrations applied")

	out.Reset()
	require.NoError(t, printMigrationState(&out, cfg, migrations.State{Version: 2, Applied: true}))
	assert.Equal(t, "migrations/postgres (postgres): version 2, dirty false\n", out.String())
}

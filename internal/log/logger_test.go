package log

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"off":     LevelSilent,
	}

	for raw, expected := range cases {
		level, ok := ParseLevel(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, expected, level, raw)
	}

	_, ok := ParseLevel("verbose")
	assert.False(t, ok)
}

func TestLevelFromEnv(t *testing.T) {
	t.Run("LOG_LEVEL wins", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "error")
		t.Setenv("APP_ENV", "development")
		assert.Equal(t, LevelError, LevelFromEnv(LevelInfo))
	})

	t.Run("development defaults to debug", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("APP_ENV", "dev")
		assert.Equal(t, LevelDebug, LevelFromEnv(LevelSilent))
	})

	t.Run("production uses fallback", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("APP_ENV", "production")
		assert.Equal(t, LevelSilent, LevelFromEnv(LevelSilent))
	})
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&buf, LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_Silent(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&buf, LevelSilent)
	logger.Error("nothing")

	assert.Empty(t, buf.String())
	assert.Equal(t, LevelSilent, logger.Level())
}

func TestWithCorrelationID(t *testing.T) {
	var buf bytes.Buffer

	ctx := context.WithValue(context.Background(), CorrelatedIDKey, "abc-123")
	NewLogger(&buf, LevelInfo).WithCorrelationID(ctx).Info("hello")

	assert.Contains(t, buf.String(), `"correlation_id":"abc-123"`)
}

func TestLogOutboundCall(t *testing.T) {
	var buf bytes.Buffer

	ctx := context.WithValue(context.Background(), CorrelatedIDKey, "abc-123")
	logger := NewLogger(&buf, LevelDebug).WithCorrelationID(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.example.com/sms?token=secret", nil)
	assert.NoError(t, err)

	LogOutboundCall(logger, req, 0, 15*time.Millisecond, errors.New("connection refused"))

	line := buf.String()
	assert.Equal(t, 1, strings.Count(line, `"correlation_id"`))
	assert.Contains(t, line, `"correlation_id":"abc-123"`)
	assert.Contains(t, line, `"path":"/sms"`)
	assert.Contains(t, line, `"latency_ms":15`)
	assert.NotContains(t, line, "secret")
}

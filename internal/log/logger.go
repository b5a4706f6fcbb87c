package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

var CorrelatedIDKey contextKey = "correlation_id"

const LoggerKeyForContext contextKey = "logger"

// Level is the verbosity a logger is built with. LevelSilent discards everything.
type Level string

const (
	LevelDebug  Level = "debug"
	LevelInfo   Level = "info"
	LevelWarn   Level = "warn"
	LevelError  Level = "error"
	LevelSilent Level = "silent"
)

type Logger struct {
	*slog.Logger
	level Level
}

func NewLoggerWithJSONOutput() *Logger {
	return NewLogger(os.Stdout, LevelInfo)
}

// NewLogger builds a JSON logger writing to w at the given level.
func NewLogger(w io.Writer, level Level) *Logger {
	if level == LevelSilent || w == nil {
		return &Logger{
			Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
			level:  LevelSilent,
		}
	}

	opts := &slog.HandlerOptions{Level: toSlogLevel(level)}

	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(w, opts)),
		level:  level,
	}
}

// NewLoggerFromEnv picks the level once at process start: LOG_LEVEL wins,
// otherwise development-like APP_ENV values log at debug and everything else
// falls back to the supplied default.
func NewLoggerFromEnv(w io.Writer, fallback Level) *Logger {
	return NewLogger(w, LevelFromEnv(fallback))
}

func LevelFromEnv(fallback Level) Level {
	if level, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
		return level
	}

	switch strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))) {
	case "dev", "development", "local":
		return LevelDebug
	}

	return fallback
}

func ParseLevel(raw string) (Level, bool) {
	switch Level(strings.ToLower(strings.TrimSpace(raw))) {
	case LevelDebug:
		return LevelDebug, true
	case LevelInfo:
		return LevelInfo, true
	case LevelWarn, "warning":
		return LevelWarn, true
	case LevelError:
		return LevelError, true
	case LevelSilent, "off", "none":
		return LevelSilent, true
	}

	return "", false
}

func toSlogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) WithCorrelationID(ctx context.Context) *Logger {
	id := GetOrGenerateCorrelationID(ctx)

	return &Logger{
		Logger: l.Logger.With(string(CorrelatedIDKey), id),
		level:  l.level,
	}
}

// With returns a child logger carrying the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
		level:  l.level,
	}
}

func GetOrGenerateCorrelationID(ctx context.Context) string {
	if id := ctx.Value(CorrelatedIDKey); id != nil {
		if s, ok := id.(string); ok {
			return s
		}
	}

	return GenerateCorrelationID()
}

func GenerateCorrelationID() string {
	return uuid.New().String()
}

func GetLoggerInstanceFromContext(ctx context.Context, fallbackLogger *Logger) *Logger {
	if ctx != nil {
		if logger := ctx.Value(LoggerKeyForContext); logger != nil {
			if l, ok := logger.(*Logger); ok {
				return l
			}
		}

		if fallbackLogger != nil {
			return fallbackLogger.WithCorrelationID(ctx)
		}
		return NewLoggerWithJSONOutput().WithCorrelationID(ctx)
	}

	if fallbackLogger != nil {
		return fallbackLogger
	}

	return NewLoggerWithJSONOutput()
}

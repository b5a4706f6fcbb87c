package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/pkg/rsvpclient"
	"github.com/akeren/purim-rsvp/pkg/utils"
	"github.com/joho/godotenv"
	"golang.org/x/term"
)

const defaultServerURL = "http://localhost:8080"

func main() {
	_ = godotenv.Load()

	logger := clientLogger()

	if err := run(context.Background(), logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// clientLogger stays silent unless RSVP_DEBUG or LOG_LEVEL asks otherwise.
func clientLogger() *log.Logger {
	if debug, _ := strconv.ParseBool(utils.GetEnvTrimmed("RSVP_DEBUG")); debug {
		return log.NewLogger(os.Stderr, log.LevelDebug)
	}
	if level, ok := log.ParseLevel(os.Getenv("LOG_LEVEL")); ok {
		return log.NewLogger(os.Stderr, level)
	}
	return log.NewLogger(nil, log.LevelSilent)
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "purim-rsvp.db"
	}
	return filepath.Join(dir, "purim-rsvp", "client.db")
}

func run(ctx context.Context, logger *log.Logger) error {
	cachePath := utils.GetEnvTrimmedOrDefault("RSVP_CACHE_PATH", defaultCachePath())
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	store, err := rsvpclient.OpenSQLiteStore(cachePath)
	if err != nil {
		return fmt.Errorf("open local cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close local cache", "error", err)
		}
	}()

	bypass, _ := strconv.ParseBool(utils.GetEnvTrimmed("BYPASS_VERIFICATION_ENABLED"))
	api := rsvpclient.NewHTTPClient(utils.GetEnvTrimmedOrDefault("RSVP_SERVER_URL", defaultServerURL), 15*time.Second)

	machine := rsvpclient.NewMachine(api, rsvpclient.NewLocalCache(store), rsvpclient.MachineConfig{
		BypassEnabled: bypass,
		Logger:        logger,
	})

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fd = -1
	}

	input := newChunkReader(os.Stdin)
	a := &app{
		machine: machine,
		api:     api,
		logger:  logger,
		input:   input,
		reader:  bufio.NewReader(input),
		out:     os.Stdout,
		fd:      fd,
	}

	return a.run(ctx)
}

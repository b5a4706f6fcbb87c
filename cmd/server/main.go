package main

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/akeren/purim-rsvp/config"
	"github.com/akeren/purim-rsvp/domain"
	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/pkg/utils"
)

func main() {
	logger := log.NewLoggerFromEnv(os.Stdout, log.LevelInfo)
	logger.Info("Purim RSVP server starting")

	if err := run(logger, wantsAutoMigrate(os.Args[1:])); err != nil {
		logger.Error("Server stopped with error", "error", err.Error())
		os.Exit(1)
	}
}

// wantsAutoMigrate reports whether --auto-migrate (or -m) was passed.
func wantsAutoMigrate(args []string) bool {
	return slices.ContainsFunc(args, func(arg string) bool {
		arg = strings.ToLower(arg)
		return arg == "--auto-migrate" || arg == "-m"
	})
}

func run(logger *log.Logger, autoMigrate bool) error {
	appConfig, err := config.LoadApplicationConfiguration(logger, autoMigrate)
	if err != nil {
		return err
	}
	defer appConfig.Cleanup()

	domain.SetupCoreDomain(appConfig)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- appConfig.RouterService.RunHTTPServer()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received, draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), utils.GetEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second))
	defer cancel()

	if err := appConfig.RouterService.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("HTTP server shut down gracefully")
	return nil
}

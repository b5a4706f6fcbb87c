package main

import (
	"fmt"
	"os"

	"github.com/akeren/purim-rsvp/config"
	"github.com/akeren/purim-rsvp/internal/log"
)

func main() {
	logger := log.NewLoggerFromEnv(os.Stderr, log.LevelInfo)

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	var err error

	switch args[0] {
	case "migrate":
		if len(args) > 1 && args[1] == "status" {
			err = runMigrateStatus(logger, os.Stdout)
		} else {
			err = runMigrate(logger)
		}

	case "export-csv":
		path := ""
		if len(args) > 1 {
			path = args[1]
		}
		err = runExportCSV(logger, path)

	case "hash-password":
		err = runHashPassword(os.Stdout)

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("Command failed", "command", args[0], "error", err.Error())
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate              Run database migrations and exit")
	fmt.Println("  migrate status       Print the applied migration version")
	fmt.Println("  export-csv [file]    Write every RSVP as CSV (stdout when no file is given)")
	fmt.Println("  hash-password        Read an admin password and print its bcrypt hash for ADMIN_PASSWORD_HASH")
}

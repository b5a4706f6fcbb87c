package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/akeren/purim-rsvp/config"
	"github.com/akeren/purim-rsvp/domain/admin"
	"github.com/akeren/purim-rsvp/domain/rsvp"
	"github.com/akeren/purim-rsvp/internal/log"
)

func runExportCSV(logger *log.Logger, path string) error {
	db, err := config.NewDatabase(logger, &config.DBConfig{})
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db, logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	return exportCSV(ctx, rsvp.NewRSVPRepository(db), path, os.Stdout)
}

// exportCSV writes every RSVP to path, or to stdout when path is empty.
func exportCSV(ctx context.Context, repository rsvp.RSVPRepository, path string, stdout io.Writer) error {
	records, err := repository.ListRSVPs(ctx, rsvp.ListFilter{})
	if err != nil {
		return err
	}

	data, err := admin.WriteCSV(records)
	if err != nil {
		return err
	}

	if path == "" {
		_, err = stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

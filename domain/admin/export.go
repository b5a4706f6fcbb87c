package admin

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/akeren/purim-rsvp/internal/models"
)

const (
	csvContentType = "text/csv; charset=utf-8"
	csvFilename    = "rsvps.csv"
	utf8BOM        = "\ufeff"

	// Day.month.year without padding, the way Hebrew locales print dates.
	csvDateFormat = "2.1.2006"
)

var csvHeader = []string{"שם מלא", "טלפון", "סניף", "הסעה", "תאריך אישור"}

var eventLocation = loadEventLocation()

func loadEventLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		return time.UTC
	}
	return loc
}

// WriteCSV renders records as a spreadsheet-friendly UTF-8 CSV with a BOM.
func WriteCSV(rsvps []*models.RSVP) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, r := range rsvps {
		if err := w.Write(csvRow(r)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func csvRow(r *models.RSVP) []string {
	transportation := "לא"
	if r.NeedsTransportation {
		transportation = "כן"
	}

	submitted := "-"
	if !r.SubmittedAt.IsZero() {
		submitted = r.SubmittedAt.In(eventLocation).Format(csvDateFormat)
	}

	branch := r.BranchDisplayName
	if branch == "" {
		branch = r.Branch
	}

	return []string{r.FullName, r.Phone, branch, transportation, submitted}
}

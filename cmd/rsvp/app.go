package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/pkg/rsvpclient"
)

type app struct {
	machine *rsvpclient.Machine
	api     rsvpclient.API
	logger  *log.Logger

	input  *chunkReader
	reader *bufio.Reader
	out    io.Writer
	// fd is the terminal put into raw mode for code entry; -1 when stdin is not a terminal.
	fd int

	// successDelay and closeDelay override the modal defaults when set.
	successDelay time.Duration
	closeDelay   time.Duration

	catalog *rsvpclient.BranchCatalog
	draft   rsvpclient.Form
}

var errQuit = errors.New("quit")

func (a *app) run(ctx context.Context) error {
	catalog, err := a.api.Branches(ctx)
	if err != nil {
		return fmt.Errorf("load branches: %w", err)
	}
	a.catalog = catalog

	state := a.machine.Mount(ctx)

	for {
		next, err := a.step(ctx, state)
		switch {
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, context.Canceled):
			return err
		case err != nil:
			a.logger.Debug("Step failed", "state", state.Name(), "error", err)
			fmt.Fprintln(a.out, describeError(err))
		}
		state = next
	}
}

func (a *app) step(ctx context.Context, state rsvpclient.State) (rsvpclient.State, error) {
	switch s := state.(type) {
	case rsvpclient.FreshForm:
		fmt.Fprintln(a.out, "אישור הגעה למסיבת פורים")
		form, err := promptForm(a.reader, a.out, a.catalog, a.draft, false)
		a.draft = form
		if err != nil {
			return state, err
		}
		return a.machine.Submit(ctx, form)

	case rsvpclient.PendingVerification:
		return a.verify(ctx, s)

	case rsvpclient.ConfirmedSummary:
		a.draft = rsvpclient.Form{}
		printSummary(a.out, s.Record)
		return a.summaryMenu()

	case rsvpclient.EditMode:
		fmt.Fprintln(a.out, "עריכת פרטי ההגעה (Enter משאיר את הערך הקיים)")
		form, err := promptForm(a.reader, a.out, a.catalog, rsvpclient.FormFromRecord(s.Record), true)
		if err != nil {
			return state, err
		}

		save, err := GetYesNo(a.reader, "לשמור את השינויים?", true, a.out)
		if err != nil {
			return state, err
		}
		if !save {
			return a.machine.CancelEdit(ctx)
		}
		return a.machine.Submit(ctx, form)

	default:
		return a.machine.Mount(ctx), nil
	}
}

func (a *app) summaryMenu() (rsvpclient.State, error) {
	for {
		answer, err := GetSimpleText(a.reader, "e עריכה, v אימות מחדש, q יציאה", a.out)
		if err != nil {
			return a.machine.State(), err
		}
		switch answer {
		case "e", "E":
			return a.machine.BeginEdit()
		case "v", "V":
			return a.machine.Reverify()
		case "q", "Q":
			return a.machine.State(), errQuit
		}
	}
}

func pendingMessage(pending rsvpclient.PendingVerification) string {
	switch pending.Purpose {
	case rsvpclient.PurposeReturningUser:
		return "מספר הטלפון כבר רשום. לצפייה באישור ההגעה יש לאמת את המספר."
	case rsvpclient.PurposeCompleteVerification:
		return "נמצא אישור הגעה שטרם אומת. יש להשלים את אימות הטלפון."
	case rsvpclient.PurposeEditAuthorization:
		return "לעריכת הפרטים יש לאמת את מספר הטלפון."
	case rsvpclient.PurposeReverify:
		return "אימות מחדש של מספר הטלפון."
	default:
		return "שלחנו קוד אימות בן 6 ספרות למספר הטלפון שלך."
	}
}

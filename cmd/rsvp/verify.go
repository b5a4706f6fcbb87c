package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/akeren/purim-rsvp/pkg/rsvpclient"
	"golang.org/x/term"
)

type outcome int

const (
	outcomeVerified outcome = iota + 1
	outcomeBypassed
)

// verify runs the code-entry dialog for a pending verification and applies
// its result to the machine. Machine calls stay on this goroutine; the
// modal callbacks only report through channels.
func (a *app) verify(ctx context.Context, pending rsvpclient.PendingVerification) (rsvpclient.State, error) {
	fmt.Fprintln(a.out, pendingMessage(pending))

	outcomes := make(chan outcome, 1)
	closed := make(chan struct{})

	cfg := rsvpclient.ModalConfig{
		Send:      a.machine.SendCode,
		Verify:    a.machine.VerifyCode,
		OnSuccess: func() { outcomes <- outcomeVerified },
		OnClose:   func() { close(closed) },

		SuccessDelay: a.successDelay,
		CloseDelay:   a.closeDelay,
	}
	if a.machine.BypassAvailable() {
		cfg.OnBypass = func() { outcomes <- outcomeBypassed }
	}
	modal := rsvpclient.NewModal(cfg)

	eof, err := a.driveModal(ctx, modal, closed)
	if err != nil {
		return a.machine.State(), err
	}

	select {
	case result := <-outcomes:
		if result == outcomeBypassed {
			return a.machine.Bypass(ctx)
		}
		return a.machine.Verified(ctx)
	default:
		state := a.machine.Cancel()
		if eof {
			return state, io.EOF
		}
		return state, nil
	}
}

// driveModal feeds keystrokes to modal until it closes. eof reports that
// stdin ended while the dialog was open.
func (a *app) driveModal(ctx context.Context, modal *rsvpclient.Modal, closed <-chan struct{}) (eof bool, err error) {
	if a.fd >= 0 {
		previous, err := term.MakeRaw(a.fd)
		if err != nil {
			return false, fmt.Errorf("enter raw mode: %w", err)
		}
		defer func() {
			_ = term.Restore(a.fd, previous)
			fmt.Fprint(a.out, "\r\n")
		}()
	}

	redraw := make(chan struct{}, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				modal.Tick()
				select {
				case redraw <- struct{}{}:
				default:
				}
			case <-stop:
				return
			}
		}
	}()

	chunks := a.input.Chunks()

	modal.Open(ctx)
	fmt.Fprint(a.out, renderModal(modal.View()))

	for {
		select {
		case <-closed:
			return eof, nil

		case <-ctx.Done():
			modal.Close()
			return eof, ctx.Err()

		case <-redraw:

		case chunk, ok := <-chunks:
			if !ok {
				eof = true
				chunks = nil
				modal.Close()
				continue
			}
			for _, k := range decodeKeys(chunk) {
				a.applyKey(ctx, modal, k)
			}
		}

		fmt.Fprint(a.out, renderModal(modal.View()))
	}
}

func (a *app) applyKey(ctx context.Context, modal *rsvpclient.Modal, k key) {
	confirming := modal.View().ConfirmingBypass

	switch k.kind {
	case keyDigit:
		modal.Type(rune(k.text[0]))
	case keyPaste:
		modal.Paste(k.text)
	case keyBackspace:
		modal.Backspace()
	case keyLeft:
		modal.Left()
	case keyRight:
		modal.Right()
	case keyEnter:
		if confirming {
			modal.Bypass()
			return
		}
		modal.Verify(ctx)
	case keyResend:
		modal.Resend(ctx)
	case keyBypass:
		modal.Bypass()
	case keyConfirm:
		if confirming {
			modal.Bypass()
		}
	case keyDecline:
		modal.CancelBypass()
	case keyClose:
		if confirming {
			modal.CancelBypass()
			return
		}
		modal.Close()
	}
}

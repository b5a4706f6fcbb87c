package main

import (
	"fmt"
	"strings"

	"github.com/akeren/purim-rsvp/pkg/rsvpclient"
)

type keyKind int

const (
	keyDigit keyKind = iota
	keyPaste
	keyBackspace
	keyLeft
	keyRight
	keyEnter
	keyResend
	keyBypass
	keyConfirm
	keyDecline
	keyClose
)

type key struct {
	kind keyKind
	text string
}

// decodeKeys turns one raw read into key events. A read holding more than
// one digit is treated as a paste.
func decodeKeys(chunk []byte) []key {
	s := string(chunk)

	if trimmed := strings.TrimSpace(s); len(trimmed) > 1 && allDigits(trimmed) {
		return []key{{kind: keyPaste, text: trimmed}}
	}

	var keys []key
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == 0x1b:
			if i+2 < len(s) && s[i+1] == '[' {
				switch s[i+2] {
				case 'D':
					keys = append(keys, key{kind: keyLeft})
				case 'C':
					keys = append(keys, key{kind: keyRight})
				}
				i += 2
				continue
			}
			keys = append(keys, key{kind: keyClose})
		case c >= '0' && c <= '9':
			keys = append(keys, key{kind: keyDigit, text: string(c)})
		case c == 0x7f || c == 0x08:
			keys = append(keys, key{kind: keyBackspace})
		case c == '\r' || c == '\n':
			keys = append(keys, key{kind: keyEnter})
		case c == 'r' || c == 'R':
			keys = append(keys, key{kind: keyResend})
		case c == 'b' || c == 'B':
			keys = append(keys, key{kind: keyBypass})
		case c == 'y' || c == 'Y':
			keys = append(keys, key{kind: keyConfirm})
		case c == 'n' || c == 'N':
			keys = append(keys, key{kind: keyDecline})
		case c == 'q' || c == 'Q' || c == 0x03:
			keys = append(keys, key{kind: keyClose})
		}
	}
	return keys
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// renderModal draws the dialog on one terminal line.
func renderModal(view rsvpclient.ModalView) string {
	var b strings.Builder
	b.WriteString("\r\033[K")

	switch {
	case view.Success:
		b.WriteString("✓ האימות הצליח")
		return b.String()
	case view.ConfirmingBypass:
		b.WriteString("להמשיך ללא אימות? (y/n)")
		return b.String()
	}

	for i, cell := range view.Cells {
		if cell == "" {
			cell = "_"
		}
		if i == view.Active {
			fmt.Fprintf(&b, "[%s]", cell)
		} else {
			fmt.Fprintf(&b, " %s ", cell)
		}
	}

	switch {
	case view.InFlight:
		b.WriteString("  ...")
	case view.Countdown > 0:
		fmt.Fprintf(&b, "  שליחה חוזרת בעוד %d שניות", view.Countdown)
	default:
		b.WriteString("  r לשליחה חוזרת")
	}

	if view.BypassAvailable {
		b.WriteString("  b להמשך ללא אימות")
	}

	if view.Error != "" {
		b.WriteString("  ")
		b.WriteString(view.Error)
	}
	return b.String()
}

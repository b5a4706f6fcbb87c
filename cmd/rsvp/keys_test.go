package main

import (
	"strings"
	"testing"

	"github.com/akeren/purim-rsvp/pkg/rsvpclient"
	"github.com/stretchr/testify/assert"
)

func kinds(keys []key) []keyKind {
	out := make([]keyKind, len(keys))
	for i, k := range keys {
		out[i] = k.kind
	}
	return out
}

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  []keyKind
	}{
		{"digit", "7", []keyKind{keyDigit}},
		{"paste", "123456", []keyKind{keyPaste}},
		{"paste with newline", "123456\r", []keyKind{keyPaste}},
		{"arrows", "\x1b[D\x1b[C", []keyKind{keyLeft, keyRight}},
		{"backspace", "\x7f", []keyKind{keyBackspace}},
		{"enter", "\r", []keyKind{keyEnter}},
		{"controls", "rbq", []keyKind{keyResend, keyBypass, keyClose}},
		{"bypass confirm", "yn", []keyKind{keyConfirm, keyDecline}},
		{"escape closes", "\x1b", []keyKind{keyClose}},
		{"ctrl-c closes", "\x03", []keyKind{keyClose}},
		{"letters ignored", "xz", []keyKind{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(decodeKeys([]byte(tt.chunk))))
		})
	}
}

func TestDecodeKeys_PasteText(t *testing.T) {
	keys := decodeKeys([]byte(" 123456 \n"))
	assert.Equal(t, []key{{kind: keyPaste, text: "123456"}}, keys)
}

func TestRenderModal(t *testing.T) {
	view := rsvpclient.ModalView{
		Open:      true,
		Cells:     [rsvpclient.CodeLength]string{"1", "2"},
		Active:    2,
		Countdown: 42,
	}

	line := renderModal(view)
	assert.True(t, strings.HasPrefix(line, "\r\033[K"))
	assert.Contains(t, line, " 1  2 [_]")
	assert.Contains(t, line, "42")
	assert.NotContains(t, line, "b להמשך")

	view.Countdown = 0
	view.Error = rsvpclient.MessageWrongCode
	view.BypassAvailable = true
	line = renderModal(view)
	assert.Contains(t, line, "r לשליחה חוזרת")
	assert.Contains(t, line, "b להמשך ללא אימות")
	assert.Contains(t, line, rsvpclient.MessageWrongCode)

	assert.Contains(t, renderModal(rsvpclient.ModalView{ConfirmingBypass: true}), "(y/n)")
	assert.Contains(t, renderModal(rsvpclient.ModalView{Success: true}), "האימות הצליח")
}

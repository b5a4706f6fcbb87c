package rsvpclient

import "strings"

const CodeLength = 6

// CodeInput is the six-cell code entry widget. Each cell holds one digit.
type CodeInput struct {
	cells  [CodeLength]byte
	active int
}

// Type puts a digit into the active cell and moves right. Non-digits are ignored.
func (c *CodeInput) Type(ch rune) bool {
	if ch < '0' || ch > '9' {
		return false
	}

	c.cells[c.active] = byte(ch)
	if c.active < CodeLength-1 {
		c.active++
	}
	return true
}

// Backspace clears the active cell, or the previous one when the active
// cell is already empty.
func (c *CodeInput) Backspace() {
	if c.cells[c.active] != 0 {
		c.cells[c.active] = 0
		return
	}
	if c.active > 0 {
		c.active--
		c.cells[c.active] = 0
	}
}

func (c *CodeInput) Left() {
	if c.active > 0 {
		c.active--
	}
}

func (c *CodeInput) Right() {
	if c.active < CodeLength-1 {
		c.active++
	}
}

// Paste spreads a pasted code over the cells from the first one. Anything
// that is not all digits is rejected.
func (c *CodeInput) Paste(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, ch := range text {
		if ch < '0' || ch > '9' {
			return false
		}
	}

	if len(text) > CodeLength {
		text = text[:CodeLength]
	}

	c.cells = [CodeLength]byte{}
	copy(c.cells[:], text)

	c.active = len(text)
	if c.active > CodeLength-1 {
		c.active = CodeLength - 1
	}
	return true
}

func (c *CodeInput) Reset() {
	c.cells = [CodeLength]byte{}
	c.active = 0
}

// Code joins the filled cells in order.
func (c *CodeInput) Code() string {
	var b strings.Builder
	for _, cell := range c.cells {
		if cell != 0 {
			b.WriteByte(cell)
		}
	}
	return b.String()
}

func (c *CodeInput) Complete() bool {
	for _, cell := range c.cells {
		if cell == 0 {
			return false
		}
	}
	return true
}

func (c *CodeInput) Active() int {
	return c.active
}

// Cells renders each cell as a one-character string, empty when unset.
func (c *CodeInput) Cells() [CodeLength]string {
	var out [CodeLength]string
	for i, cell := range c.cells {
		if cell != 0 {
			out[i] = string(cell)
		}
	}
	return out
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// chunkReader reads stdin on one goroutine for the life of the process so
// line prompts and raw-mode key reads share a single source. In cooked mode
// each chunk is a line; in raw mode it is a keystroke or a paste.
type chunkReader struct {
	chunks  chan []byte
	err     error
	pending []byte
}

func newChunkReader(r io.Reader) *chunkReader {
	c := &chunkReader{chunks: make(chan []byte, 16)}
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				c.chunks <- chunk
			}
			if err != nil {
				c.err = err
				close(c.chunks)
				return
			}
		}
	}()
	return c
}

// Read hands out at most one chunk per call.
func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.pending) == 0 {
		chunk, ok := <-c.chunks
		if !ok {
			if c.err != nil {
				return 0, c.err
			}
			return 0, io.EOF
		}
		c.pending = chunk
	}

	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

// Chunks is the raw stream used by the code-entry screen.
func (c *chunkReader) Chunks() <-chan []byte {
	return c.chunks
}

// GetSimpleText prints a prompt to w and reads one trimmed line.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetTextWithDefault keeps current when the answer is empty.
func GetTextWithDefault(reader *bufio.Reader, prompt, current string, w io.Writer) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	answer, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

// GetYesNo accepts כ/ל as well as y/n. An empty answer keeps current.
func GetYesNo(reader *bufio.Reader, prompt string, current bool, w io.Writer) (bool, error) {
	hint := "כ/ל"
	if current {
		hint = "כ/ל, כרגע: כן"
	}
	for {
		answer, err := GetSimpleText(reader, fmt.Sprintf("%s (%s)", prompt, hint), w)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return current, nil
		case "כ", "כן", "y", "yes":
			return true, nil
		case "ל", "לא", "n", "no":
			return false, nil
		}
		fmt.Fprintln(w, "נא לענות כ או ל")
	}
}

package runcsv

import (
	"bufio"
	"io"
	"strings"
)

// lineReader yields whitespace-trimmed lines with one line of lookahead.
// Section scans peek at the next line, test their stop condition, and only
// consume the line when it belongs to the current section, so the reader
// works on any io.Reader without seek support.
type lineReader struct {
	sc     *bufio.Scanner
	line   int
	next   string
	peeked bool
	done   bool
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &lineReader{sc: sc}
}

// peek returns the next line without consuming it. ok is false at EOF.
func (lr *lineReader) peek() (string, bool) {
	if lr.peeked {
		return lr.next, true
	}
	if lr.done {
		return "", false
	}
	if !lr.sc.Scan() {
		lr.done = true
		return "", false
	}
	lr.next = strings.TrimSpace(lr.sc.Text())
	lr.peeked = true
	return lr.next, true
}

// advance consumes the peeked line and bumps the 1-based line counter.
func (lr *lineReader) advance() {
	if !lr.peeked {
		return
	}
	lr.peeked = false
	lr.line++
}

// readLine consumes and returns the next line.
func (lr *lineReader) readLine() (string, bool) {
	s, ok := lr.peek()
	if !ok {
		return "", false
	}
	lr.advance()
	return s, true
}

// err surfaces any underlying read failure.
func (lr *lineReader) err() error {
	return lr.sc.Err()
}

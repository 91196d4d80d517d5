package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrInputClosed = errors.New("failed to read input")

// Reader asks questions on out and reads one answer per line from in.
type Reader struct {
	in    *bufio.Reader
	out   io.Writer
	style func(string) string
}

// New returns a Reader. style decorates each prompt message and may be nil.
func New(in io.Reader, out io.Writer, style func(string) string) *Reader {
	if style == nil {
		style = func(s string) string { return s }
	}
	return &Reader{
		in:    bufio.NewReader(in),
		out:   out,
		style: style,
	}
}

// ReadLine prints message on its own line and returns the next input line
// with surrounding whitespace removed. A last line without a terminator is
// still returned; reading nothing at all is ErrInputClosed.
func (r *Reader) ReadLine(message string) (string, error) {
	if _, err := fmt.Fprintln(r.out, r.style(message)); err != nil {
		return "", err
	}

	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("%w: %v", ErrInputClosed, err)
	}
	return strings.TrimSpace(line), nil
}

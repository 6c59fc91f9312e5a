package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// Reader provides context-aware line reading for interactive prompts, so a
// login flow blocked on stdin can still be interrupted.
type Reader struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewReader wraps in/out into a prompt reader.
func NewReader(in io.Reader, out io.Writer) *Reader {
	return &Reader{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Prompt prints a styled prompt and reads one trimmed line, respecting
// context cancellation.
func (r *Reader) Prompt(ctx context.Context, text string) (string, error) {
	fmt.Fprintln(r.out, PromptStyle.Render(text))

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		value, err := r.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		// The reading goroutine keeps blocking on stdin until a line
		// arrives, but the caller gets control back immediately.
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}

package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// HumanDeveloper reads developer replies line by line from a reader, e.g. a
// terminal. Respond writes message as the prompt before reading.
type HumanDeveloper struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewHumanDeveloper creates a HumanDeveloper reading from in and prompting on out.
func NewHumanDeveloper(in io.Reader, out io.Writer) *HumanDeveloper {
	return &HumanDeveloper{scanner: bufio.NewScanner(in), out: out}
}

// Respond prints message and returns the next input line with surrounding
// whitespace removed. It returns io.EOF when input is exhausted.
func (h *HumanDeveloper) Respond(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if message != "" && h.out != nil {
		if _, err := fmt.Fprint(h.out, message); err != nil {
			return "", err
		}
	}

	if !h.scanner.Scan() {
		if err := h.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return strings.TrimSpace(h.scanner.Text()), nil
}

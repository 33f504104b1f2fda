// Package ui holds the confirmation prompt and the optional interactive
// terminal mode.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Decision is the outcome of a confirmation prompt.
type Decision int

const (
	Confirmed Decision = iota
	Rejected
)

// Confirm asks a yes/no question and blocks until the answer is decisive.
// Empty input or anything starting with n/N rejects; only y/Y confirms;
// any other input asks again. There is no timeout - the loop only ends on
// an answer or on EOF, which counts as a rejection.
//
// A caller asking more than one question on the same stream must pass a
// *bufio.Reader, otherwise the read-ahead of one question can eat the
// answer to the next.
func Confirm(in io.Reader, out io.Writer, question string) Decision {
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	for {
		fmt.Fprintf(out, "%s [y/N]: ", question)

		line, err := reader.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer == "" {
			// Empty input and EOF both take the safe default.
			return Rejected
		}

		switch strings.ToLower(answer[:1]) {
		case "y":
			return Confirmed
		case "n":
			return Rejected
		}
		if err != nil {
			return Rejected
		}
	}
}

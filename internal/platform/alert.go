package platform

import (
	"bufio"
	"fmt"
	"io"
)

// TerminalAlert presents alerts on a terminal and blocks until the user
// presses Enter (or the input closes).
type TerminalAlert struct {
	out io.Writer
	in  *bufio.Reader
}

// NewTerminalAlert writes to out and waits on in.
func NewTerminalAlert(in io.Reader, out io.Writer) *TerminalAlert {
	a := &TerminalAlert{out: out}
	if in != nil {
		a.in = bufio.NewReader(in)
	}
	return a
}

// Show prints message and detail, then waits for acknowledgement.
func (a *TerminalAlert) Show(message, detail string) {
	if a == nil || a.out == nil {
		return
	}
	fmt.Fprintf(a.out, "\n%s\n%s\n", message, detail)
	if a.in == nil {
		return
	}
	fmt.Fprint(a.out, "\nPress Enter to continue...")
	_, _ = a.in.ReadString('\n')
	fmt.Fprintln(a.out)
}

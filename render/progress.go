package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const carriageReturn = "\r"

// progress reports pass numbers. On a terminal the line is redrawn in
// place; elsewhere each update is a line of its own.
type progress struct {
	w          io.Writer
	tty        bool
	lastOutput int
}

func newProgress(w io.Writer, isTTY *bool) *progress {
	if w == nil {
		return nil
	}
	tty := isTerminalWriter(w)
	if isTTY != nil {
		tty = *isTTY
	}
	return &progress{w: w, tty: tty}
}

// isTerminalWriter reports whether w is an *os.File attached to a terminal.
func isTerminalWriter(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func (p *progress) update(format string, args ...any) {
	if p == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	if !p.tty {
		fmt.Fprintln(p.w, line)
		return
	}
	p.clear()
	fmt.Fprint(p.w, line)
	p.lastOutput = len(line)
}

// done ends the progress line with a final message.
func (p *progress) done(format string, args ...any) {
	if p == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	if p.tty {
		p.clear()
	}
	fmt.Fprintln(p.w, line)
}

func (p *progress) clear() {
	if p.lastOutput > 0 {
		fmt.Fprint(p.w, carriageReturn+strings.Repeat(" ", p.lastOutput)+carriageReturn)
		p.lastOutput = 0
	}
}

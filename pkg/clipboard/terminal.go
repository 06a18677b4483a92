package clipboard

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const DefaultSuccessMessage = "✓ Copied to clipboard!"

// TerminalNotifier prints a success line and erases it on Hide when the
// output is interactive.
type TerminalNotifier struct {
	out         io.Writer
	message     string
	interactive bool
}

func NewTerminalNotifier(out io.Writer, message string, interactive bool) *TerminalNotifier {
	if message == "" {
		message = DefaultSuccessMessage
	}
	return &TerminalNotifier{out: out, message: message, interactive: interactive}
}

func (n *TerminalNotifier) Show() {
	green := color.New(color.FgGreen, color.Bold)
	if n.interactive {
		green.Fprint(n.out, n.message)
		return
	}
	green.Fprintln(n.out, n.message)
}

func (n *TerminalNotifier) Hide() {
	if n.interactive {
		fmt.Fprint(n.out, "\r\033[K")
	}
}

// TerminalAlerter prints the manual-copy instruction on stderr.
type TerminalAlerter struct {
	out io.Writer
}

func NewTerminalAlerter(out io.Writer) *TerminalAlerter {
	return &TerminalAlerter{out: out}
}

func (a *TerminalAlerter) Alert(message string) {
	red := color.New(color.FgRed, color.Bold)
	fmt.Fprintln(a.out)
	red.Fprintln(a.out, message)
	fmt.Fprintln(a.out)
}

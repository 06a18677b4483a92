package clipboard

import (
	"io"
	"os"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/mattn/go-isatty"

	"reviewmsg/pkg/logger"
)

// OSC52Command asks the terminal emulator to set the clipboard with an
// OSC 52 escape sequence. It is synchronous and best effort: a terminal
// that ignores the sequence cannot be detected.
type OSC52Command struct {
	out        io.Writer
	fd         uintptr
	isTerminal func(fd uintptr) bool
	getenv     func(string) string
}

// NewOSC52Command writes sequences to f, usually os.Stderr or /dev/tty.
func NewOSC52Command(f *os.File) *OSC52Command {
	return &OSC52Command{
		out:        f,
		fd:         f.Fd(),
		isTerminal: func(fd uintptr) bool { return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) },
		getenv:     os.Getenv,
	}
}

func (c *OSC52Command) CopySelection(selected string) bool {
	if !c.isTerminal(c.fd) {
		logger.Debug().Msg("osc52: output is not a terminal")
		return false
	}

	seq := osc52.New(selected)
	switch {
	case c.getenv("TMUX") != "":
		seq = seq.Tmux()
	case c.getenv("STY") != "":
		seq = seq.Screen()
	}

	if _, err := seq.WriteTo(c.out); err != nil {
		logger.Debug().Err(err).Msg("osc52: write failed")
		return false
	}
	return true
}

package clipboard

import (
	"context"

	atotto "github.com/atotto/clipboard"
)

// SystemWriter is the native clipboard (pbcopy, clip.exe, xclip, xsel,
// wl-copy, termux) through atotto/clipboard.
type SystemWriter struct {
	unsupported func() bool
	write       func(string) error
}

func NewSystemWriter() *SystemWriter {
	return &SystemWriter{
		unsupported: func() bool { return atotto.Unsupported },
		write:       atotto.WriteAll,
	}
}

func (w *SystemWriter) Available() bool {
	return !w.unsupported()
}

// WriteText runs the clipboard helper and waits for it or for ctx.
// On cancellation the helper process is left to exit on its own.
func (w *SystemWriter) WriteText(ctx context.Context, text string) error {
	done := make(chan error, 1)
	go func() {
		done <- w.write(text)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

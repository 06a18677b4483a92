package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Spinner animates on a single terminal line while a network call is in
// flight. It never animates when the output is not a terminal.
type Spinner struct {
	mu         sync.Mutex
	writer     io.Writer
	enabled    bool
	frames     []string
	frameIndex int
	message    string
	interval   time.Duration
	running    bool
	stopChan   chan struct{}
	wg         sync.WaitGroup
}

// NewSpinner creates a spinner on stderr.
func NewSpinner(message string) *Spinner {
	fd := os.Stderr.Fd()
	return &Spinner{
		writer:   os.Stderr,
		enabled:  isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		message:  message,
		interval: 100 * time.Millisecond,
	}
}

// SetWriter sets a custom writer and enables animation on it.
func (s *Spinner) SetWriter(w io.Writer) {
	s.writer = w
	s.enabled = true
}

func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running || !s.enabled {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.animate()
}

func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	// Clear the line
	fmt.Fprint(s.writer, "\r\033[K")
}

func (s *Spinner) animate() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			frame := s.frames[s.frameIndex%len(s.frames)]
			message := s.message
			s.frameIndex++
			s.mu.Unlock()

			fmt.Fprintf(s.writer, "\r%s %s", frame, message)
		}
	}
}

// Run shows a spinner on stderr for the duration of fn.
func Run[T any](message string, fn func() T) T {
	spinner := NewSpinner(message)
	spinner.Start()
	defer spinner.Stop()
	return fn()
}

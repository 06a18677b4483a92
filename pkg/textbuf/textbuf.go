// Package textbuf holds the editable message text shared by the clipboard
// copier and the URL sync.
package textbuf

import (
	"os"
	"sync"
)

// Buffer is an in-memory text region with a selection.
// It is safe for concurrent use; concurrent writers are last-writer-wins.
type Buffer struct {
	mu       sync.RWMutex
	text     string
	selStart int
	selEnd   int
}

func New(text string) *Buffer {
	return &Buffer{text: text}
}

func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// SetText replaces the content and drops any selection.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
	b.selStart, b.selEnd = 0, 0
}

// Select selects the characters [start, end), clamped to the text length.
// Offsets count runes, so a selection never splits a multi-byte character.
// An end past the text selects through the end.
func (b *Buffer) Select(start, end int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	from := byteOffset(b.text, start)
	to := byteOffset(b.text, end)
	if to < from {
		to = from
	}
	b.selStart, b.selEnd = from, to
}

func (b *Buffer) SelectedText() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text[b.selStart:b.selEnd]
}

func (b *Buffer) HasSelection() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selEnd > b.selStart
}

func (b *Buffer) ClearSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selStart, b.selEnd = 0, 0
}

// byteOffset returns the byte index of the n-th rune of s, clamped to [0, len(s)].
func byteOffset(s string, n int) int {
	if n <= 0 {
		return 0
	}
	count := 0
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	return len(s)
}

// File is a Buffer loaded from and saved back to a path.
type File struct {
	*Buffer
	path string
}

// Open reads path into a new File buffer.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &File{Buffer: New(string(data)), path: path}, nil
}

func (f *File) Path() string {
	return f.path
}

// Save writes the current text back to the file, keeping its mode.
func (f *File) Save() error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(f.path, []byte(f.Text()), mode); err != nil {
		return err
	}
	return os.Chmod(f.path, mode)
}

package clipboard

import (
	"bytes"
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"

	"reviewmsg/pkg/textbuf"
)

type fakeWriter struct {
	available bool
	err       error
	written   []string
}

func (w *fakeWriter) Available() bool { return w.available }

func (w *fakeWriter) WriteText(ctx context.Context, text string) error {
	w.written = append(w.written, text)
	return w.err
}

type fakeLegacy struct {
	ok     bool
	copied []string
}

func (l *fakeLegacy) CopySelection(selected string) bool {
	l.copied = append(l.copied, selected)
	return l.ok
}

type fakeNotifier struct {
	events []string
}

func (n *fakeNotifier) Show() { n.events = append(n.events, "show") }
func (n *fakeNotifier) Hide() { n.events = append(n.events, "hide") }

type fakeAlerter struct {
	messages []string
}

func (a *fakeAlerter) Alert(message string) { a.messages = append(a.messages, message) }

type scheduled struct {
	delays []time.Duration
	funcs  []func()
}

func (s *scheduled) afterFunc(d time.Duration, f func()) {
	s.delays = append(s.delays, d)
	s.funcs = append(s.funcs, f)
}

func (s *scheduled) fire() {
	for _, f := range s.funcs {
		f()
	}
	s.funcs = nil
}

func newTestCopier(w Writer, l LegacyCommand) (*Copier, *fakeNotifier, *fakeAlerter, *scheduled) {
	n := &fakeNotifier{}
	a := &fakeAlerter{}
	s := &scheduled{}
	c := NewCopier(w, l, n, a, Options{})
	c.afterFunc = s.afterFunc
	return c, n, a, s
}

const message = "本日はご来店ありがとうございました！\n\nこちらのURLから口コミも書いていただけると嬉しいです！（https://g.page/r/example1/review）"

func TestCopy_NativeSuccess(t *testing.T) {
	w := &fakeWriter{available: true}
	l := &fakeLegacy{ok: true}
	c, n, a, s := newTestCopier(w, l)
	buf := textbuf.New(message)

	out := c.Copy(context.Background(), buf)

	if out.Status != Succeeded || out.Tier != TierNative {
		t.Fatalf("outcome = %+v, want native success", out)
	}
	if !reflect.DeepEqual(w.written, []string{message}) {
		t.Errorf("native writer got %q", w.written)
	}
	if len(l.copied) != 0 {
		t.Errorf("legacy command should not run, got %q", l.copied)
	}
	if !reflect.DeepEqual(n.events, []string{"show"}) {
		t.Errorf("events before timer = %v, want [show]", n.events)
	}
	if !reflect.DeepEqual(s.delays, []time.Duration{2 * time.Second}) {
		t.Errorf("hide scheduled with %v, want [2s]", s.delays)
	}

	s.fire()
	c.Wait()

	if !reflect.DeepEqual(n.events, []string{"show", "hide"}) {
		t.Errorf("events = %v, want [show hide]", n.events)
	}
	if len(a.messages) != 0 {
		t.Errorf("unexpected alerts: %v", a.messages)
	}
	if out.Err() != nil {
		t.Errorf("Err() = %v, want nil", out.Err())
	}
}

func TestCopy_FallbackPaths(t *testing.T) {
	tests := []struct {
		name       string
		writer     Writer
		legacyOK   bool
		wantStatus Status
	}{
		{"native absent, legacy ok", nil, true, Succeeded},
		{"native undetected, legacy ok", &fakeWriter{available: false}, true, Succeeded},
		{"native rejects, legacy ok", &fakeWriter{available: true, err: errors.New("permission denied")}, true, Succeeded},
		{"native absent, legacy fails", nil, false, Failed},
		{"native rejects, legacy fails", &fakeWriter{available: true, err: context.DeadlineExceeded}, false, Failed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &fakeLegacy{ok: tt.legacyOK}
			c, n, a, s := newTestCopier(tt.writer, l)
			buf := textbuf.New(message)

			out := c.Copy(context.Background(), buf)
			s.fire()

			if out.Status != tt.wantStatus {
				t.Fatalf("status = %v, want %v", out.Status, tt.wantStatus)
			}
			if out.Tier != TierLegacy {
				t.Errorf("tier = %v, want legacy", out.Tier)
			}
			if !reflect.DeepEqual(l.copied, []string{message}) {
				t.Errorf("legacy copied %q, want whole text", l.copied)
			}
			if buf.HasSelection() {
				if tt.wantStatus == Succeeded {
					t.Error("selection should be cleared after legacy success")
				}
			}

			if tt.wantStatus == Succeeded {
				if !reflect.DeepEqual(n.events, []string{"show", "hide"}) {
					t.Errorf("events = %v", n.events)
				}
				if len(a.messages) != 0 {
					t.Errorf("unexpected alert %v", a.messages)
				}
				return
			}

			if len(n.events) != 0 {
				t.Errorf("no notification expected on failure, got %v", n.events)
			}
			if len(a.messages) != 1 || !strings.Contains(a.messages[0], "手動でコピーしてください") {
				t.Errorf("alerts = %v", a.messages)
			}
			if out.Err() == nil {
				t.Error("Err() should be non-nil on failure")
			}
		})
	}
}

func TestCopy_LegacyUnsupportedNeverSucceeds(t *testing.T) {
	for _, w := range []Writer{nil, &fakeWriter{available: true, err: errors.New("insecure")}} {
		c, n, a, _ := newTestCopier(w, nil)
		out := c.Copy(context.Background(), textbuf.New(message))
		if out.Status != Failed {
			t.Errorf("status = %v, want failed", out.Status)
		}
		if out.Reason != "legacy copy command unsupported" {
			t.Errorf("reason = %q", out.Reason)
		}
		if len(n.events) != 0 {
			t.Errorf("events = %v", n.events)
		}
		if len(a.messages) != 1 {
			t.Errorf("alerts = %v", a.messages)
		}
	}
}

func TestCopy_SelectionBoundedByLimit(t *testing.T) {
	l := &fakeLegacy{ok: true}
	n := &fakeNotifier{}
	c := NewCopier(nil, l, n, &fakeAlerter{}, Options{SelectionLimit: 5, NotifyDuration: time.Millisecond})
	c.Copy(context.Background(), textbuf.New("0123456789"))
	c.Wait()

	if !reflect.DeepEqual(l.copied, []string{"01234"}) {
		t.Errorf("legacy copied %q, want [01234]", l.copied)
	}
	if !reflect.DeepEqual(n.events, []string{"show", "hide"}) {
		t.Errorf("events = %v", n.events)
	}
}

func TestCopy_LegacyReceivesWholeCharacters(t *testing.T) {
	l := &fakeLegacy{ok: true}
	c, _, _, _ := newTestCopier(nil, l)

	text := "x" + strings.Repeat("あ", 40000)
	c.Copy(context.Background(), textbuf.New(text))
	if len(l.copied) != 1 || l.copied[0] != text {
		t.Fatalf("legacy tier did not receive the whole text")
	}

	l.copied = nil
	c = NewCopier(nil, l, nil, &fakeAlerter{}, Options{SelectionLimit: 3})
	c.Copy(context.Background(), textbuf.New("xあいう"))
	if !reflect.DeepEqual(l.copied, []string{"xあい"}) {
		t.Fatalf("legacy copied %q, want [xあい]", l.copied)
	}
	if !utf8.ValidString(l.copied[0]) {
		t.Error("legacy tier received invalid UTF-8")
	}
}

func TestCopy_CustomFailureMessage(t *testing.T) {
	a := &fakeAlerter{}
	c := NewCopier(nil, &fakeLegacy{ok: false}, nil, a, Options{FailureMessage: "copy it yourself"})
	c.Copy(context.Background(), textbuf.New("x"))
	if !reflect.DeepEqual(a.messages, []string{"copy it yourself"}) {
		t.Errorf("alerts = %v", a.messages)
	}
}

func TestSystemWriter(t *testing.T) {
	var got string
	w := &SystemWriter{
		unsupported: func() bool { return false },
		write: func(s string) error {
			got = s
			return nil
		},
	}
	if !w.Available() {
		t.Fatal("expected available")
	}
	if err := w.WriteText(context.Background(), "hello"); err != nil {
		t.Fatalf("WriteText() returned error: %v", err)
	}
	if got != "hello" {
		t.Errorf("wrote %q", got)
	}

	w.unsupported = func() bool { return true }
	if w.Available() {
		t.Error("expected unavailable")
	}
}

func TestSystemWriter_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	w := &SystemWriter{
		unsupported: func() bool { return false },
		write: func(string) error {
			<-block
			return nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.WriteText(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("WriteText() = %v, want context.Canceled", err)
	}
}

func TestOSC52Command(t *testing.T) {
	tests := []struct {
		name     string
		terminal bool
		env      map[string]string
		wantOK   bool
		contains string
	}{
		{"not a terminal", false, nil, false, ""},
		{"plain terminal", true, nil, true, "\x1b]52;c;aGVsbG8="},
		{"inside tmux", true, map[string]string{"TMUX": "/tmp/tmux-1000/default"}, true, "\x1bPtmux;"},
		{"inside screen", true, map[string]string{"STY": "1234.pts-0"}, true, "\x1bP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := &OSC52Command{
				out:        &out,
				isTerminal: func(uintptr) bool { return tt.terminal },
				getenv:     func(k string) string { return tt.env[k] },
			}
			if ok := c.CopySelection("hello"); ok != tt.wantOK {
				t.Fatalf("CopySelection() = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				if out.Len() != 0 {
					t.Errorf("nothing should be written, got %q", out.String())
				}
				return
			}
			if !strings.Contains(out.String(), tt.contains) {
				t.Errorf("output %q does not contain %q", out.String(), tt.contains)
			}
		})
	}
}

func TestNewOSC52Command(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "tty")
	if err != nil {
		t.Fatalf("CreateTemp() failed: %v", err)
	}
	defer f.Close()

	if NewOSC52Command(f).CopySelection("x") {
		t.Error("a regular file is not a terminal")
	}
}

func TestTerminalNotifier(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	n := NewTerminalNotifier(&out, "", false)
	n.Show()
	n.Hide()
	if out.String() != DefaultSuccessMessage+"\n" {
		t.Errorf("non-interactive output = %q", out.String())
	}

	out.Reset()
	n = NewTerminalNotifier(&out, "done", true)
	n.Show()
	n.Hide()
	if out.String() != "done\r\033[K" {
		t.Errorf("interactive output = %q", out.String())
	}
}

func TestTerminalAlerter(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	NewTerminalAlerter(&out).Alert("manual copy please")
	if !strings.Contains(out.String(), "manual copy please") {
		t.Errorf("output = %q", out.String())
	}
}

// Package clipboard places the review message on the system clipboard.
// It tries the native clipboard first and falls back to a best-effort
// terminal copy of the selected text. The outcome is reported through an
// injected notifier (success) or alerter (failure).
package clipboard

import (
	"context"
	"sync"
	"time"

	"reviewmsg/pkg/errors"
	"reviewmsg/pkg/logger"
)

const (
	DefaultNotifyDuration = 2 * time.Second
	DefaultSelectionLimit = 99999
)

// Source is the text region being copied.
type Source interface {
	Text() string
	Select(start, end int)
	SelectedText() string
	ClearSelection()
}

// Writer is the native clipboard capability. Available reports detection
// only; WriteText may still fail at call time.
type Writer interface {
	Available() bool
	WriteText(ctx context.Context, text string) error
}

// LegacyCommand copies the current selection and reports whether it worked.
type LegacyCommand interface {
	CopySelection(selected string) bool
}

type Notifier interface {
	Show()
	Hide()
}

type Alerter interface {
	Alert(message string)
}

type Status int

const (
	Succeeded Status = iota
	Failed
)

func (s Status) String() string {
	if s == Succeeded {
		return "succeeded"
	}
	return "failed"
}

type Tier string

const (
	TierNative Tier = "native"
	TierLegacy Tier = "legacy"
)

// CopyOutcome is the transient result of one Copy call.
type CopyOutcome struct {
	Status Status
	Tier   Tier
	Reason string
}

func (o CopyOutcome) Err() error {
	if o.Status == Succeeded {
		return nil
	}
	return errors.ClipboardError(o.Reason)
}

type Options struct {
	NotifyDuration time.Duration
	SelectionLimit int
	FailureMessage string
}

type Copier struct {
	writer   Writer
	legacy   LegacyCommand
	notifier Notifier
	alerter  Alerter
	opts     Options

	afterFunc func(d time.Duration, f func())
	pending   sync.WaitGroup
}

// NewCopier builds a Copier. writer may be nil when no native clipboard exists.
func NewCopier(writer Writer, legacy LegacyCommand, notifier Notifier, alerter Alerter, opts Options) *Copier {
	if opts.NotifyDuration <= 0 {
		opts.NotifyDuration = DefaultNotifyDuration
	}
	if opts.SelectionLimit <= 0 {
		opts.SelectionLimit = DefaultSelectionLimit
	}
	if opts.FailureMessage == "" {
		opts.FailureMessage = errors.ErrMsgCopyFailed
	}
	return &Copier{
		writer:   writer,
		legacy:   legacy,
		notifier: notifier,
		alerter:  alerter,
		opts:     opts,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Copy puts the whole source text on the clipboard.
func (c *Copier) Copy(ctx context.Context, src Source) CopyOutcome {
	if c.writer != nil && c.writer.Available() {
		err := c.writer.WriteText(ctx, src.Text())
		if err == nil {
			c.notify()
			logger.Debug().Str("tier", string(TierNative)).Msg("copied to clipboard")
			return CopyOutcome{Status: Succeeded, Tier: TierNative}
		}
		// Any rejection falls back; permission and context failures are not told apart.
		logger.Debug().Err(err).Msg("native clipboard rejected write, falling back")
	}
	return c.copyLegacy(src)
}

func (c *Copier) copyLegacy(src Source) CopyOutcome {
	src.Select(0, c.opts.SelectionLimit)

	if c.legacy != nil && c.legacy.CopySelection(src.SelectedText()) {
		c.notify()
		src.ClearSelection()
		logger.Debug().Str("tier", string(TierLegacy)).Msg("copied to clipboard")
		return CopyOutcome{Status: Succeeded, Tier: TierLegacy}
	}

	reason := "legacy copy command failed"
	if c.legacy == nil {
		reason = "legacy copy command unsupported"
	}
	logger.Error().Str("reason", reason).Msg("Copy failed")
	if c.alerter != nil {
		c.alerter.Alert(c.opts.FailureMessage)
	}
	return CopyOutcome{Status: Failed, Tier: TierLegacy, Reason: reason}
}

func (c *Copier) notify() {
	if c.notifier == nil {
		return
	}
	c.notifier.Show()
	c.pending.Add(1)
	c.afterFunc(c.opts.NotifyDuration, func() {
		defer c.pending.Done()
		c.notifier.Hide()
	})
}

// Wait blocks until every shown notification has been hidden again.
func (c *Copier) Wait() {
	c.pending.Wait()
}

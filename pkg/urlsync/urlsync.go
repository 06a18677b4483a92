// Package urlsync rewrites the review URL inside a message after resolving
// it for a shop. Every failure leaves the message untouched and is only
// logged, so the user's editing is never interrupted.
package urlsync

import (
	"context"

	"reviewmsg/pkg/logger"
	"reviewmsg/pkg/placeholder"
	"reviewmsg/pkg/shopurl"
)

type Resolver interface {
	Resolve(ctx context.Context, shopID string) (shopurl.Resolution, error)
}

type Buffer interface {
	Text() string
	SetText(text string)
}

// Result tells which branch a sync took. Only Updated mutates the buffer.
type Result int

const (
	Skipped Result = iota
	ResolveFailed
	Rejected
	PatternMissing
	Updated
)

func (r Result) String() string {
	switch r {
	case Skipped:
		return "skipped"
	case ResolveFailed:
		return "resolve-failed"
	case Rejected:
		return "rejected"
	case PatternMissing:
		return "pattern-missing"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

type Syncer struct {
	resolver Resolver
	pattern  *placeholder.Pattern
}

func New(resolver Resolver, pattern *placeholder.Pattern) *Syncer {
	if pattern == nil {
		pattern = placeholder.Default()
	}
	return &Syncer{resolver: resolver, pattern: pattern}
}

// Sync resolves shopID and rewrites the URL slot in buf. It adds no timeout
// and never retries.
func (s *Syncer) Sync(ctx context.Context, shopID string, buf Buffer) Result {
	if shopID == "" {
		return Skipped
	}

	res, err := s.resolver.Resolve(ctx, shopID)
	if err != nil {
		logger.Error().Err(err).Str("shop_id", shopID).Msg("Error updating shop URL")
		return ResolveFailed
	}
	if !res.Success {
		logger.Error().Str("shop_id", shopID).Msg("Failed to update shop URL")
		return Rejected
	}

	// Read the text after the round trip so edits made meanwhile are kept.
	updated, found := s.pattern.Replace(buf.Text(), res.URL)
	if !found {
		logger.Info().Str("shop_id", shopID).Msg("URL pattern not found, skipping auto-update")
		return PatternMissing
	}
	buf.SetText(updated)
	logger.Debug().Str("shop_id", shopID).Str("url", res.URL).Msg("shop URL updated")
	return Updated
}

// Go runs Sync on its own goroutine. Concurrent syncs on one buffer are not
// serialized; whichever resolves last wins.
func (s *Syncer) Go(ctx context.Context, shopID string, buf Buffer) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		done <- s.Sync(ctx, shopID, buf)
	}()
	return done
}

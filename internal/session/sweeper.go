package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// StaleDeleter removes sessions idle since a cutoff.
type StaleDeleter interface {
	DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper expires sessions that have been idle longer than ttl.
type Sweeper struct {
	store  StaleDeleter
	ttl    time.Duration
	poll   time.Duration
	clock  Clock
	logger *slog.Logger
}

// NewSweeper creates a Sweeper. If pollInterval is <= 0 it defaults to a
// tenth of ttl, bounded below by one second.
func NewSweeper(store StaleDeleter, ttl, pollInterval time.Duration) *Sweeper {
	if pollInterval <= 0 {
		pollInterval = max(ttl/10, time.Second)
	}
	return &Sweeper{
		store:  store,
		ttl:    ttl,
		poll:   pollInterval,
		clock:  realClock{},
		logger: slog.Default(),
	}
}

// Run sweeps until ctx is cancelled.
func (w *Sweeper) Run(ctx context.Context) error {
	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.logger.Error("session sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.poll):
		}
	}
}

// RunOnce deletes expired sessions and returns how many were removed.
func (w *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	n, err := w.store.DeleteSessionsBefore(ctx, w.clock.Now().Add(-w.ttl))
	if err != nil {
		return 0, fmt.Errorf("sweeping sessions: %w", err)
	}
	if n > 0 {
		w.logger.Debug("expired idle sessions", "count", n)
	}
	return n, nil
}

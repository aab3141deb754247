package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/blockext/internal/extension"
)

type snapshotFetcher interface {
	FetchSnapshot(ctx context.Context) (extension.Snapshot, error)
}

// resyncer fetches full snapshots on request and hands them to apply.
// Requests made while a fetch is already queued collapse into one. A failed
// fetch is retried after retryDelay until it succeeds or ctx ends.
type resyncer struct {
	remote     snapshotFetcher
	apply      func(extension.Message)
	logger     *slog.Logger
	retryDelay time.Duration
	trigger    chan struct{}
}

func newResyncer(remote snapshotFetcher, apply func(extension.Message), logger *slog.Logger, retryDelay time.Duration) *resyncer {
	return &resyncer{
		remote:     remote,
		apply:      apply,
		logger:     logger.With("component", "resync"),
		retryDelay: retryDelay,
		trigger:    make(chan struct{}, 1),
	}
}

// Request schedules a snapshot fetch without blocking.
func (r *resyncer) Request() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

func (r *resyncer) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.trigger:
		}
		for failures := 0; ; failures++ {
			err := r.refresh(ctx)
			if err == nil || ctx.Err() != nil {
				break
			}
			r.logger.Warn("snapshot fetch failed", "error", err, "failures", failures+1, "retry_in", r.retryDelay)
			timer := time.NewTimer(r.retryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}
}

func (r *resyncer) refresh(ctx context.Context) error {
	snap, err := r.remote.FetchSnapshot(ctx)
	if err != nil {
		return err
	}
	r.logger.Debug("snapshot fetched", "fixed", len(snap.Fixed), "custom", len(snap.Custom), "count", snap.Count)
	r.apply(extension.SnapshotMessage(snap))
	return nil
}

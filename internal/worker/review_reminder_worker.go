package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/replaygear/replay_api/internal/repository"
)

// ReviewReminderWorker periodically checks for sell requests that have
// been waiting for an administrator decision too long and logs a
// warning so the backlog shows up in monitoring.
type ReviewReminderWorker struct {
	requestRepo *repository.SellRequestRepository
	interval    time.Duration
	maxAge      time.Duration
}

// NewReviewReminderWorker constructs a ReviewReminderWorker.
func NewReviewReminderWorker(requestRepo *repository.SellRequestRepository, interval, maxAge time.Duration) *ReviewReminderWorker {
	return &ReviewReminderWorker{
		requestRepo: requestRepo,
		interval:    interval,
		maxAge:      maxAge,
	}
}

// Start begins the periodic check loop until context is canceled.
func (w *ReviewReminderWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Dur("max_age", w.maxAge).Msg("Starting review reminder worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Review reminder worker stopped")
			return
		}
	}
}

func (w *ReviewReminderWorker) run(ctx context.Context) {
	count, err := w.requestRepo.CountPendingOlderThan(ctx, w.maxAge)
	if err != nil {
		log.Error().Err(err).Msg("Failed to count stale pending sell requests")
		return
	}
	if count == 0 {
		return
	}

	log.Warn().
		Int("count", count).
		Dur("max_age", w.maxAge).
		Msg("Sell requests waiting for review past the reminder age")
}

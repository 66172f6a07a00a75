package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sketch2photo-backend/internal/logger"
	"sketch2photo-backend/internal/models"
)

// DefaultPollInterval matches the refresh cadence the dashboard used.
const DefaultPollInterval = 5 * time.Second

// SketchWatcher re-reads a sketch record on a fixed interval while it
// is non-terminal. Each Watch call owns one polling loop, cancelled by
// its context; nothing keeps polling once the status is terminal or the
// subscriber goes away.
type SketchWatcher struct {
	store    SketchStore
	interval time.Duration
	log      *logger.Logger
}

func NewSketchWatcher(store SketchStore, interval time.Duration, log *logger.Logger) *SketchWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &SketchWatcher{
		store:    store,
		interval: interval,
		log:      log,
	}
}

// Watch emits the current record immediately, then once per interval.
// The channel is closed after a terminal status has been delivered, on
// context cancellation, or when the record can no longer be read.
func (w *SketchWatcher) Watch(ctx context.Context, sketchID, userID uuid.UUID) <-chan *models.Sketch {
	updates := make(chan *models.Sketch, 1)

	go func() {
		defer close(updates)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			sketch, err := w.store.GetSketch(sketchID, userID)
			if err != nil {
				w.log.Warn("watch poll failed", "sketch_id", sketchID, "error", err)
				return
			}

			select {
			case updates <- sketch:
			case <-ctx.Done():
				return
			}

			if sketch.Status.Terminal() {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates
}

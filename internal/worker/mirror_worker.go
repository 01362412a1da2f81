// Package worker copies the primary dataset to the spreadsheet mirror.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"hrtool/internal/amqp"
	"hrtool/internal/dataset"
	"hrtool/internal/metrics"
)

// MirrorWorker rewrites the mirror backend from the primary store whenever
// the dataset changes, and periodically as a backstop for lost messages.
type MirrorWorker struct {
	primary dataset.Loader
	mirror  dataset.Backend

	mu         sync.Mutex
	lastMirror time.Time
}

func NewMirrorWorker(primary dataset.Loader, mirror dataset.Backend) *MirrorWorker {
	return &MirrorWorker{primary: primary, mirror: mirror}
}

// HandleSavedMessage mirrors the dataset for one change notification.
// Messages older than the last completed mirror are acknowledged without
// work: that mirror already read a dataset at least as new.
func (w *MirrorWorker) HandleSavedMessage(ctx context.Context, msg *amqp.DatasetSavedMessage) error {
	if last := w.LastMirror(); !last.IsZero() && msg.Timestamp.Before(last) {
		slog.DebugContext(ctx, "Skipping stale dataset saved message",
			"message_id", msg.ID,
			"timestamp", msg.Timestamp,
			"last_mirror", last)
		return nil
	}

	slog.InfoContext(ctx, "Processing dataset saved message",
		"message_id", msg.ID,
		"rows", msg.Rows,
		"reason", msg.Reason)

	return w.Mirror(ctx)
}

// Mirror copies the current dataset to the mirror backend.
func (w *MirrorWorker) Mirror(ctx context.Context) error {
	timer := prometheus.NewTimer(metrics.MirrorDuration)
	defer timer.ObserveDuration()

	started := time.Now()
	table, err := w.primary.Load(ctx)
	if err != nil {
		metrics.MirrorFailures.Inc()
		return fmt.Errorf("load primary dataset: %w", err)
	}

	if err := w.mirror.Write(ctx, table.Persisted()); err != nil {
		metrics.MirrorFailures.Inc()
		return fmt.Errorf("write mirror: %w", err)
	}

	w.mu.Lock()
	w.lastMirror = started
	w.mu.Unlock()
	metrics.MirrorSyncs.Inc()

	slog.InfoContext(ctx, "Dataset mirrored", "rows", table.Len())
	return nil
}

// LastMirror returns the start time of the last successful mirror.
func (w *MirrorWorker) LastMirror() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastMirror
}

// RunPeriodic mirrors every interval until ctx is done. Failures are logged
// and retried at the next tick.
func (w *MirrorWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Mirror(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic mirror failed", "error", err)
			}
		}
	}
}

package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dcastrillonv/parqueadero/internal/repository"
)

// OccupancySource reports the current state of the grid.
type OccupancySource interface {
	Occupancy(ctx context.Context) (*repository.OccupancySummary, error)
}

// MailEnqueuer queues a notification email for asynchronous delivery.
type MailEnqueuer interface {
	Enqueue(ctx context.Context, recipient, subject, body string) error
}

// Worker watches lot occupancy and notifies the operator by email when the
// occupied ratio crosses the configured threshold. A cooldown keeps a full
// lot from producing a mail per tick; the cooldown resets once occupancy
// drops back under the threshold.
type Worker struct {
	occupancy OccupancySource
	mail      MailEnqueuer
	logger    *slog.Logger
	threshold float64
	recipient string
	interval  time.Duration
	cooldown  time.Duration
	lastAlert time.Time
	now       func() time.Time
}

func NewWorker(occupancy OccupancySource, mail MailEnqueuer, logger *slog.Logger, threshold float64, recipient string) *Worker {
	return &Worker{
		occupancy: occupancy,
		mail:      mail,
		logger:    logger,
		threshold: threshold,
		recipient: recipient,
		interval:  time.Minute,
		cooldown:  30 * time.Minute,
		now:       time.Now,
	}
}

// WithClock overrides the time source, used by tests
func (w *Worker) WithClock(now func() time.Time) *Worker {
	w.now = now
	return w
}

// WithCooldown overrides the alert cooldown
func (w *Worker) WithCooldown(cooldown time.Duration) *Worker {
	w.cooldown = cooldown
	return w
}

func (w *Worker) Start(ctx context.Context) {
	if w.threshold <= 0 || w.recipient == "" {
		w.logger.Info("occupancy alerts disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("occupancy alert worker started",
		"interval", w.interval,
		"threshold", w.threshold,
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("occupancy alert worker stopped")
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *Worker) check(ctx context.Context) {
	summary, err := w.occupancy.Occupancy(ctx)
	if err != nil {
		w.logger.Error("failed to read occupancy", "error", err)
		return
	}

	if summary.Total == 0 {
		return
	}

	ratio := float64(summary.Occupied) / float64(summary.Total)
	if ratio < w.threshold {
		// Back under the threshold, re-arm the alert.
		w.lastAlert = time.Time{}
		return
	}

	now := w.now()
	if !w.lastAlert.IsZero() && now.Sub(w.lastAlert) < w.cooldown {
		w.logger.Debug("occupancy alert in cooldown",
			"last_alert", w.lastAlert,
		)
		return
	}

	subject := fmt.Sprintf("Parqueadero al %.0f%% de ocupación", ratio*100)
	body := fmt.Sprintf(
		"El parqueadero alcanzó %d de %d espacios ocupados (%.0f%%).\n\nDisponibles: %d\nReservados: %d\nEn mantenimiento: %d\n",
		summary.Occupied, summary.Total, ratio*100,
		summary.Available, summary.Reserved, summary.Maintenance,
	)

	if err := w.mail.Enqueue(ctx, w.recipient, subject, body); err != nil {
		w.logger.Error("failed to enqueue occupancy alert", "error", err)
		return
	}

	w.lastAlert = now
	w.logger.Info("occupancy alert sent",
		"occupied", summary.Occupied,
		"total", summary.Total,
		"recipient", w.recipient,
	)
}

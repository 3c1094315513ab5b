package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const maxAttempts = 5

// Worker drains the mail queue. Jobs are claimed by flipping PENDING rows
// to SENDING in a single statement (SKIP LOCKED in the subquery), so several
// instances can poll the same table without double sends. Failed sends go
// back to PENDING with a later next_attempt_at.
type Worker struct {
	db     DB
	sender Sender
	logger *slog.Logger
	stopCh chan struct{}
}

func NewWorker(db DB, sender Sender, logger *slog.Logger) *Worker {
	return &Worker{
		db:     db,
		sender: sender,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	w.logger.Info("mail worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("mail worker stopped")
			return
		case <-w.stopCh:
			w.logger.Info("mail worker stopped")
			return
		case <-ticker.C:
			if err := w.processQueue(ctx); err != nil {
				w.logger.Error("failed to process mail queue", "error", err)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) processQueue(ctx context.Context) error {
	query := `
		UPDATE mail_queue
		SET status = 'SENDING', updated_at = NOW()
		WHERE id IN (
			SELECT id
			FROM mail_queue
			WHERE status = 'PENDING' AND next_attempt_at <= NOW()
			ORDER BY created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 10
		)
		RETURNING id, recipient, subject, body, attempts
	`

	rows, err := w.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("query mail queue: %w", err)
	}
	defer rows.Close()

	var jobs []Message
	for rows.Next() {
		var job Message
		if err := rows.Scan(&job.ID, &job.Recipient, &job.Subject, &job.Body, &job.Attempts); err != nil {
			w.logger.Error("failed to scan mail job", "error", err)
			continue
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate mail queue: %w", err)
	}

	for i := range jobs {
		if err := w.processJob(ctx, &jobs[i]); err != nil {
			w.logger.Error("failed to process mail job",
				"job_id", jobs[i].ID,
				"attempts", jobs[i].Attempts,
				"error", err,
			)
		}
	}

	return nil
}

func (w *Worker) processJob(ctx context.Context, job *Message) error {
	if err := w.sender.Send(ctx, job.Recipient, job.Subject, job.Body); err != nil {
		return w.scheduleRetry(ctx, job, err.Error())
	}

	return w.markSent(ctx, job.ID)
}

func (w *Worker) scheduleRetry(ctx context.Context, job *Message, errorMsg string) error {
	if job.Attempts+1 >= maxAttempts {
		return w.markFailed(ctx, job.ID, errorMsg)
	}

	delay := time.Duration(1<<job.Attempts) * time.Second
	nextAttempt := time.Now().Add(delay)

	query := `
		UPDATE mail_queue
		SET status = 'PENDING',
		    attempts = attempts + 1,
		    next_attempt_at = $1,
		    last_error = $2,
		    updated_at = NOW()
		WHERE id = $3
	`

	_, err := w.db.Exec(ctx, query, nextAttempt, errorMsg, job.ID)
	if err != nil {
		return fmt.Errorf("schedule retry: %w", err)
	}

	w.logger.Info("mail job scheduled for retry",
		"job_id", job.ID,
		"attempts", job.Attempts+1,
		"next_attempt", nextAttempt,
	)

	return nil
}

func (w *Worker) markSent(ctx context.Context, jobID uuid.UUID) error {
	query := `
		UPDATE mail_queue
		SET status = 'SENT',
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := w.db.Exec(ctx, query, jobID)
	if err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}

	w.logger.Info("mail job delivered", "job_id", jobID)
	return nil
}

func (w *Worker) markFailed(ctx context.Context, jobID uuid.UUID, errorMsg string) error {
	query := `
		UPDATE mail_queue
		SET status = 'FAILED',
		    attempts = attempts + 1,
		    last_error = $1,
		    updated_at = NOW()
		WHERE id = $2
	`

	_, err := w.db.Exec(ctx, query, errorMsg, jobID)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}

	w.logger.Warn("mail job failed permanently", "job_id", jobID, "error", errorMsg)
	return nil
}

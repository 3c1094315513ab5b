package mailer

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the slice of pgxpool.Pool the mailer needs. pgxmock satisfies it too.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Service enqueues receipt emails for asynchronous delivery
type Service struct {
	db DB
}

func NewService(db DB) *Service {
	return &Service{db: db}
}

// Enqueue stores the email in the queue; the worker picks it up later.
func (s *Service) Enqueue(ctx context.Context, recipient, subject, body string) error {
	query := `
		INSERT INTO mail_queue (recipient, subject, body)
		VALUES ($1, $2, $3)
	`

	if _, err := s.db.Exec(ctx, query, recipient, subject, body); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}

	return nil
}

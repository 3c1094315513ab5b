package mailer

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastrillonv/parqueadero/internal/domain"
)

type fakeSender struct {
	err   error
	sent  []string
	calls int
}

func (f *fakeSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestService_Enqueue(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO mail_queue`).
		WithArgs("cliente@example.com", "Recibo REC-20250901-00001 - Placa ABC123", "<h2>...</h2>").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	svc := NewService(mock)
	err = svc.Enqueue(context.Background(), "cliente@example.com",
		"Recibo REC-20250901-00001 - Placa ABC123", "<h2>...</h2>")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorker_ProcessQueue_SendsAndMarksSent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	jobID := uuid.New()

	rows := pgxmock.NewRows([]string{"id", "recipient", "subject", "body", "attempts"}).
		AddRow(jobID, "cliente@example.com", "Recibo", "<h2>...</h2>", 0)

	mock.ExpectQuery(`SET status = 'SENDING'`).
		WillReturnRows(rows)
	mock.ExpectExec(`SET status = 'SENT'`).
		WithArgs(jobID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	sender := &fakeSender{}
	w := NewWorker(mock, sender, testLogger())

	require.NoError(t, w.processQueue(context.Background()))
	assert.Equal(t, []string{"cliente@example.com"}, sender.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorker_ProcessQueue_SchedulesRetryOnFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	jobID := uuid.New()

	rows := pgxmock.NewRows([]string{"id", "recipient", "subject", "body", "attempts"}).
		AddRow(jobID, "cliente@example.com", "Recibo", "<h2>...</h2>", 1)

	// A failed send goes back to PENDING so the next poll can claim it again.
	mock.ExpectQuery(`SET status = 'SENDING'`).
		WillReturnRows(rows)
	mock.ExpectExec(`SET status = 'PENDING'`).
		WithArgs(pgxmock.AnyArg(), "mailer returned HTTP 502", jobID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	sender := &fakeSender{err: errors.New("mailer returned HTTP 502")}
	w := NewWorker(mock, sender, testLogger())

	require.NoError(t, w.processQueue(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorker_ProcessQueue_MarksFailedAfterMaxAttempts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	jobID := uuid.New()

	rows := pgxmock.NewRows([]string{"id", "recipient", "subject", "body", "attempts"}).
		AddRow(jobID, "cliente@example.com", "Recibo", "<h2>...</h2>", maxAttempts-1)

	mock.ExpectQuery(`SET status = 'SENDING'`).
		WillReturnRows(rows)
	mock.ExpectExec(`SET status = 'FAILED'`).
		WithArgs("smtp rejected", jobID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	sender := &fakeSender{err: errors.New("smtp rejected")}
	w := NewWorker(mock, sender, testLogger())

	require.NoError(t, w.processQueue(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildReceiptEmail(t *testing.T) {
	entry := time.Date(2025, 7, 4, 8, 0, 0, 0, time.Local)
	exit := entry.Add(150 * time.Minute)

	vehicle := &domain.Vehicle{
		Plate:     "ABC123",
		EntryTime: entry,
		ExitTime:  &exit,
	}
	payment := &domain.Payment{
		ReceiptNumber:  "REC-20250704-00042",
		Method:         domain.MethodCash,
		DurationHours:  decimal.RequireFromString("2.50"),
		Subtotal:       decimal.NewFromInt(9000),
		DiscountAmount: decimal.NewFromInt(900),
		Total:          decimal.NewFromInt(8100),
		RateApplied:    domain.AppliedRate{Name: "Carro por hora"},
	}

	subject, body, err := BuildReceiptEmail(payment, vehicle)
	require.NoError(t, err)

	assert.Equal(t, "Recibo REC-20250704-00042 - Placa ABC123", subject)
	assert.Contains(t, body, "REC-20250704-00042")
	assert.Contains(t, body, "ABC123")
	assert.Contains(t, body, "2.50 horas")
	assert.Contains(t, body, "Carro por hora")
	assert.Contains(t, body, "Descuento")
	assert.Contains(t, body, "8100.00")
}

func TestBuildReceiptEmail_NoDiscount(t *testing.T) {
	entry := time.Date(2025, 7, 4, 8, 0, 0, 0, time.Local)
	exit := entry.Add(time.Hour)

	vehicle := &domain.Vehicle{Plate: "ABC123", EntryTime: entry, ExitTime: &exit}
	payment := &domain.Payment{
		ReceiptNumber: "REC-20250704-00001",
		Method:        domain.MethodCard,
		DurationHours: decimal.NewFromInt(1),
		Subtotal:      decimal.NewFromInt(3000),
		Total:         decimal.NewFromInt(3000),
		RateApplied:   domain.AppliedRate{Name: "Carro por hora"},
	}

	_, body, err := BuildReceiptEmail(payment, vehicle)
	require.NoError(t, err)
	assert.NotContains(t, body, "Descuento")
}

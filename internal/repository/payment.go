package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dcastrillonv/parqueadero/internal/domain"
)

type PaymentRepository struct {
	pool PgxPool
}

func NewPaymentRepository(pool PgxPool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, vehicle_id, receipt_number, method, status, duration_hours,
		billed_hours, subtotal, discount, total, rate_applied, notes, paid_at, refunded_at, refund_reason`

func scanPayment(row pgx.Row, p *domain.Payment) error {
	var refundReason *string
	err := row.Scan(
		&p.ID,
		&p.VehicleID,
		&p.ReceiptNumber,
		&p.Method,
		&p.Status,
		&p.DurationHours,
		&p.BilledHours,
		&p.Subtotal,
		&p.DiscountAmount,
		&p.Total,
		&p.RateApplied,
		&p.Notes,
		&p.PaidAt,
		&p.RefundedAt,
		&refundReason,
	)
	if refundReason != nil {
		p.RefundReason = *refundReason
	}
	return err
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, vehicle_id, receipt_number, method, status, duration_hours,
			billed_hours, subtotal, discount, total, rate_applied, notes, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.Status == "" {
		payment.Status = domain.PaymentPaid
	}
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, query,
		payment.ID,
		payment.VehicleID,
		payment.ReceiptNumber,
		payment.Method,
		payment.Status,
		payment.DurationHours,
		payment.BilledHours,
		payment.Subtotal,
		payment.DiscountAmount,
		payment.Total,
		payment.RateApplied,
		payment.Notes,
		payment.PaidAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrReceiptConflict
		}
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var payment domain.Payment
	err := scanPayment(r.pool.QueryRow(ctx, query, id), &payment)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment by id: %w", err)
	}

	return &payment, nil
}

func (r *PaymentRepository) GetLatestByVehicle(ctx context.Context, vehicleID uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE vehicle_id = $1
		ORDER BY paid_at DESC
		LIMIT 1
	`

	var payment domain.Payment
	err := scanPayment(r.pool.QueryRow(ctx, query, vehicleID), &payment)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest payment by vehicle: %w", err)
	}

	return &payment, nil
}

func (r *PaymentRepository) List(ctx context.Context, filter PaymentFilter) ([]domain.Payment, int, error) {
	where := ` WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Method != "" {
		args = append(args, filter.Method)
		where += fmt.Sprintf(" AND method = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += fmt.Sprintf(" AND paid_at >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += fmt.Sprintf(" AND paid_at <= $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payments`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	query := `SELECT ` + paymentColumns + ` FROM payments` + where +
		fmt.Sprintf(` ORDER BY paid_at DESC LIMIT $%d`, len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := scanPayment(rows, &payment); err != nil {
			return nil, 0, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate payments: %w", err)
	}

	return payments, total, nil
}

func (r *PaymentRepository) Refund(ctx context.Context, id uuid.UUID, reason string, at time.Time) (*domain.Payment, error) {
	query := `
		UPDATE payments
		SET status = $2, refunded_at = $3, refund_reason = $4
		WHERE id = $1 AND status <> $2
		RETURNING ` + paymentColumns + `
	`

	var payment domain.Payment
	err := scanPayment(r.pool.QueryRow(ctx, query, id, domain.PaymentRefunded, at, reason), &payment)

	if errors.Is(err, pgx.ErrNoRows) {
		// Either missing or already refunded; let the service disambiguate.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrPaymentAlreadyRefunded
	}
	if err != nil {
		return nil, fmt.Errorf("refund payment: %w", err)
	}

	return &payment, nil
}

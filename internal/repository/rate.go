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

type RateRepository struct {
	pool PgxPool
}

func NewRateRepository(pool PgxPool) *RateRepository {
	return &RateRepository{pool: pool}
}

const rateColumns = `id, name, description, vehicle_class, billing_scheme, unit_amount,
		minimum_hours, active_from, active_until, is_active, created_at, updated_at`

func scanRate(row pgx.Row, rate *domain.Rate) error {
	return row.Scan(
		&rate.ID,
		&rate.Name,
		&rate.Description,
		&rate.VehicleClass,
		&rate.Scheme,
		&rate.UnitAmount,
		&rate.MinimumHours,
		&rate.ActiveFrom,
		&rate.ActiveUntil,
		&rate.IsActive,
		&rate.CreatedAt,
		&rate.UpdatedAt,
	)
}

func (r *RateRepository) Create(ctx context.Context, rate *domain.Rate) error {
	query := `
		INSERT INTO rates (id, name, description, vehicle_class, billing_scheme, unit_amount,
			minimum_hours, active_from, active_until, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if rate.ID == uuid.Nil {
		rate.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		rate.ID,
		rate.Name,
		rate.Description,
		rate.VehicleClass,
		rate.Scheme,
		rate.UnitAmount,
		rate.MinimumHours,
		rate.ActiveFrom,
		rate.ActiveUntil,
		rate.IsActive,
	).Scan(&rate.CreatedAt, &rate.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create rate: %w", err)
	}

	return nil
}

func (r *RateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rate, error) {
	query := `SELECT ` + rateColumns + ` FROM rates WHERE id = $1`

	var rate domain.Rate
	err := scanRate(r.pool.QueryRow(ctx, query, id), &rate)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get rate by id: %w", err)
	}

	return &rate, nil
}

func (r *RateRepository) List(ctx context.Context, filter RateFilter) ([]domain.Rate, error) {
	query := `SELECT ` + rateColumns + ` FROM rates WHERE 1=1`
	args := []any{}

	if filter.VehicleClass != nil {
		args = append(args, *filter.VehicleClass)
		query += fmt.Sprintf(" AND vehicle_class = $%d", len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}

	query += ` ORDER BY is_active DESC, vehicle_class ASC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	defer rows.Close()

	return collectRates(rows)
}

// ListActiveByClass returns the applicable catalog for one vehicle class.
// The created_at,id ordering makes equal-subtotal tie-breaking in the rate
// selector deterministic across database engines.
func (r *RateRepository) ListActiveByClass(ctx context.Context, class domain.VehicleClass, now time.Time) ([]domain.Rate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM rates
		WHERE vehicle_class = $1
		  AND is_active = true
		  AND (active_from IS NULL OR active_from <= $2)
		  AND (active_until IS NULL OR active_until >= $2)
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, class, now)
	if err != nil {
		return nil, fmt.Errorf("list active rates: %w", err)
	}
	defer rows.Close()

	return collectRates(rows)
}

func (r *RateRepository) Update(ctx context.Context, rate *domain.Rate) error {
	query := `
		UPDATE rates
		SET name = $2, description = $3, unit_amount = $4, minimum_hours = $5,
			active_from = $6, active_until = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		rate.ID,
		rate.Name,
		rate.Description,
		rate.UnitAmount,
		rate.MinimumHours,
		rate.ActiveFrom,
		rate.ActiveUntil,
		rate.IsActive,
	).Scan(&rate.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrRateNotFound
	}
	if err != nil {
		return fmt.Errorf("update rate: %w", err)
	}

	return nil
}

// Deactivate is the soft delete: rates referenced by historical payments are
// never removed, only taken out of the applicable set.
func (r *RateRepository) Deactivate(ctx context.Context, id uuid.UUID) (*domain.Rate, error) {
	query := `
		UPDATE rates
		SET is_active = false, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + rateColumns + `
	`

	var rate domain.Rate
	err := scanRate(r.pool.QueryRow(ctx, query, id), &rate)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("deactivate rate: %w", err)
	}

	return &rate, nil
}

func collectRates(rows pgx.Rows) ([]domain.Rate, error) {
	var rates []domain.Rate
	for rows.Next() {
		var rate domain.Rate
		if err := scanRate(rows, &rate); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rates: %w", err)
	}
	return rates, nil
}

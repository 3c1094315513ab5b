package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dcastrillonv/parqueadero/internal/domain"
)

type ReportRepository struct {
	pool PgxPool
}

func NewReportRepository(pool PgxPool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

func (r *ReportRepository) RevenueByDay(ctx context.Context, from, to time.Time) ([]RevenueRow, error) {
	query := `
		SELECT date_trunc('day', paid_at) AS day, COUNT(*), COALESCE(SUM(total), 0)
		FROM payments
		WHERE status = $1 AND paid_at >= $2 AND paid_at <= $3
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := r.pool.Query(ctx, query, domain.PaymentPaid, from, to)
	if err != nil {
		return nil, fmt.Errorf("revenue by day: %w", err)
	}
	defer rows.Close()

	var result []RevenueRow
	for rows.Next() {
		var row RevenueRow
		if err := rows.Scan(&row.Day, &row.Count, &row.Total); err != nil {
			return nil, fmt.Errorf("scan revenue row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revenue rows: %w", err)
	}

	return result, nil
}

func (r *ReportRepository) PaymentStats(ctx context.Context, now time.Time) (*PaymentStats, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &PaymentStats{}

	query := `
		SELECT
			COALESCE(SUM(total) FILTER (WHERE status = $1 AND paid_at >= $2), 0),
			COUNT(*) FILTER (WHERE status = $1 AND paid_at >= $2),
			COALESCE(SUM(total) FILTER (WHERE status = $1 AND paid_at >= $3), 0),
			COUNT(*) FILTER (WHERE status = $1 AND paid_at >= $3),
			COUNT(*)
		FROM payments
	`

	err := r.pool.QueryRow(ctx, query, domain.PaymentPaid, startOfDay, startOfMonth).Scan(
		&stats.TodayTotal,
		&stats.TodayCount,
		&stats.MonthTotal,
		&stats.MonthCount,
		&stats.TotalPayments,
	)
	if err != nil {
		return nil, fmt.Errorf("payment stats: %w", err)
	}

	byMethod := `
		SELECT method, COUNT(*), COALESCE(SUM(total), 0)
		FROM payments
		WHERE status = $1
		GROUP BY method
		ORDER BY method ASC
	`

	rows, err := r.pool.Query(ctx, byMethod, domain.PaymentPaid)
	if err != nil {
		return nil, fmt.Errorf("payment stats by method: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mt MethodTotal
		if err := rows.Scan(&mt.Method, &mt.Count, &mt.Total); err != nil {
			return nil, fmt.Errorf("scan method total: %w", err)
		}
		stats.ByMethod = append(stats.ByMethod, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate method totals: %w", err)
	}

	return stats, nil
}

func (r *ReportRepository) Occupancy(ctx context.Context) (*OccupancySummary, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE state = $1),
			COUNT(*) FILTER (WHERE state = $2),
			COUNT(*) FILTER (WHERE state = $3),
			COUNT(*) FILTER (WHERE state = $4)
		FROM parking_spaces
	`

	var summary OccupancySummary
	err := r.pool.QueryRow(ctx, query,
		domain.SpaceAvailable, domain.SpaceOccupied, domain.SpaceReserved, domain.SpaceMaintenance,
	).Scan(
		&summary.Total,
		&summary.Available,
		&summary.Occupied,
		&summary.Reserved,
		&summary.Maintenance,
	)
	if err != nil {
		return nil, fmt.Errorf("occupancy summary: %w", err)
	}

	return &summary, nil
}

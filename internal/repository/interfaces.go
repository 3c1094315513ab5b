package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/dcastrillonv/parqueadero/internal/domain"
)

// PgxPool is the narrow slice of pgxpool.Pool the repositories need. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same repository code runs
// standalone or inside the settle transaction, and pgxmock can stand in for
// either in tests.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RateRepositoryInterface defines operations for the rate catalog
type RateRepositoryInterface interface {
	Create(ctx context.Context, rate *domain.Rate) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Rate, error)
	List(ctx context.Context, filter RateFilter) ([]domain.Rate, error)
	ListActiveByClass(ctx context.Context, class domain.VehicleClass, now time.Time) ([]domain.Rate, error)
	Update(ctx context.Context, rate *domain.Rate) error
	Deactivate(ctx context.Context, id uuid.UUID) (*domain.Rate, error)
}

// VehicleRepositoryInterface defines operations for vehicle stays
type VehicleRepositoryInterface interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)
	GetActiveByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)
	ListActive(ctx context.Context) ([]domain.Vehicle, error)
	MarkExited(ctx context.Context, id uuid.UUID, exitTime time.Time, observations string) (*domain.Vehicle, error)
}

// SpaceRepositoryInterface defines operations for the parking grid
type SpaceRepositoryInterface interface {
	Create(ctx context.Context, space *domain.ParkingSpace) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSpace, error)
	List(ctx context.Context) ([]domain.ParkingSpace, error)
	FirstAvailable(ctx context.Context) (*domain.ParkingSpace, error)
	Update(ctx context.Context, space *domain.ParkingSpace) error
	Occupy(ctx context.Context, id, vehicleID uuid.UUID) error
	Release(ctx context.Context, id uuid.UUID) error
	ReleaseByVehicle(ctx context.Context, vehicleID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentRepositoryInterface defines operations for settled payments
type PaymentRepositoryInterface interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	GetLatestByVehicle(ctx context.Context, vehicleID uuid.UUID) (*domain.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]domain.Payment, int, error)
	Refund(ctx context.Context, id uuid.UUID, reason string, at time.Time) (*domain.Payment, error)
}

// RateFilter narrows rate listings
type RateFilter struct {
	VehicleClass *domain.VehicleClass
	IsActive     *bool
}

// PaymentFilter narrows payment listings
type PaymentFilter struct {
	Status    string
	Method    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// RevenueRow is one day of settled revenue
type RevenueRow struct {
	Day   time.Time       `json:"day"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// MethodTotal aggregates settled payments by payment method
type MethodTotal struct {
	Method string          `json:"method"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// PaymentStats is the dashboard summary of settled payments
type PaymentStats struct {
	TodayTotal    decimal.Decimal `json:"today_total"`
	TodayCount    int             `json:"today_count"`
	MonthTotal    decimal.Decimal `json:"month_total"`
	MonthCount    int             `json:"month_count"`
	TotalPayments int             `json:"total_payments"`
	ByMethod      []MethodTotal   `json:"by_method"`
}

// OccupancySummary counts grid slots by state
type OccupancySummary struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Occupied    int `json:"occupied"`
	Reserved    int `json:"reserved"`
	Maintenance int `json:"maintenance"`
}

// ReportRepositoryInterface defines the reporting aggregates
type ReportRepositoryInterface interface {
	RevenueByDay(ctx context.Context, from, to time.Time) ([]RevenueRow, error)
	PaymentStats(ctx context.Context, now time.Time) (*PaymentStats, error)
	Occupancy(ctx context.Context) (*OccupancySummary, error)
}

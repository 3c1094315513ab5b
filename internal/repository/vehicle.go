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

type VehicleRepository struct {
	pool PgxPool
}

func NewVehicleRepository(pool PgxPool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

const vehicleColumns = `id, plate, vehicle_class, color, brand, model, owner_name, owner_phone,
		owner_email, space_id, observations, status, entry_time, exit_time, created_at, updated_at`

func scanVehicle(row pgx.Row, v *domain.Vehicle) error {
	return row.Scan(
		&v.ID,
		&v.Plate,
		&v.Class,
		&v.Color,
		&v.Brand,
		&v.Model,
		&v.OwnerName,
		&v.OwnerPhone,
		&v.OwnerEmail,
		&v.SpaceID,
		&v.Observations,
		&v.Status,
		&v.EntryTime,
		&v.ExitTime,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, plate, vehicle_class, color, brand, model, owner_name,
			owner_phone, owner_email, space_id, observations, status, entry_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	if vehicle.Status == "" {
		vehicle.Status = domain.VehicleStatusActive
	}

	err := r.pool.QueryRow(ctx, query,
		vehicle.ID,
		vehicle.Plate,
		vehicle.Class,
		vehicle.Color,
		vehicle.Brand,
		vehicle.Model,
		vehicle.OwnerName,
		vehicle.OwnerPhone,
		vehicle.OwnerEmail,
		vehicle.SpaceID,
		vehicle.Observations,
		vehicle.Status,
		vehicle.EntryTime,
	).Scan(&vehicle.CreatedAt, &vehicle.UpdatedAt)

	if err != nil {
		// Partial unique index: one ACTIVE stay per plate.
		if isUniqueViolation(err) {
			return domain.ErrVehicleAlreadyParked
		}
		return fmt.Errorf("create vehicle: %w", err)
	}

	return nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	var vehicle domain.Vehicle
	err := scanVehicle(r.pool.QueryRow(ctx, query, id), &vehicle)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle by id: %w", err)
	}

	return &vehicle, nil
}

func (r *VehicleRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 AND status = $2`

	var vehicle domain.Vehicle
	err := scanVehicle(r.pool.QueryRow(ctx, query, id, domain.VehicleStatusActive), &vehicle)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get active vehicle by id: %w", err)
	}

	return &vehicle, nil
}

func (r *VehicleRepository) GetActiveByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE plate = $1 AND status = $2`

	var vehicle domain.Vehicle
	err := scanVehicle(r.pool.QueryRow(ctx, query, domain.NormalizePlate(plate), domain.VehicleStatusActive), &vehicle)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get active vehicle by plate: %w", err)
	}

	return &vehicle, nil
}

func (r *VehicleRepository) ListActive(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE status = $1 ORDER BY entry_time ASC`

	rows, err := r.pool.Query(ctx, query, domain.VehicleStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var vehicle domain.Vehicle
		if err := scanVehicle(rows, &vehicle); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicles: %w", err)
	}

	return vehicles, nil
}

func (r *VehicleRepository) MarkExited(ctx context.Context, id uuid.UUID, exitTime time.Time, observations string) (*domain.Vehicle, error) {
	query := `
		UPDATE vehicles
		SET status = $2, exit_time = $3,
			observations = CASE WHEN $4 <> '' THEN $4 ELSE observations END,
			updated_at = NOW()
		WHERE id = $1 AND status = $5
		RETURNING ` + vehicleColumns + `
	`

	var vehicle domain.Vehicle
	err := scanVehicle(r.pool.QueryRow(ctx, query,
		id, domain.VehicleStatusExited, exitTime, observations, domain.VehicleStatusActive,
	), &vehicle)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mark vehicle exited: %w", err)
	}

	return &vehicle, nil
}

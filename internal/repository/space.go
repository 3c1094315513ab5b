package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dcastrillonv/parqueadero/internal/domain"
)

type SpaceRepository struct {
	pool PgxPool
}

func NewSpaceRepository(pool PgxPool) *SpaceRepository {
	return &SpaceRepository{pool: pool}
}

const spaceColumns = `id, code, kind, state, grid_row, grid_col, vehicle_id, created_at, updated_at`

func scanSpace(row pgx.Row, s *domain.ParkingSpace) error {
	return row.Scan(
		&s.ID,
		&s.Code,
		&s.Kind,
		&s.State,
		&s.Row,
		&s.Col,
		&s.VehicleID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
}

func (r *SpaceRepository) Create(ctx context.Context, space *domain.ParkingSpace) error {
	query := `
		INSERT INTO parking_spaces (id, code, kind, state, grid_row, grid_col, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if space.ID == uuid.Nil {
		space.ID = uuid.New()
	}
	if space.State == "" {
		space.State = domain.SpaceAvailable
	}

	err := r.pool.QueryRow(ctx, query,
		space.ID,
		space.Code,
		space.Kind,
		space.State,
		space.Row,
		space.Col,
	).Scan(&space.CreatedAt, &space.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSpaceCodeExists
		}
		return fmt.Errorf("create space: %w", err)
	}

	return nil
}

func (r *SpaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces WHERE id = $1`

	var space domain.ParkingSpace
	err := scanSpace(r.pool.QueryRow(ctx, query, id), &space)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSpaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get space by id: %w", err)
	}

	return &space, nil
}

func (r *SpaceRepository) List(ctx context.Context) ([]domain.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces ORDER BY grid_row ASC, grid_col ASC, code ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	defer rows.Close()

	var spaces []domain.ParkingSpace
	for rows.Next() {
		var space domain.ParkingSpace
		if err := scanSpace(rows, &space); err != nil {
			return nil, fmt.Errorf("scan space: %w", err)
		}
		spaces = append(spaces, space)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spaces: %w", err)
	}

	return spaces, nil
}

// FirstAvailable picks the auto-assignment candidate in grid order.
func (r *SpaceRepository) FirstAvailable(ctx context.Context) (*domain.ParkingSpace, error) {
	query := `
		SELECT ` + spaceColumns + `
		FROM parking_spaces
		WHERE state = $1
		ORDER BY grid_row ASC, grid_col ASC, code ASC
		LIMIT 1
	`

	var space domain.ParkingSpace
	err := scanSpace(r.pool.QueryRow(ctx, query, domain.SpaceAvailable), &space)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoSpaceAvailable
	}
	if err != nil {
		return nil, fmt.Errorf("first available space: %w", err)
	}

	return &space, nil
}

func (r *SpaceRepository) Update(ctx context.Context, space *domain.ParkingSpace) error {
	query := `
		UPDATE parking_spaces
		SET code = $2, kind = $3, state = $4, grid_row = $5, grid_col = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		space.ID,
		space.Code,
		space.Kind,
		space.State,
		space.Row,
		space.Col,
	).Scan(&space.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrSpaceNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSpaceCodeExists
		}
		return fmt.Errorf("update space: %w", err)
	}

	return nil
}

// Occupy transitions an assignable space to OCCUPIED. The state guard in the
// WHERE clause makes concurrent assignment of the same slot lose cleanly.
func (r *SpaceRepository) Occupy(ctx context.Context, id, vehicleID uuid.UUID) error {
	query := `
		UPDATE parking_spaces
		SET state = $2, vehicle_id = $3, updated_at = NOW()
		WHERE id = $1 AND state IN ($4, $5)
	`

	tag, err := r.pool.Exec(ctx, query, id, domain.SpaceOccupied, vehicleID,
		domain.SpaceAvailable, domain.SpaceReserved)
	if err != nil {
		return fmt.Errorf("occupy space: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpaceNotAvailable
	}

	return nil
}

func (r *SpaceRepository) Release(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE parking_spaces
		SET state = $2, vehicle_id = NULL, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, domain.SpaceAvailable)
	if err != nil {
		return fmt.Errorf("release space: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpaceNotFound
	}

	return nil
}

// ReleaseByVehicle frees whatever slot the vehicle holds. Zero rows is not
// an error: not every stay has an assigned space.
func (r *SpaceRepository) ReleaseByVehicle(ctx context.Context, vehicleID uuid.UUID) error {
	query := `
		UPDATE parking_spaces
		SET state = $2, vehicle_id = NULL, updated_at = NOW()
		WHERE vehicle_id = $1
	`

	if _, err := r.pool.Exec(ctx, query, vehicleID, domain.SpaceAvailable); err != nil {
		return fmt.Errorf("release space by vehicle: %w", err)
	}

	return nil
}

func (r *SpaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM parking_spaces WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete space: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpaceNotFound
	}

	return nil
}

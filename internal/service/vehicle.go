package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dcastrillonv/parqueadero/internal/audit"
	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/ws"
)

// EntryRequest registers a vehicle entering the lot. SpaceID is optional:
// when absent the first available space in grid order is assigned.
type EntryRequest struct {
	Plate        string              `json:"plate"`
	Class        domain.VehicleClass `json:"vehicle_class"`
	Color        string              `json:"color,omitempty"`
	Brand        string              `json:"brand,omitempty"`
	Model        string              `json:"model,omitempty"`
	OwnerName    string              `json:"owner_name"`
	OwnerPhone   string              `json:"owner_phone,omitempty"`
	OwnerEmail   string              `json:"owner_email,omitempty"`
	SpaceID      *uuid.UUID          `json:"space_id,omitempty"`
	Observations string              `json:"observations,omitempty"`
	EntryTime    *time.Time          `json:"entry_time,omitempty"`
}

// ExitAuthorization is the barrier decision for a plate
type ExitAuthorization struct {
	Plate      string          `json:"plate"`
	Authorized bool            `json:"authorized"`
	Reason     string          `json:"reason,omitempty"`
	Vehicle    *domain.Vehicle `json:"vehicle,omitempty"`
}

type VehicleService struct {
	db       DB
	newRepos ReposFactory
	events   EventPublisher
	audits   audit.Logger
	now      func() time.Time
	logger   *slog.Logger
}

func NewVehicleService(db DB, logger *slog.Logger) *VehicleService {
	return &VehicleService{
		db:       db,
		newRepos: NewRepos,
		audits:   &audit.NoOpLogger{},
		now:      time.Now,
		logger:   logger,
	}
}

// WithEvents broadcasts entries to connected operator consoles
func (s *VehicleService) WithEvents(events EventPublisher) *VehicleService {
	s.events = events
	return s
}

// WithAudit records entries in the audit trail
func (s *VehicleService) WithAudit(audits audit.Logger) *VehicleService {
	s.audits = audits
	return s
}

// WithReposFactory overrides repository construction, used by tests
func (s *VehicleService) WithReposFactory(f ReposFactory) *VehicleService {
	s.newRepos = f
	return s
}

// WithClock overrides the time source, used by tests
func (s *VehicleService) WithClock(now func() time.Time) *VehicleService {
	s.now = now
	return s
}

// RegisterEntry opens a stay: it claims a space and creates the vehicle row
// in one transaction, so a crash between the two cannot strand a space.
func (s *VehicleService) RegisterEntry(ctx context.Context, req EntryRequest) (*domain.Vehicle, error) {
	entryTime := s.now()
	if req.EntryTime != nil {
		entryTime = *req.EntryTime
	}

	vehicle := &domain.Vehicle{
		Plate:        domain.NormalizePlate(req.Plate),
		Class:        req.Class,
		Color:        req.Color,
		Brand:        req.Brand,
		Model:        req.Model,
		OwnerName:    req.OwnerName,
		OwnerPhone:   req.OwnerPhone,
		OwnerEmail:   req.OwnerEmail,
		Observations: req.Observations,
		EntryTime:    entryTime,
	}

	if err := vehicle.Validate(); err != nil {
		return nil, domain.ErrValidationFailed.WithMessage(err.Error())
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin entry: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	repos := s.newRepos(tx)

	space, err := s.pickSpace(ctx, repos, req.SpaceID)
	if err != nil {
		return nil, err
	}
	vehicle.SpaceID = &space.ID

	if err := repos.Vehicles.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	if err := repos.Spaces.Occupy(ctx, space.ID, vehicle.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit entry: %w", err)
	}

	s.logger.Info("vehicle entered",
		"plate", vehicle.Plate,
		"class", vehicle.Class,
		"space", space.Code,
	)

	if s.events != nil {
		s.events.Publish(string(ws.EventVehicleEntered), map[string]interface{}{
			"plate":      vehicle.Plate,
			"class":      vehicle.Class,
			"space_code": space.Code,
		})
		s.events.Publish(string(ws.EventSpaceOccupied), map[string]interface{}{
			"space_id":   space.ID,
			"space_code": space.Code,
		})
	}
	_ = s.audits.Log(ctx, audit.Event{
		EventType: audit.EventVehicleEntry,
		Plate:     vehicle.Plate,
		SpaceCode: space.Code,
		Success:   true,
		Metadata:  map[string]string{"vehicle_class": string(vehicle.Class)},
	})

	return vehicle, nil
}

func (s *VehicleService) pickSpace(ctx context.Context, repos Repos, spaceID *uuid.UUID) (*domain.ParkingSpace, error) {
	if spaceID != nil {
		space, err := repos.Spaces.GetByID(ctx, *spaceID)
		if err != nil {
			return nil, err
		}
		if !space.Assignable() {
			return nil, domain.ErrSpaceNotAvailable
		}
		return space, nil
	}
	return repos.Spaces.FirstAvailable(ctx)
}

// GetActive returns one active stay by id
func (s *VehicleService) GetActive(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return s.newRepos(s.db).Vehicles.GetActiveByID(ctx, id)
}

// SearchActiveByPlate returns the active stay for a plate, in any formatting
func (s *VehicleService) SearchActiveByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	return s.newRepos(s.db).Vehicles.GetActiveByPlate(ctx, plate)
}

// ListActive returns every vehicle currently inside the lot
func (s *VehicleService) ListActive(ctx context.Context) ([]domain.Vehicle, error) {
	return s.newRepos(s.db).Vehicles.ListActive(ctx)
}

// GetByID returns a stay regardless of status, for history lookups
func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return s.newRepos(s.db).Vehicles.GetByID(ctx, id)
}

// ValidateExit is the barrier-gate check: a plate may leave only once its
// stay has been settled, which is what flips the row from ACTIVE to EXITED.
func (s *VehicleService) ValidateExit(ctx context.Context, plate string) (*ExitAuthorization, error) {
	normalized := domain.NormalizePlate(plate)
	if !domain.ValidPlate(normalized) {
		return nil, domain.ErrValidationFailed.WithMessage("plate must be 3-10 alphanumeric characters")
	}

	vehicle, err := s.newRepos(s.db).Vehicles.GetActiveByPlate(ctx, normalized)
	if errors.Is(err, domain.ErrVehicleNotFound) {
		return &ExitAuthorization{Plate: normalized, Authorized: true}, nil
	}
	if err != nil {
		return nil, err
	}

	return &ExitAuthorization{
		Plate:      normalized,
		Authorized: false,
		Reason:     "payment pending",
		Vehicle:    vehicle,
	}, nil
}

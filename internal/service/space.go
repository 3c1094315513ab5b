package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dcastrillonv/parqueadero/internal/audit"
	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/repository"
	"github.com/dcastrillonv/parqueadero/internal/ws"
)

// SpaceService manages the parking grid
type SpaceService struct {
	spaces repository.SpaceRepositoryInterface
	events EventPublisher
	audits audit.Logger
	logger *slog.Logger
}

func NewSpaceService(spaces repository.SpaceRepositoryInterface, logger *slog.Logger) *SpaceService {
	return &SpaceService{spaces: spaces, audits: &audit.NoOpLogger{}, logger: logger}
}

// WithEvents broadcasts grid changes to connected operator consoles
func (s *SpaceService) WithEvents(events EventPublisher) *SpaceService {
	s.events = events
	return s
}

// WithAudit records manual releases in the audit trail
func (s *SpaceService) WithAudit(audits audit.Logger) *SpaceService {
	s.audits = audits
	return s
}

func (s *SpaceService) Create(ctx context.Context, space *domain.ParkingSpace) (*domain.ParkingSpace, error) {
	if space.State == "" {
		space.State = domain.SpaceAvailable
	}
	if err := space.Validate(); err != nil {
		return nil, domain.ErrValidationFailed.WithMessage(err.Error())
	}

	if err := s.spaces.Create(ctx, space); err != nil {
		return nil, err
	}

	s.logger.Info("space created", "space_id", space.ID, "code", space.Code)
	return space, nil
}

func (s *SpaceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSpace, error) {
	return s.spaces.GetByID(ctx, id)
}

func (s *SpaceService) List(ctx context.Context) ([]domain.ParkingSpace, error) {
	return s.spaces.List(ctx)
}

// SetState moves a space between AVAILABLE, RESERVED and MAINTENANCE.
// OCCUPIED is owned by the entry and settle flows and cannot be set here.
func (s *SpaceService) SetState(ctx context.Context, id uuid.UUID, state string) (*domain.ParkingSpace, error) {
	if !domain.ValidSpaceState(state) {
		return nil, domain.ErrValidationFailed.WithMessage("invalid space state")
	}
	if state == domain.SpaceOccupied {
		return nil, domain.ErrValidationFailed.WithMessage("OCCUPIED is assigned by vehicle entry, not manually")
	}

	space, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if space.State == domain.SpaceOccupied {
		return nil, domain.ErrSpaceNotAvailable.WithMessage("space is occupied, settle the vehicle first")
	}

	space.State = state
	if err := s.spaces.Update(ctx, space); err != nil {
		return nil, err
	}

	return space, nil
}

// Assign places an already-registered vehicle on a specific space
func (s *SpaceService) Assign(ctx context.Context, id, vehicleID uuid.UUID) (*domain.ParkingSpace, error) {
	space, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !space.Assignable() {
		return nil, domain.ErrSpaceNotAvailable
	}

	if err := s.spaces.Occupy(ctx, id, vehicleID); err != nil {
		return nil, err
	}

	space.State = domain.SpaceOccupied
	space.VehicleID = &vehicleID

	if s.events != nil {
		s.events.Publish(string(ws.EventSpaceOccupied), map[string]interface{}{
			"space_id":   space.ID,
			"space_code": space.Code,
		})
	}

	return space, nil
}

// AutoAssign returns the first free space in grid order without claiming it.
// The claim happens on vehicle entry; this is the suggestion the operator
// screen shows beforehand.
func (s *SpaceService) AutoAssign(ctx context.Context) (*domain.ParkingSpace, error) {
	return s.spaces.FirstAvailable(ctx)
}

// Release force-frees a space, for operator corrections
func (s *SpaceService) Release(ctx context.Context, id uuid.UUID) error {
	if err := s.spaces.Release(ctx, id); err != nil {
		return err
	}

	s.logger.Warn("space manually released", "space_id", id)

	if s.events != nil {
		s.events.Publish(string(ws.EventSpaceReleased), map[string]interface{}{
			"space_id": id,
		})
	}
	_ = s.audits.Log(ctx, audit.Event{
		EventType: audit.EventSpaceReleased,
		Success:   true,
		Metadata:  map[string]string{"space_id": id.String()},
	})

	return nil
}

func (s *SpaceService) Delete(ctx context.Context, id uuid.UUID) error {
	space, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if space.State == domain.SpaceOccupied {
		return domain.ErrSpaceNotAvailable.WithMessage("cannot delete an occupied space")
	}

	return s.spaces.Delete(ctx, id)
}

package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/repository"
)

// RateService manages the rate catalog
type RateService struct {
	rates  repository.RateRepositoryInterface
	logger *slog.Logger
}

func NewRateService(rates repository.RateRepositoryInterface, logger *slog.Logger) *RateService {
	return &RateService{rates: rates, logger: logger}
}

func (s *RateService) Create(ctx context.Context, rate *domain.Rate) (*domain.Rate, error) {
	if err := rate.Validate(); err != nil {
		return nil, domain.ErrValidationFailed.WithMessage(err.Error())
	}

	if err := s.rates.Create(ctx, rate); err != nil {
		return nil, err
	}

	s.logger.Info("rate created", "rate_id", rate.ID, "name", rate.Name, "class", rate.VehicleClass)
	return rate, nil
}

func (s *RateService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rate, error) {
	return s.rates.GetByID(ctx, id)
}

func (s *RateService) List(ctx context.Context, filter repository.RateFilter) ([]domain.Rate, error) {
	return s.rates.List(ctx, filter)
}

// Update replaces the mutable fields of a rate. Settled payments are not
// affected: each one carries its own snapshot of the rate it was billed with.
func (s *RateService) Update(ctx context.Context, id uuid.UUID, rate *domain.Rate) (*domain.Rate, error) {
	existing, err := s.rates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rate.ID = existing.ID
	rate.CreatedAt = existing.CreatedAt
	if err := rate.Validate(); err != nil {
		return nil, domain.ErrValidationFailed.WithMessage(err.Error())
	}

	if err := s.rates.Update(ctx, rate); err != nil {
		return nil, err
	}

	return rate, nil
}

// Deactivate retires a rate from selection without deleting it, so payment
// history keeps resolving.
func (s *RateService) Deactivate(ctx context.Context, id uuid.UUID) (*domain.Rate, error) {
	rate, err := s.rates.Deactivate(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("rate deactivated", "rate_id", rate.ID, "name", rate.Name)
	return rate, nil
}

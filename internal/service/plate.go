package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/provider"
	"github.com/dcastrillonv/parqueadero/internal/repository"
)

// RecognitionResult is the OCR outcome enriched with the lot state: when the
// recognized plate has an active stay, the stay rides along so the operator
// screen can jump straight to checkout.
type RecognitionResult struct {
	Plate         string                    `json:"plate"`
	Confidence    float64                   `json:"confidence"`
	VehicleClass  domain.VehicleClass       `json:"vehicle_class,omitempty"`
	Candidates    []provider.PlateCandidate `json:"candidates,omitempty"`
	ActiveVehicle *domain.Vehicle           `json:"active_vehicle,omitempty"`
}

type PlateService struct {
	provider      provider.PlateProvider
	vehicles      repository.VehicleRepositoryInterface
	minConfidence float64
	logger        *slog.Logger
}

func NewPlateService(p provider.PlateProvider, vehicles repository.VehicleRepositoryInterface, minConfidence float64, logger *slog.Logger) *PlateService {
	return &PlateService{
		provider:      p,
		vehicles:      vehicles,
		minConfidence: minConfidence,
		logger:        logger,
	}
}

// Recognize runs plate OCR on the image and looks up the plate in the lot.
// Reads below the confidence floor are rejected so a misread never opens or
// charges the wrong stay.
func (s *PlateService) Recognize(ctx context.Context, image []byte) (*RecognitionResult, error) {
	res, err := s.provider.RecognizePlate(ctx, image)
	if err != nil {
		return nil, err
	}

	if res.Confidence < s.minConfidence {
		s.logger.Warn("plate read below confidence floor",
			"plate", res.Plate,
			"confidence", res.Confidence,
			"floor", s.minConfidence,
		)
		return nil, domain.ErrLowPlateConfidence
	}

	result := &RecognitionResult{
		Plate:        res.Plate,
		Confidence:   res.Confidence,
		VehicleClass: res.VehicleClass,
		Candidates:   res.Candidates,
	}

	vehicle, err := s.vehicles.GetActiveByPlate(ctx, res.Plate)
	if err != nil && !errors.Is(err, domain.ErrVehicleNotFound) {
		return nil, err
	}
	result.ActiveVehicle = vehicle

	return result, nil
}

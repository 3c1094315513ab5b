package mock

import (
	"context"

	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/provider"
)

// Provider implementa provider.PlateProvider para testes e desenvolvimento
type Provider struct {
	// Plate is returned on every successful recognition
	Plate string

	// VehicleClass is the suggested class, may be empty
	VehicleClass domain.VehicleClass

	// Confidence defaults to 0.95 when zero
	Confidence float64

	// Err forces recognition to fail when set
	Err error
}

// New cria uma nova instância do MockProvider
func New() *Provider {
	return &Provider{
		Plate:        "ABC123",
		VehicleClass: domain.ClassCar,
	}
}

// RecognizePlate returns the configured plate without touching any backend
func (p *Provider) RecognizePlate(ctx context.Context, image []byte) (*provider.PlateResult, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if len(image) == 0 {
		return nil, domain.ErrInvalidImage
	}

	confidence := p.Confidence
	if confidence == 0 {
		confidence = 0.95
	}

	return &provider.PlateResult{
		Plate:        domain.NormalizePlate(p.Plate),
		Confidence:   confidence,
		VehicleClass: p.VehicleClass,
	}, nil
}

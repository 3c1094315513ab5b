package platerecognizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/provider"
)

// Provider implementa provider.PlateProvider usando a API do Plate Recognizer
type Provider struct {
	client *Client
}

// NewProvider creates a Plate Recognizer backed provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// RecognizePlate uploads the image and maps the best read to a PlateResult
func (p *Provider) RecognizePlate(ctx context.Context, image []byte) (*provider.PlateResult, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidImage
	}

	resp, err := p.client.ReadPlate(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("plate recognizer: %w", err)
	}

	if len(resp.Results) == 0 {
		return nil, domain.ErrNoPlateDetected
	}

	// Results come ordered by score, the first one is the winner.
	best := resp.Results[0]

	result := &provider.PlateResult{
		Plate:      domain.NormalizePlate(best.Plate),
		Confidence: best.Score,
	}

	if best.Vehicle != nil {
		result.VehicleClass = mapVehicleType(best.Vehicle.Type)
	}

	for _, cand := range best.Candidates {
		result.Candidates = append(result.Candidates, provider.PlateCandidate{
			Plate:      domain.NormalizePlate(cand.Plate),
			Confidence: cand.Score,
		})
	}

	return result, nil
}

// mapVehicleType translates Plate Recognizer vehicle labels into billing classes
func mapVehicleType(vehicleType string) domain.VehicleClass {
	switch strings.ToLower(vehicleType) {
	case "motorcycle":
		return domain.ClassMotorcycle
	case "pickup truck", "van", "suv":
		return domain.ClassPickupVan
	case "big truck", "truck", "bus":
		return domain.ClassTruck
	case "car", "sedan":
		return domain.ClassCar
	default:
		return ""
	}
}

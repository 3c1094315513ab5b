package provider

import (
	"context"

	"github.com/dcastrillonv/parqueadero/internal/domain"
)

// PlateProvider define a interface para provedores de reconhecimento de placas
type PlateProvider interface {
	// RecognizePlate extracts the most likely license plate from the image.
	// Confidence is normalized to the 0.0-1.0 range regardless of backend.
	RecognizePlate(ctx context.Context, image []byte) (*PlateResult, error)
}

// PlateResult is the provider-agnostic recognition outcome
type PlateResult struct {
	// Plate is the normalized plate text (uppercase, no separators)
	Plate string `json:"plate"`

	// Confidence of the winning read, between 0.0 and 1.0
	Confidence float64 `json:"confidence"`

	// VehicleClass suggested by the backend, empty when it offers no hint
	VehicleClass domain.VehicleClass `json:"vehicle_class,omitempty"`

	// Candidates holds alternative reads ordered by descending confidence
	Candidates []PlateCandidate `json:"candidates,omitempty"`
}

// PlateCandidate is an alternative plate read
type PlateCandidate struct {
	Plate      string  `json:"plate"`
	Confidence float64 `json:"confidence"`
}

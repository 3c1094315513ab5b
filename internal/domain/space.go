package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Space states
const (
	SpaceAvailable   = "AVAILABLE"
	SpaceOccupied    = "OCCUPIED"
	SpaceReserved    = "RESERVED"
	SpaceMaintenance = "MAINTENANCE"
)

// Space kinds
const (
	SpaceKindCompact     = "COMPACT"
	SpaceKindLarge       = "LARGE"
	SpaceKindMotorcycle  = "MOTORCYCLE"
	SpaceKindHandicapped = "HANDICAPPED"
)

var validSpaceStates = map[string]bool{
	SpaceAvailable:   true,
	SpaceOccupied:    true,
	SpaceReserved:    true,
	SpaceMaintenance: true,
}

var validSpaceKinds = map[string]bool{
	SpaceKindCompact:     true,
	SpaceKindLarge:       true,
	SpaceKindMotorcycle:  true,
	SpaceKindHandicapped: true,
}

// ParkingSpace is one slot in the lot grid. Row/Col position the slot in the
// frontend grid and drive the auto-assignment order.
type ParkingSpace struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Kind      string     `json:"kind"`
	State     string     `json:"state"`
	Row       int        `json:"row"`
	Col       int        `json:"col"`
	VehicleID *uuid.UUID `json:"vehicle_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (s *ParkingSpace) Validate() error {
	if strings.TrimSpace(s.Code) == "" {
		return errors.New("code is required")
	}
	if !validSpaceKinds[s.Kind] {
		return errors.New("invalid space kind")
	}
	if s.State != "" && !validSpaceStates[s.State] {
		return errors.New("invalid space state")
	}
	return nil
}

// Assignable reports whether a vehicle may be placed on this space.
func (s *ParkingSpace) Assignable() bool {
	return s.State == SpaceAvailable || s.State == SpaceReserved
}

func ValidSpaceState(state string) bool {
	return validSpaceStates[state]
}

package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Vehicle status
const (
	VehicleStatusActive = "ACTIVE"
	VehicleStatusExited = "EXITED"
)

var plateRegex = regexp.MustCompile(`^[A-Z0-9]{3,10}$`)

// Vehicle is one stay inside the lot. A plate may appear many times in the
// history, but at most one row per plate has status ACTIVE.
type Vehicle struct {
	ID           uuid.UUID    `json:"id"`
	Plate        string       `json:"plate"`
	Class        VehicleClass `json:"vehicle_class"`
	Color        string       `json:"color,omitempty"`
	Brand        string       `json:"brand,omitempty"`
	Model        string       `json:"model,omitempty"`
	OwnerName    string       `json:"owner_name"`
	OwnerPhone   string       `json:"owner_phone,omitempty"`
	OwnerEmail   string       `json:"owner_email,omitempty"`
	SpaceID      *uuid.UUID   `json:"space_id,omitempty"`
	Observations string       `json:"observations,omitempty"`
	Status       string       `json:"status"`
	EntryTime    time.Time    `json:"entry_time"`
	ExitTime     *time.Time   `json:"exit_time,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NormalizePlate strips spaces and dashes and uppercases the plate so lookups
// are insensitive to how the operator (or the OCR service) formatted it.
func NormalizePlate(plate string) string {
	plate = strings.ReplaceAll(plate, " ", "")
	plate = strings.ReplaceAll(plate, "-", "")
	return strings.ToUpper(plate)
}

// ValidPlate reports whether a normalized plate has a plausible shape.
func ValidPlate(plate string) bool {
	return plateRegex.MatchString(plate)
}

func (v *Vehicle) Validate() error {
	if !ValidPlate(v.Plate) {
		return errors.New("plate must be 3-10 alphanumeric characters")
	}
	if !v.Class.Valid() {
		return errors.New("invalid vehicle class")
	}
	if strings.TrimSpace(v.OwnerName) == "" {
		return errors.New("owner name is required")
	}
	return nil
}

func (v *Vehicle) IsActive() bool {
	return v.Status == VehicleStatusActive
}

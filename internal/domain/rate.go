package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VehicleClass is the four-way classification the rate catalog is scoped by.
type VehicleClass string

const (
	ClassCar        VehicleClass = "CAR"
	ClassMotorcycle VehicleClass = "MOTORCYCLE"
	ClassPickupVan  VehicleClass = "PICKUP_VAN"
	ClassTruck      VehicleClass = "TRUCK"
)

var validVehicleClasses = map[VehicleClass]bool{
	ClassCar:        true,
	ClassMotorcycle: true,
	ClassPickupVan:  true,
	ClassTruck:      true,
}

func (c VehicleClass) Valid() bool {
	return validVehicleClasses[c]
}

// BillingScheme is the method of converting dwell time into a billable quantity.
type BillingScheme string

const (
	SchemePerHour     BillingScheme = "PER_HOUR"
	SchemePerFraction BillingScheme = "PER_FRACTION"
	SchemePerDay      BillingScheme = "PER_DAY"
	SchemeFlatMonthly BillingScheme = "FLAT_MONTHLY"
)

var validBillingSchemes = map[BillingScheme]bool{
	SchemePerHour:     true,
	SchemePerFraction: true,
	SchemePerDay:      true,
	SchemeFlatMonthly: true,
}

func (s BillingScheme) Valid() bool {
	return validBillingSchemes[s]
}

// Rate is one priced billing rule for a vehicle class.
// UnitAmount is in Colombian pesos, which have no subunit, but amounts are
// kept as decimals so the engine can round deterministically.
type Rate struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	VehicleClass VehicleClass     `json:"vehicle_class"`
	Scheme       BillingScheme    `json:"billing_scheme"`
	UnitAmount   decimal.Decimal  `json:"unit_amount"`
	MinimumHours *decimal.Decimal `json:"minimum_hours,omitempty"` // PER_HOUR floor, nil = no floor
	ActiveFrom   *time.Time       `json:"active_from,omitempty"`
	ActiveUntil  *time.Time       `json:"active_until,omitempty"` // nil = open-ended
	IsActive     bool             `json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (r *Rate) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if !r.VehicleClass.Valid() {
		return errors.New("invalid vehicle class")
	}
	if !r.Scheme.Valid() {
		return errors.New("invalid billing scheme")
	}
	if !r.UnitAmount.IsPositive() {
		return errors.New("unit amount must be greater than zero")
	}
	if r.MinimumHours != nil && r.MinimumHours.IsNegative() {
		return errors.New("minimum hours cannot be negative")
	}
	if r.MinimumHours != nil && r.Scheme != SchemePerHour {
		return errors.New("minimum hours only applies to PER_HOUR rates")
	}
	if r.ActiveFrom != nil && r.ActiveUntil != nil && r.ActiveUntil.Before(*r.ActiveFrom) {
		return errors.New("active_until precedes active_from")
	}
	return nil
}

// ApplicableAt reports whether the rate can bill the given class at the
// given instant: class match, active flag, and validity window.
func (r *Rate) ApplicableAt(class VehicleClass, now time.Time) bool {
	if r.VehicleClass != class || !r.IsActive {
		return false
	}
	if r.ActiveFrom != nil && now.Before(*r.ActiveFrom) {
		return false
	}
	if r.ActiveUntil != nil && r.ActiveUntil.Before(now) {
		return false
	}
	return true
}

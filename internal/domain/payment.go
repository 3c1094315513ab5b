package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods
const (
	MethodCash     = "CASH"
	MethodCard     = "CARD"
	MethodTransfer = "TRANSFER"
)

// Payment status
const (
	PaymentPaid     = "PAID"
	PaymentRefunded = "REFUNDED"
)

var validPaymentMethods = map[string]bool{
	MethodCash:     true,
	MethodCard:     true,
	MethodTransfer: true,
}

func ValidPaymentMethod(method string) bool {
	return validPaymentMethods[method]
}

// AppliedRate is the point-in-time snapshot of the rate a charge was billed
// with. It is serialized into the payment record so a later edit of the rate
// catalog cannot retroactively alter a historical charge.
type AppliedRate struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Scheme       BillingScheme   `json:"billing_scheme"`
	UnitAmount   decimal.Decimal `json:"unit_amount"`
	VehicleClass VehicleClass    `json:"vehicle_class"`
}

// Payment is the persisted settlement of one vehicle stay.
type Payment struct {
	ID             uuid.UUID       `json:"id"`
	VehicleID      uuid.UUID       `json:"vehicle_id"`
	ReceiptNumber  string          `json:"receipt_number"`
	Method         string          `json:"method"`
	Status         string          `json:"status"`
	DurationHours  decimal.Decimal `json:"duration_hours"`
	BilledHours    decimal.Decimal `json:"billed_hours"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
	RateApplied    AppliedRate     `json:"rate_applied"`
	Notes          string          `json:"notes,omitempty"`
	PaidAt         time.Time       `json:"paid_at"`
	RefundedAt     *time.Time      `json:"refunded_at,omitempty"`
	RefundReason   string          `json:"refund_reason,omitempty"`
}

func (p *Payment) Validate() error {
	if p.VehicleID == uuid.Nil {
		return errors.New("vehicle id is required")
	}
	if !ValidPaymentMethod(p.Method) {
		return errors.New("invalid payment method")
	}
	if p.ReceiptNumber == "" {
		return errors.New("receipt number is required")
	}
	if p.Total.IsNegative() {
		return errors.New("total cannot be negative")
	}
	return nil
}

package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dcastrillonv/parqueadero/internal/domain"
)

// ChargeCalculation is the pre-discount outcome of billing a dwell time
// against one rate. Rate is a value snapshot, not a live reference, so a
// later catalog edit cannot alter a charge that was already issued.
type ChargeCalculation struct {
	Subtotal    decimal.Decimal    `json:"subtotal"`
	BilledHours decimal.Decimal    `json:"billed_hours"`
	ActualHours decimal.Decimal    `json:"actual_hours"`
	Rate        domain.AppliedRate `json:"rate"`
}

// CalculateAmount converts a dwell time in hours into a billed quantity and
// subtotal under the rate's billing scheme. Hour-based schemes round up to
// the next whole unit (partial hours, fractions and days are billed in
// full); FLAT_MONTHLY ignores duration entirely.
func CalculateAmount(hours decimal.Decimal, rate *domain.Rate) (*ChargeCalculation, error) {
	if rate == nil {
		return nil, domain.ErrNoRate
	}

	var subtotal, billedHours decimal.Decimal

	switch rate.Scheme {
	case domain.SchemePerHour:
		billedHours = hours.Ceil()
		if rate.MinimumHours != nil {
			if floor := rate.MinimumHours.Ceil(); billedHours.LessThan(floor) {
				billedHours = floor
			}
		}
		subtotal = billedHours.Mul(rate.UnitAmount)

	case domain.SchemePerFraction:
		fractions := hours.Mul(sixty).Div(fifteen).Ceil()
		billedHours = fractions.Mul(quarter)
		subtotal = fractions.Mul(rate.UnitAmount)

	case domain.SchemePerDay:
		days := hours.Div(hoursDay).Ceil()
		billedHours = days.Mul(hoursDay)
		subtotal = days.Mul(rate.UnitAmount)

	case domain.SchemeFlatMonthly:
		// Subscription model: duration is informational only.
		billedHours = hours
		subtotal = rate.UnitAmount

	default:
		return nil, domain.ErrUnsupportedBillingScheme.WithMessage(
			"unsupported billing scheme " + string(rate.Scheme))
	}

	return &ChargeCalculation{
		Subtotal:    subtotal.Round(2),
		BilledHours: billedHours.Round(2),
		ActualHours: hours,
		Rate: domain.AppliedRate{
			ID:           rate.ID,
			Name:         rate.Name,
			Scheme:       rate.Scheme,
			UnitAmount:   rate.UnitAmount,
			VehicleClass: rate.VehicleClass,
		},
	}, nil
}

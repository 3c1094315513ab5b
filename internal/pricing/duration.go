// Package pricing implements the parking fee engine: dwell-time measurement,
// per-scheme amount calculation, cheapest-rate selection, discounts and
// receipt numbers. Everything here is pure computation over its inputs; the
// engine never touches the database or the wall clock (the receipt generator
// takes both as injected dependencies).
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcastrillonv/parqueadero/internal/domain"
)

var (
	msPerHour = decimal.NewFromInt(3_600_000)
	sixty     = decimal.NewFromInt(60)
	fifteen   = decimal.NewFromInt(15)
	quarter   = decimal.RequireFromString("0.25")
	hundred   = decimal.NewFromInt(100)
	hoursDay  = decimal.NewFromInt(24)
)

// Options controls engine policy that is left to the operator.
type Options struct {
	// AllowNegativeDuration permits an exit timestamp before the entry
	// timestamp (backdating, manual corrections); the stay then bills as
	// zero hours. When false, such input is rejected instead.
	AllowNegativeDuration bool
}

// ComputeDuration returns the elapsed time between entry and exit in hours,
// rounded half-up to 2 decimals. Scheme-level rounding up (full hours, 15-min
// fractions, full days) happens later in CalculateAmount, never here.
func ComputeDuration(entry, exit time.Time, opts Options) (decimal.Decimal, error) {
	if exit.Before(entry) {
		if !opts.AllowNegativeDuration {
			return decimal.Zero, domain.ErrInvalidDuration
		}
		// Backdated exits clamp to an empty stay, never a negative charge.
		return decimal.Zero, nil
	}

	ms := decimal.NewFromInt(exit.Sub(entry).Milliseconds())
	return ms.Div(msPerHour).Round(2), nil
}
